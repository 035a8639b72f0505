package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"StegoPlane/pkg/analyzer"
	"StegoPlane/pkg/config"
	"StegoPlane/pkg/embedder"
	"StegoPlane/pkg/extractor"
	"StegoPlane/pkg/filehandler"
	"StegoPlane/pkg/imageio"
	"StegoPlane/pkg/models"
	"StegoPlane/pkg/stego"
)

func runEncode(c *console, cfg config.Config, args []string) error {
	fs := newCommandFlags(c, "encode", "<image_path> <payload_path> [options]")
	bitIdx := bitIndexFlag(fs, cfg.BitIndex)
	out := fs.String("out", cfg.EncodeOut, "Filename of the encoded image")
	fs.StringVar(out, "t", cfg.EncodeOut, "Filename of the encoded image (shorthand)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return flagError(err)
	}
	if err := expectArgs(c, fs, positional, "image_path", "payload_path"); err != nil {
		return err
	}
	imagePath, payloadPath := positional[0], positional[1]
	if err := checkImagePath(imagePath); err != nil {
		return err
	}

	c.printInfo("Hiding %s in bit %d of %s", payloadPath, *bitIdx, imagePath)
	result, err := embedder.NewBitPlaneEmbedder().Embed(imagePath, payloadPath, embedder.EmbedOptions{
		BitIndex:   *bitIdx,
		OutputPath: *out,
	})
	if err != nil {
		return err
	}

	c.printVerbose("Source format: %s", result.Format)
	c.printVerbose("Message bitstream: %d bits (%d header + %d payload)",
		result.MessageBits, stego.HeaderBits, result.MessageBits-stego.HeaderBits)
	c.printVerbose("Plane utilisation: %.2f%% of %d bits", 100*result.Utilization(), result.Capacity)
	c.printSuccess("Wrote %s (%d bytes hidden) in %v", result.OutputPath, result.PayloadBytes, result.Duration)
	return nil
}

func runDecode(c *console, cfg config.Config, args []string) error {
	fs := newCommandFlags(c, "decode", "<image_path> [options]")
	bitIdx := bitIndexFlag(fs, cfg.BitIndex)
	out := fs.String("out", cfg.DecodeOut, "Filename of the extracted message")
	fs.StringVar(out, "o", cfg.DecodeOut, "Filename of the extracted message (shorthand)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return flagError(err)
	}
	if err := expectArgs(c, fs, positional, "image_path"); err != nil {
		return err
	}
	imagePath := positional[0]
	if err := checkImagePath(imagePath); err != nil {
		return err
	}

	c.printInfo("Extracting bit %d of %s", *bitIdx, imagePath)
	result, err := extractor.NewBitPlaneExtractor().Extract(imagePath, extractor.ExtractionOptions{
		BitIndex:   *bitIdx,
		OutputPath: *out,
	})
	if err != nil {
		return err
	}

	c.printVerbose("Content type: %s", result.MimeType)
	c.printSuccess("Wrote %s (%d bytes recovered) in %v", result.OutputPath, result.DataSize, result.Duration)
	return nil
}

func runInspect(c *console, cfg config.Config, args []string) error {
	fs := newCommandFlags(c, "inspect", "<image_path> [options]")
	minConfidence := fs.Float64("min_confidence", 0, "Hide findings below this confidence")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return flagError(err)
	}
	if err := expectArgs(c, fs, positional, "image_path"); err != nil {
		return err
	}
	imagePath := positional[0]

	format, err := filehandler.DetectFileFormat(imagePath)
	if err != nil {
		return err
	}
	c.printInfo("Analyzing %s as %s format", imagePath, format)

	var a analyzer.FileAnalyzer = analyzer.NewBitPlaneAnalyzer()
	c.printVerbose("Running %s: %s", a.Name(), a.Description())
	result, err := a.Analyze(imagePath, analyzer.AnalysisOptions{
		Verbose:       c.verbose,
		MinConfidence: *minConfidence,
	})
	if err != nil {
		return err
	}

	displayAnalysisResult(c, result)
	return nil
}

// checkImagePath rejects inputs that are neither a known image extension nor sniffable image content
func checkImagePath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	if !filehandler.IsImageFile(path) {
		return fmt.Errorf("%w: %s is not an image", imageio.ErrUnsupportedFormat, path)
	}
	return nil
}

// formatList names the registered formats that can be read and the ones that can be written
func formatList() string {
	var readable, writable []string
	for _, name := range imageio.DefaultRegistry.SupportedFormats() {
		readable = append(readable, name)
		if f, ok := imageio.DefaultRegistry.ForName(name); ok && f.CanWrite() {
			writable = append(writable, name)
		}
	}
	return fmt.Sprintf("reads %s; writes %s", strings.Join(readable, ", "), strings.Join(writable, ", "))
}

func bitIndexFlag(fs *flag.FlagSet, def int) *int {
	bitIdx := fs.Int("bit_idx", def, "Index of the bit that carries the data, 0-7")
	fs.IntVar(bitIdx, "b", def, "Index of the bit that carries the data (shorthand)")
	return bitIdx
}

func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return errUsage
}

func displayAnalysisResult(c *console, result *models.AnalysisResult) {
	fmt.Fprintln(c.out, "\n--- Analysis Results ---")

	fmt.Fprintf(c.out, "File: %s\n", result.Filename)
	fmt.Fprintf(c.out, "Format: %s\n", result.FileType)
	fmt.Fprintf(c.out, "Size: %dx%d, %d channels\n", result.Width, result.Height, result.Channels)
	fmt.Fprintf(c.out, "Capacity: %d bytes per bit-plane\n", result.CapacityBytes)

	fmt.Fprintln(c.out, "\nBit  Header   Message bytes  Ones    Entropy  Chi-square")
	for _, p := range result.Planes {
		header := "invalid"
		bytes := "-"
		if p.HeaderValid {
			header = "valid"
			bytes = fmt.Sprintf("%d", p.MessageBits/8)
		}
		fmt.Fprintf(c.out, "%-4d %-8s %-14s %.4f  %.4f   %.2f\n", p.BitIndex, header, bytes, p.OnesRatio, p.Entropy, p.ChiSquare)
	}

	if candidates := result.CandidatePlanes(); len(candidates) > 0 {
		fmt.Fprintf(c.out, "\nCandidate bit indices: %v\n", candidates)
	}

	if len(result.Findings) > 0 {
		fmt.Fprintln(c.out, "\nFindings:")
		for i, finding := range result.Findings {
			line := fmt.Sprintf("%d. %s (Confidence: %.2f)", i+1, finding.Description, finding.Confidence)
			if finding.Confidence > 0.8 {
				c.printAlert("%s", line)
			} else {
				c.printWarning("%s", line)
			}
			if c.verbose && finding.Details != "" {
				fmt.Fprintf(c.out, "   Details: %s\n", finding.Details)
			}
		}
	} else {
		c.printSuccess("No embedded message found")
	}

	c.printVerbose("Analysis completed in %v", result.AnalysisDuration)
	fmt.Fprintln(c.out, "-------------------------")
}

// describeError turns codec errors into messages that say what to try next
func describeError(err error) string {
	var tooLarge *stego.PayloadTooLargeError
	var corrupt *stego.CorruptHeaderError

	switch {
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("%v; use a larger image or a smaller payload", err)
	case errors.As(err, &corrupt):
		return fmt.Sprintf("%v; the image was not encoded with this bit index, or was altered after encoding", err)
	case errors.Is(err, stego.ErrInvalidBitIndex):
		return fmt.Sprintf("%v; pass --bit_idx between 0 and 7", err)
	case errors.Is(err, imageio.ErrLossyFormat):
		return fmt.Sprintf("%v; write the output as .png, .bmp or .tiff", err)
	case errors.Is(err, imageio.ErrUnsupportedFormat):
		return fmt.Sprintf("%v; supported formats: %s", err, formatList())
	case errors.Is(err, filehandler.ErrPayloadFileTooLarge):
		return fmt.Sprintf("%v; the length header limits payloads to %d bytes", err, stego.MaxPayloadBytes)
	default:
		return err.Error()
	}
}
