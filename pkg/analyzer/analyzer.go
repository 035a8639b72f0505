package analyzer

import (
	"fmt"
	"time"

	"StegoPlane/pkg/analyzer/plane"
	"StegoPlane/pkg/imageio"
	"StegoPlane/pkg/models"
	"StegoPlane/pkg/stego"
)

/*
Analyzer.go inspects an image for data hidden with the bit-plane scheme.
For every bit index it extracts the plane, reports its bit balance and entropy,
and probes the 24-bit length header. Planes whose header is consistent with the
image size are reported as candidates so the user can pick a bit index to decode.
*/

// AnalysisOptions holds configuration options for analysis
type AnalysisOptions struct {
	// Verbose fills Finding.Details with the plane statistics
	Verbose bool
	// MinConfidence filters findings below this score
	MinConfidence float64
}

// FileAnalyzer is the interface the CLI drives
type FileAnalyzer interface {
	// Analyze performs analysis on a file and returns results
	Analyze(filePath string, options AnalysisOptions) (*models.AnalysisResult, error)

	// AnalyzeRaster performs analysis directly on a decoded raster
	AnalyzeRaster(raster *imageio.Raster, options AnalysisOptions) (*models.AnalysisResult, error)

	// Name returns the name of the analyzer
	Name() string

	// Description returns a detailed description of what the analyzer does
	Description() string
}

// BaseAnalyzer provides common functionality for analyzers
type BaseAnalyzer struct {
	name        string
	description string
}

// NewBaseAnalyzer creates a new BaseAnalyzer
func NewBaseAnalyzer(name, description string) BaseAnalyzer {
	return BaseAnalyzer{
		name:        name,
		description: description,
	}
}

// Name returns the analyzer name
func (b *BaseAnalyzer) Name() string {
	return b.name
}

// Description returns the analyzer description
func (b *BaseAnalyzer) Description() string {
	return b.description
}

// BitPlaneAnalyzer probes all eight bit-planes of an image
type BitPlaneAnalyzer struct {
	BaseAnalyzer
}

var _ FileAnalyzer = (*BitPlaneAnalyzer)(nil)

// NewBitPlaneAnalyzer creates a new bit-plane analyzer
func NewBitPlaneAnalyzer() *BitPlaneAnalyzer {
	return &BitPlaneAnalyzer{
		BaseAnalyzer: NewBaseAnalyzer(
			"Bit-Plane Analyzer",
			"Probes every bit-plane for a valid length header and reports plane statistics",
		),
	}
}

// Analyze loads the image at filePath and inspects it
func (a *BitPlaneAnalyzer) Analyze(filePath string, options AnalysisOptions) (*models.AnalysisResult, error) {
	raster, err := imageio.Load(filePath)
	if err != nil {
		return nil, err
	}

	result, err := a.AnalyzeRaster(raster, options)
	if err != nil {
		return nil, err
	}
	result.Filename = filePath
	return result, nil
}

// AnalyzeRaster inspects an already decoded raster
func (a *BitPlaneAnalyzer) AnalyzeRaster(raster *imageio.Raster, options AnalysisOptions) (*models.AnalysisResult, error) {
	start := time.Now()
	grid := raster.Grid

	all, err := plane.AnalyzeAll(grid)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze bit-planes: %w", err)
	}

	result := &models.AnalysisResult{
		FileType:      raster.Format,
		Width:         grid.Width,
		Height:        grid.Height,
		Channels:      grid.Channels,
		CapacityBytes: stego.Capacity(grid),
		AnalysisTime:  start,
	}

	for _, s := range all {
		result.Planes = append(result.Planes, models.PlaneReport{
			BitIndex:    s.BitIndex,
			HeaderValid: s.HeaderValid,
			MessageBits: s.MessageBits,
			OnesRatio:   s.OnesRatio,
			Entropy:     s.Entropy,
			ChiSquare:   s.ChiSquare,
		})

		confidence := s.Confidence(grid.Capacity())
		if !s.HeaderValid || confidence < options.MinConfidence {
			continue
		}
		var details string
		if options.Verbose {
			details = fmt.Sprintf("filler entropy %.4f, plane entropy %.4f, chi-square %.2f",
				s.FillerEntropy, s.Entropy, s.ChiSquare)
		}
		result.AddFinding(
			fmt.Sprintf("Bit %d holds a valid header for %d bytes", s.BitIndex, s.MessageBits/8),
			confidence,
			details,
		)
	}

	result.AnalysisDuration = time.Since(start)
	return result, nil
}
