package extractor

import (
	"errors"
	"time"

	"StegoPlane/pkg/filehandler"
	"StegoPlane/pkg/imageio"
	"StegoPlane/pkg/models"
	"StegoPlane/pkg/stego"
)

// ExtractionOptions contains configuration for extraction process
type ExtractionOptions struct {
	BitIndex   int
	OutputPath string // where the recovered payload is written; empty keeps it in memory only
}

// BitPlaneExtractor recovers payloads hidden by the embedder
type BitPlaneExtractor struct {
	formats *imageio.Registry
}

// NewBitPlaneExtractor creates an extractor reading images through the default format registry
func NewBitPlaneExtractor() *BitPlaneExtractor {
	return NewBitPlaneExtractorWithRegistry(imageio.DefaultRegistry)
}

// NewBitPlaneExtractorWithRegistry creates an extractor reading images through formats
func NewBitPlaneExtractorWithRegistry(formats *imageio.Registry) *BitPlaneExtractor {
	return &BitPlaneExtractor{formats: formats}
}

// Extract decodes the image at filePath and recovers the hidden payload
func (e *BitPlaneExtractor) Extract(filePath string, options ExtractionOptions) (*models.ExtractionResult, error) {
	start := time.Now()

	raster, err := e.formats.Load(filePath)
	if err != nil {
		return nil, err
	}

	data, err := e.ExtractFromRaster(raster, options)
	if err != nil {
		return nil, err
	}

	if options.OutputPath != "" {
		if err := filehandler.SaveFile(data, options.OutputPath); err != nil {
			return nil, err
		}
	}

	return &models.ExtractionResult{
		ImagePath:     filePath,
		OutputPath:    options.OutputPath,
		BitIndex:      options.BitIndex,
		ExtractedData: data,
		DataSize:      len(data),
		MimeType:      filehandler.DetectMimeType(data),
		Duration:      time.Since(start),
	}, nil
}

// ExtractFromRaster recovers the payload from an already decoded raster
func (e *BitPlaneExtractor) ExtractFromRaster(raster *imageio.Raster, options ExtractionOptions) ([]byte, error) {
	if raster == nil || raster.Grid == nil {
		return nil, errors.New("nil raster provided")
	}
	return stego.Decode(raster.Grid, options.BitIndex)
}
