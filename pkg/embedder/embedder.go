package embedder

import (
	"errors"
	"time"

	"StegoPlane/pkg/filehandler"
	"StegoPlane/pkg/imageio"
	"StegoPlane/pkg/models"
	"StegoPlane/pkg/stego"
)

// EmbedOptions contains configuration for the embedding process
type EmbedOptions struct {
	BitIndex   int
	OutputPath string
}

// BitPlaneEmbedder hides payload files in images
type BitPlaneEmbedder struct {
	formats *imageio.Registry
}

// NewBitPlaneEmbedder creates an embedder using the default format registry
func NewBitPlaneEmbedder() *BitPlaneEmbedder {
	return NewBitPlaneEmbedderWithRegistry(imageio.DefaultRegistry)
}

// NewBitPlaneEmbedderWithRegistry creates an embedder using formats for reading and writing images
func NewBitPlaneEmbedderWithRegistry(formats *imageio.Registry) *BitPlaneEmbedder {
	return &BitPlaneEmbedder{formats: formats}
}

// Embed hides the file at payloadPath in the image at imagePath and writes the result to options.OutputPath
func (e *BitPlaneEmbedder) Embed(imagePath, payloadPath string, options EmbedOptions) (*models.EmbedResult, error) {
	start := time.Now()

	if options.OutputPath == "" {
		return nil, errors.New("no output path given")
	}
	if _, err := e.formats.WritableFormat(options.OutputPath); err != nil {
		return nil, err
	}

	payload, err := filehandler.ReadPayload(payloadPath)
	if err != nil {
		return nil, err
	}

	raster, err := e.formats.Load(imagePath)
	if err != nil {
		return nil, err
	}

	encoded, err := e.EmbedInRaster(raster, payload, options)
	if err != nil {
		return nil, err
	}

	if err := e.formats.Save(options.OutputPath, encoded); err != nil {
		return nil, err
	}

	return &models.EmbedResult{
		ImagePath:    imagePath,
		PayloadPath:  payloadPath,
		OutputPath:   options.OutputPath,
		Format:       raster.Format,
		BitIndex:     options.BitIndex,
		PayloadBytes: len(payload),
		MessageBits:  stego.HeaderBits + 8*len(payload),
		Capacity:     raster.Grid.Capacity(),
		Duration:     time.Since(start),
	}, nil
}

// EmbedInRaster hides payload in a decoded raster and returns a new raster sharing the source image
func (e *BitPlaneEmbedder) EmbedInRaster(raster *imageio.Raster, payload []byte, options EmbedOptions) (*imageio.Raster, error) {
	if raster == nil || raster.Grid == nil {
		return nil, errors.New("nil raster provided")
	}

	grid, err := stego.Encode(raster.Grid, payload, options.BitIndex)
	if err != nil {
		return nil, err
	}
	return &imageio.Raster{
		Grid:   grid,
		Source: raster.Source,
		Format: raster.Format,
	}, nil
}
