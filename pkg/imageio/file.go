package imageio

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"StegoPlane/pkg/models"
)

// Raster is a decoded image file ready for the codec
type Raster struct {
	Grid   *models.PixelGrid
	Source image.Image // original decoded image, used to carry alpha through
	Format string
}

// Load decodes an image file into a Raster.
// The format is chosen by extension; unknown extensions fall back to content sniffing.
func Load(path string) (*Raster, error) {
	return DefaultRegistry.Load(path)
}

// Save writes the raster to path in the format implied by its extension
func Save(path string, raster *Raster) error {
	return DefaultRegistry.Save(path, raster)
}

// Load decodes an image file using the formats in r
func (r *Registry) Load(path string) (*Raster, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	var (
		img    image.Image
		format string
	)
	if f, ok := r.ForExtension(filepath.Ext(path)); ok {
		img, err = f.Decode(bufio.NewReader(file))
		format = f.Name
	} else {
		img, format, err = image.Decode(bufio.NewReader(file))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Raster{
		Grid:   FromImage(img),
		Source: img,
		Format: format,
	}, nil
}

// Save writes raster to path. Formats that are read only or lossy are refused.
func (r *Registry) Save(path string, raster *Raster) error {
	f, err := r.WritableFormat(path)
	if err != nil {
		return err
	}

	img, err := ToImage(raster.Grid, raster.Source)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	w := bufio.NewWriter(out)
	if err := f.Encode(w, img); err != nil {
		out.Close()
		os.Remove(path) // Clean up on error
		return fmt.Errorf("failed to encode %s: %w", f.Name, err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return out.Close()
}

// WritableFormat returns the format path would be written in, or an error when
// hidden data would not survive writing it
func (r *Registry) WritableFormat(path string) (*Format, error) {
	ext := filepath.Ext(path)
	f, ok := r.ForExtension(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if !f.CanWrite() {
		return nil, fmt.Errorf("%w: %s", ErrLossyFormat, f.Name)
	}
	return f, nil
}
