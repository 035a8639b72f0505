package models

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid is returned when a pixel grid's dimensions do not match its buffer
var ErrInvalidGrid = errors.New("invalid pixel grid")

// PixelGrid is a width x height x channels raster of 8-bit samples.
// Pix is flattened row-major with the channel varying fastest, so the sample
// for (x, y, c) lives at (y*Width+x)*Channels + c.
type PixelGrid struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewPixelGrid allocates a zeroed grid
func NewPixelGrid(width, height, channels int) (*PixelGrid, error) {
	if width < 0 || height < 0 || channels < 1 {
		return nil, fmt.Errorf("%w: dimensions %dx%dx%d", ErrInvalidGrid, width, height, channels)
	}
	return &PixelGrid{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// Validate checks that the buffer length agrees with the dimensions
func (g *PixelGrid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	if g.Width < 0 || g.Height < 0 || g.Channels < 1 {
		return fmt.Errorf("%w: dimensions %dx%dx%d", ErrInvalidGrid, g.Width, g.Height, g.Channels)
	}
	if want := g.Width * g.Height * g.Channels; len(g.Pix) != want {
		return fmt.Errorf("%w: buffer holds %d samples, dimensions need %d", ErrInvalidGrid, len(g.Pix), want)
	}
	return nil
}

// Capacity is the number of samples, i.e. the number of bits one bit-plane holds
func (g *PixelGrid) Capacity() int {
	return len(g.Pix)
}

// Offset returns the index into Pix of sample (x, y, c)
func (g *PixelGrid) Offset(x, y, c int) int {
	return (y*g.Width+x)*g.Channels + c
}

// At returns sample (x, y, c)
func (g *PixelGrid) At(x, y, c int) uint8 {
	return g.Pix[g.Offset(x, y, c)]
}

// Set stores sample (x, y, c)
func (g *PixelGrid) Set(x, y, c int, v uint8) {
	g.Pix[g.Offset(x, y, c)] = v
}

// Clone returns a deep copy that shares no memory with g
func (g *PixelGrid) Clone() *PixelGrid {
	pix := make([]uint8, len(g.Pix))
	copy(pix, g.Pix)
	return &PixelGrid{
		Width:    g.Width,
		Height:   g.Height,
		Channels: g.Channels,
		Pix:      pix,
	}
}

// SameShape reports whether two grids have identical dimensions
func (g *PixelGrid) SameShape(o *PixelGrid) bool {
	return g.Width == o.Width && g.Height == o.Height && g.Channels == o.Channels
}
