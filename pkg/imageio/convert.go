package imageio

import (
	"fmt"
	"image"
	"image/color"

	"StegoPlane/pkg/models"
)

// GridChannels is the number of channels FromImage produces.
// Alpha never carries hidden data.
const GridChannels = 3

// Sample order within a pixel. Blue comes first so the bit stream lines up
// with images written by BGR tooling such as OpenCV.
const (
	ChannelBlue = iota
	ChannelGreen
	ChannelRed
)

// FromImage copies the colour samples of img into a width x height x 3 grid in B, G, R order.
// Samples are taken non-premultiplied so opaque pixels round-trip exactly.
func FromImage(img image.Image) *models.PixelGrid {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	grid := &models.PixelGrid{
		Width:    width,
		Height:   height,
		Channels: GridChannels,
		Pix:      make([]uint8, width*height*GridChannels),
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			grid.Pix[i+ChannelBlue] = c.B
			grid.Pix[i+ChannelGreen] = c.G
			grid.Pix[i+ChannelRed] = c.R
			i += GridChannels
		}
	}
	return grid
}

// ToImage builds an NRGBA raster from a 3-channel grid.
// Alpha is taken from alphaSource when given (it must have the grid's size), otherwise opaque.
func ToImage(grid *models.PixelGrid, alphaSource image.Image) (*image.NRGBA, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if grid.Channels != GridChannels {
		return nil, fmt.Errorf("%w: expected %d channels, got %d", models.ErrInvalidGrid, GridChannels, grid.Channels)
	}

	var srcBounds image.Rectangle
	if alphaSource != nil {
		srcBounds = alphaSource.Bounds()
		if srcBounds.Dx() != grid.Width || srcBounds.Dy() != grid.Height {
			return nil, fmt.Errorf("%w: alpha source is %dx%d, grid is %dx%d", models.ErrInvalidGrid,
				srcBounds.Dx(), srcBounds.Dy(), grid.Width, grid.Height)
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			a := uint8(0xff)
			if alphaSource != nil {
				a = color.NRGBAModel.Convert(alphaSource.At(srcBounds.Min.X+x, srcBounds.Min.Y+y)).(color.NRGBA).A
			}
			o := grid.Offset(x, y, 0)
			out.SetNRGBA(x, y, color.NRGBA{
				R: grid.Pix[o+ChannelRed],
				G: grid.Pix[o+ChannelGreen],
				B: grid.Pix[o+ChannelBlue],
				A: a,
			})
		}
	}
	return out, nil
}
