// Package raster loads single-channel rasters from image files and writes
// rasters back out for inspection.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/davesmith10/NocaiPRN/internal/ir"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Decoded holds a decoded raster and the format it came from.
type Decoded struct {
	*ir.Gray
	Format string // "tiff", "png", "bmp"
}

// Decode decodes a TIFF, PNG or BMP image from memory into an 8-bit gray
// raster. Gray images are copied as-is; 16-bit samples keep their high
// byte; anything else goes through the standard gray conversion.
func Decode(data []byte) (*Decoded, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("data too short for an image")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &Decoded{Gray: ToGray(img), Format: format}, nil
}

// Load reads and decodes the image file at path.
func Load(path string) (*Decoded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ToGray converts img to a gray raster with its origin at (0, 0).
func ToGray(img image.Image) *ir.Gray {
	b := img.Bounds()
	out := ir.NewGray(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < out.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Row(y), src.Pix[off:off+out.Width])
		}
	case *image.Gray16:
		for y := 0; y < out.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := out.Row(y)
			for x := range row {
				row[x] = src.Pix[off+2*x] // big-endian: high byte first
			}
		}
	default:
		for y := 0; y < out.Height; y++ {
			row := out.Row(y)
			for x := range row {
				row[x] = color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			}
		}
	}
	return out
}
