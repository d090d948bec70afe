package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/davesmith10/NocaiPRN/internal/ir"
	"golang.org/x/image/tiff"
)

// previewShade maps a dot level to a gray value: no dot is white, a large
// dot is black.
var previewShade = [4]byte{255, 170, 85, 0}

// GrayImage wraps g as an *image.Gray sharing its pixels.
func GrayImage(g *ir.Gray) *image.Gray {
	return &image.Gray{
		Pix:    g.Pix,
		Stride: g.Width,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}
}

// DotsImage renders a dot raster as gray shades.
func DotsImage(d *ir.Dots) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
	for i, v := range d.Pix {
		img.Pix[i] = previewShade[v&0x03]
	}
	return img
}

// EncodeTIFF encodes g as an uncompressed 8-bit gray TIFF.
func EncodeTIFF(g *ir.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, GrayImage(g), &tiff.Options{Compression: tiff.Uncompressed}); err != nil {
		return nil, fmt.Errorf("tiff encode: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDotsPreview encodes a dot raster as a gray PNG.
func EncodeDotsPreview(d *ir.Dots) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, DotsImage(d)); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveTIFF writes g to path as a TIFF file.
func SaveTIFF(path string, g *ir.Gray) error {
	data, err := EncodeTIFF(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
