// Package mask builds per-channel threshold rasters by tiling a single
// precomputed dither tile across the page.
package mask

import (
	"errors"

	"github.com/davesmith10/NocaiPRN/internal/ink"
	"github.com/davesmith10/NocaiPRN/internal/ir"
)

// DefaultOffsets shifts each channel's tiled page so that the four inks do
// not share dot positions. Offsets apply to both axes.
var DefaultOffsets = [ink.Count]int{
	ink.Cyan:    0,
	ink.Magenta: 64,
	ink.Yellow:  128,
	ink.Black:   192,
}

// Tile repeats base over a width x height page and then rolls the page
// right and down by offset pixels, wrapping at the page edge. The result at
// (x, y) is the tiled page at ((x-offset) mod width, (y-offset) mod height).
func Tile(base *ir.Gray, width, height, offset int) (*ir.Gray, error) {
	if base.Width == 0 || base.Height == 0 {
		return nil, errors.New("mask tile is empty")
	}
	if width < 0 || height < 0 {
		return nil, errors.New("mask page size must not be negative")
	}
	out := ir.NewGray(width, height)
	for y := 0; y < height; y++ {
		src := base.Row(wrap(y-offset, height) % base.Height)
		row := out.Row(y)
		for x := range row {
			row[x] = src[wrap(x-offset, width)%base.Width]
		}
	}
	return out, nil
}

// wrap returns v mod n in [0, n).
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// TileChannels builds one threshold raster per ink using DefaultOffsets.
func TileChannels(base *ir.Gray, width, height int) ([ink.Count]*ir.Gray, error) {
	var out [ink.Count]*ir.Gray
	for _, ch := range ink.Order {
		g, err := Tile(base, width, height, DefaultOffsets[ch])
		if err != nil {
			return out, err
		}
		out[ch] = g
	}
	return out, nil
}
