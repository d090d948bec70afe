package ir

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when rasters that must share (H, W) do not.
var ErrShapeMismatch = errors.New("raster shape mismatch")

// Gray is a single-channel 8-bit raster, used for both intensity and
// threshold inputs. Pixels are stored row-major, one byte per pixel.
type Gray struct {
	Width  int
	Height int
	Pix    []byte // len = Width * Height
}

// NewGray allocates a zeroed raster.
func NewGray(width, height int) *Gray {
	return &Gray{Width: width, Height: height, Pix: make([]byte, width*height)}
}

// Row returns the pixels of row y.
func (g *Gray) Row(y int) []byte {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

// At returns the sample at (x, y).
func (g *Gray) At(x, y int) byte {
	return g.Pix[y*g.Width+x]
}

// Shape returns (height, width).
func (g *Gray) Shape() Shape {
	return Shape{Height: g.Height, Width: g.Width}
}

// DotLevel is one of the four ink-drop sizes the print head can fire.
type DotLevel uint8

const (
	DotNone DotLevel = iota
	DotSmall
	DotMedium
	DotLarge
)

// Dots is a dot-class raster. Every value is a DotLevel in 0..3.
type Dots struct {
	Width  int
	Height int
	Pix    []DotLevel // len = Width * Height
}

// NewDots allocates a raster with every pixel at DotNone.
func NewDots(width, height int) *Dots {
	return &Dots{Width: width, Height: height, Pix: make([]DotLevel, width*height)}
}

// Row returns the levels of row y.
func (d *Dots) Row(y int) []DotLevel {
	return d.Pix[y*d.Width : (y+1)*d.Width]
}

// At returns the level at (x, y).
func (d *Dots) At(x, y int) DotLevel {
	return d.Pix[y*d.Width+x]
}

// Clone returns a deep copy.
func (d *Dots) Clone() *Dots {
	c := &Dots{Width: d.Width, Height: d.Height, Pix: make([]DotLevel, len(d.Pix))}
	copy(c.Pix, d.Pix)
	return c
}

// Shape returns (height, width).
func (d *Dots) Shape() Shape {
	return Shape{Height: d.Height, Width: d.Width}
}

// Shape is the (H, W) geometry of a raster.
type Shape struct {
	Height int
	Width  int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ShapeError reports two rasters whose shapes were required to match.
type ShapeError struct {
	What string // which pair was compared, e.g. "intensity/threshold"
	Want Shape
	Got  Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", ErrShapeMismatch, e.What, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// CheckShape returns a *ShapeError when got differs from want.
func CheckShape(what string, want, got Shape) error {
	if want != got {
		return &ShapeError{What: what, Want: want, Got: got}
	}
	return nil
}
