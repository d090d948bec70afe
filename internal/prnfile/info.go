package prnfile

import (
	"fmt"
	"io"
	"os"

	"github.com/davesmith10/NocaiPRN/internal/ink"
	"github.com/davesmith10/NocaiPRN/internal/ir"
)

// Info describes an existing PRN file.
type Info struct {
	Header
	Size     int64 // actual size on disk
	Expected int64 // size implied by the header
}

// SizeOK reports whether the file size matches the header exactly.
func (i *Info) SizeOK() bool {
	return i.Size == i.Expected
}

// ReadHeader reads and validates the 48-byte header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("reading PRN header: %w", err)
	}
	var h Header
	if err := h.UnmarshalBinary(buf[:]); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Stat reads the header of the PRN file at path and compares the file size
// against it. A size mismatch is reported through Info.SizeOK, not as an
// error.
func Stat(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	h, err := ReadHeader(f)
	if err != nil {
		return nil, err
	}
	return &Info{Header: h, Size: fi.Size(), Expected: h.FileSize()}, nil
}

// Read decodes a complete PRN stream back into dot rasters. Only the first
// pass is returned; later passes must still be present.
func Read(r io.Reader) (Header, Channels, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, Channels{}, err
	}
	if int(h.Colors) != ink.Count {
		return Header{}, Channels{}, fmt.Errorf("PRN has %d colours, expected %d", h.Colors, ink.Count)
	}
	width, height := int(h.Width), int(h.Height)
	if int(h.BytesPerLine) != BytesPerLine(width) {
		return Header{}, Channels{}, fmt.Errorf("PRN bytesPerLine %d does not match width %d", h.BytesPerLine, width)
	}

	var channels Channels
	for _, ch := range ink.Order {
		channels[ch] = ir.NewDots(width, height)
	}
	line := make([]byte, h.BytesPerLine)
	for pass := 0; pass < int(h.Pass); pass++ {
		for y := 0; y < height; y++ {
			for _, ch := range ink.Order {
				if _, err := io.ReadFull(r, line); err != nil {
					return Header{}, Channels{}, fmt.Errorf("%w: pass %d row %d (%s): %v", ErrSizeMismatch, pass, y, ch, err)
				}
				if pass == 0 {
					UnpackRow(channels[ch].Row(y), line)
				}
			}
		}
	}
	return h, channels, nil
}
