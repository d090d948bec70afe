package prnfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/davesmith10/NocaiPRN/internal/ink"
	"github.com/davesmith10/NocaiPRN/internal/ir"
)

// Channels holds one dot raster per ink, indexed by ink.Channel.
type Channels [ink.Count]*ir.Dots

// Shape validates that all channels are present and share one shape.
func (c Channels) Shape() (ir.Shape, error) {
	for _, ch := range ink.Order {
		if c[ch] == nil {
			return ir.Shape{}, fmt.Errorf("missing %s channel", ch.Name())
		}
	}
	for _, ch := range ink.Order {
		d := c[ch]
		if d.Width < 0 || d.Height < 0 {
			return ir.Shape{}, fmt.Errorf("%s channel has negative size %s", ch.Name(), d.Shape())
		}
		if len(d.Pix) != d.Width*d.Height {
			return ir.Shape{}, fmt.Errorf("%s channel holds %d pixels, %s needs %d",
				ch.Name(), len(d.Pix), d.Shape(), d.Width*d.Height)
		}
	}
	want := c[ink.Order[0]].Shape()
	for _, ch := range ink.Order[1:] {
		if err := ir.CheckShape(ch.Name()+" channel", want, c[ch].Shape()); err != nil {
			return ir.Shape{}, err
		}
	}
	return want, nil
}

// Write encodes channels as a PRN stream on the Nocai engine.
func Write(w io.Writer, channels Channels, res Resolution) (Header, error) {
	return Nocai.Write(w, channels, res)
}

// Write encodes channels as a PRN stream: the header, then for each pass
// every row as Y, M, C, K packed rows. Shapes and resolution are checked
// before anything is written. Rows are packed as they are written; the
// file is never assembled in memory.
func (e Engine) Write(w io.Writer, channels Channels, res Resolution) (Header, error) {
	if int(e.Colors) != ink.Count {
		return Header{}, fmt.Errorf("engine expects %d colours, writer supports %d", e.Colors, ink.Count)
	}
	shape, err := channels.Shape()
	if err != nil {
		return Header{}, err
	}
	if err := res.Validate(); err != nil {
		return Header{}, err
	}

	hdr := e.NewHeader(shape.Width, shape.Height, res)
	raw, err := hdr.MarshalBinary()
	if err != nil {
		return Header{}, fmt.Errorf("encoding header: %w", err)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(raw); err != nil {
		return Header{}, fmt.Errorf("writing header: %w", err)
	}

	line := make([]byte, hdr.BytesPerLine)
	for pass := 0; pass < int(hdr.Pass); pass++ {
		for y := 0; y < shape.Height; y++ {
			for _, ch := range ink.Order {
				packed := PackRowInto(line, channels[ch].Row(y))
				if len(packed) != int(hdr.BytesPerLine) {
					return Header{}, fmt.Errorf("%s row %d: packed %d bytes, header says %d",
						ch, y, len(packed), hdr.BytesPerLine)
				}
				if _, err := bw.Write(packed); err != nil {
					return Header{}, fmt.Errorf("writing row %d (%s): %w", y, ch, err)
				}
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return Header{}, fmt.Errorf("flushing PRN data: %w", err)
	}
	return hdr, nil
}

// WriteFile writes channels to path on the Nocai engine.
func WriteFile(path string, channels Channels, res Resolution) (Header, error) {
	return Nocai.WriteFile(path, channels, res)
}

// WriteFile writes a PRN file through a temporary file in the destination
// directory. The temporary file is synced and its size checked against the
// header before it is renamed over path. A file being replaced keeps its
// permissions; a new file gets 0666 less the umask. On any failure path is
// left untouched and the temporary file is removed.
func (e Engine) WriteFile(path string, channels Channels, res Resolution) (hdr Header, err error) {
	// Reject bad input before creating anything on disk.
	if _, err := channels.Shape(); err != nil {
		return Header{}, err
	}
	if err := res.Validate(); err != nil {
		return Header{}, err
	}

	tmp, err := createTemp(path)
	if err != nil {
		return Header{}, fmt.Errorf("creating temporary output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	hdr, err = e.Write(tmp, channels, res)
	if err != nil {
		return Header{}, err
	}
	if err = tmp.Sync(); err != nil {
		return Header{}, fmt.Errorf("syncing output: %w", err)
	}
	fi, err := tmp.Stat()
	if err != nil {
		return Header{}, fmt.Errorf("checking output size: %w", err)
	}
	if fi.Size() != hdr.FileSize() {
		err = fmt.Errorf("%w: wrote %d bytes, expected %d", ErrSizeMismatch, fi.Size(), hdr.FileSize())
		return Header{}, err
	}
	if err = tmp.Close(); err != nil {
		return Header{}, fmt.Errorf("closing output: %w", err)
	}
	if fi, statErr := os.Stat(path); statErr == nil && fi.Mode().IsRegular() {
		if err = os.Chmod(tmp.Name(), fi.Mode().Perm()); err != nil {
			return Header{}, fmt.Errorf("setting output mode: %w", err)
		}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return Header{}, fmt.Errorf("renaming output: %w", err)
	}
	return hdr, nil
}

// createTemp creates an empty file next to path. It is opened with mode
// 0666 so that the process umask applies, unlike os.CreateTemp's 0600.
func createTemp(path string) (*os.File, error) {
	dir, base := filepath.Dir(path), filepath.Base(path)
	for i := 0; i < 100; i++ {
		name := filepath.Join(dir, "."+base+"."+strconv.FormatUint(uint64(rand.Uint32()), 10)+".tmp")
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("no unused temporary name for %s", path)
}
