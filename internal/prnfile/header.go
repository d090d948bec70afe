package prnfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// HeaderSize is the fixed on-disk size of Header.
const HeaderSize = 48

var (
	ErrInvalidResolution = errors.New("resolution must be a positive integer")
	ErrBadSignature      = errors.New("not a PRN file (bad signature)")
	ErrSizeMismatch      = errors.New("PRN file size does not match header")
)

// Engine holds the header fields that are fixed for one print-engine
// generation.
type Engine struct {
	Signature  uint32
	PaperWidth uint32
	Colors     uint32
	Bits       uint32 // ink dot-size class indicator, not bits per pixel
	Pass       uint32
	VSDMode    uint32
	Reserved   uint32
}

// Nocai is the only engine generation this package writes.
var Nocai = Engine{
	Signature:  0x00005555,
	PaperWidth: 0,
	Colors:     4,
	Bits:       1,
	Pass:       1,
	VSDMode:    0,
	Reserved:   0,
}

// Resolution is the print resolution in dots per inch.
type Resolution struct {
	XDPI int
	YDPI int
}

// Validate returns ErrInvalidResolution unless both axes are positive and
// fit the header field.
func (r Resolution) Validate() error {
	if r.XDPI <= 0 || int64(r.XDPI) > math.MaxUint32 {
		return fmt.Errorf("%w: xdpi=%d", ErrInvalidResolution, r.XDPI)
	}
	if r.YDPI <= 0 || int64(r.YDPI) > math.MaxUint32 {
		return fmt.Errorf("%w: ydpi=%d", ErrInvalidResolution, r.YDPI)
	}
	return nil
}

// Header is the 48-byte record at the start of every PRN file. Field order
// is the on-disk order; every field is a little-endian uint32.
type Header struct {
	Signature    uint32
	XDPI         uint32
	YDPI         uint32
	BytesPerLine uint32
	Height       uint32
	Width        uint32
	PaperWidth   uint32
	Colors       uint32
	Bits         uint32
	Pass         uint32
	VSDMode      uint32
	Reserved     uint32
}

// NewHeader fills in a header for a width x height job on engine e.
func (e Engine) NewHeader(width, height int, res Resolution) Header {
	return Header{
		Signature:    e.Signature,
		XDPI:         uint32(res.XDPI),
		YDPI:         uint32(res.YDPI),
		BytesPerLine: uint32(BytesPerLine(width)),
		Height:       uint32(height),
		Width:        uint32(width),
		PaperWidth:   e.PaperWidth,
		Colors:       e.Colors,
		Bits:         e.Bits,
		Pass:         e.Pass,
		VSDMode:      e.VSDMode,
		Reserved:     e.Reserved,
	}
}

// BodySize is the number of bytes following the header.
func (h Header) BodySize() int64 {
	return int64(h.Pass) * int64(h.Height) * int64(h.Colors) * int64(h.BytesPerLine)
}

// FileSize is the exact size of a file carrying this header.
func (h Header) FileSize() int64 {
	return HeaderSize + h.BodySize()
}

func (h Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize)
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("PRN header too short (%d bytes, need %d)", len(data), HeaderSize)
	}
	if _, err := binary.Decode(data[:HeaderSize], binary.LittleEndian, h); err != nil {
		return err
	}
	if h.Signature != Nocai.Signature {
		return fmt.Errorf("%w: 0x%08x (expected 0x%08x)", ErrBadSignature, h.Signature, Nocai.Signature)
	}
	return nil
}
