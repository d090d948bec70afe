package prnfile

import "github.com/davesmith10/NocaiPRN/internal/ir"

const (
	pixelsPerByte = 4 // 2 bits per pixel
	rowAlign      = 4 // packed rows are padded to this many bytes
)

// GroupBytes returns ceil(width/4): the bytes needed for the pixel groups of
// one row before byte alignment.
func GroupBytes(width int) int {
	return (width + pixelsPerByte - 1) / pixelsPerByte
}

// BytesPerLine returns the padded length of one packed row of width pixels.
func BytesPerLine(width int) int {
	return align4(GroupBytes(width))
}

func align4(n int) int {
	return (n + rowAlign - 1) &^ (rowAlign - 1)
}

// PackGroups packs levels four to a byte, first pixel in the two most
// significant bits. A trailing partial group leaves its low bits zero.
func PackGroups(levels []ir.DotLevel) []byte {
	out := make([]byte, GroupBytes(len(levels)))
	packGroups(out, levels)
	return out
}

func packGroups(dst []byte, levels []ir.DotLevel) {
	for i, v := range levels {
		shift := uint(3-i%pixelsPerByte) * 2
		dst[i/pixelsPerByte] |= byte(v&0x03) << shift
	}
}

// PadRow appends zero bytes to packed until its length is a multiple of 4.
func PadRow(packed []byte) []byte {
	for len(packed)%rowAlign != 0 {
		packed = append(packed, 0)
	}
	return packed
}

// PackRow packs one row of levels into its padded on-disk form.
func PackRow(levels []ir.DotLevel) []byte {
	return PadRow(PackGroups(levels))
}

// PackRowInto writes the packed form of levels into dst, which must be at
// least BytesPerLine(len(levels)) long, and returns that prefix of dst.
func PackRowInto(dst []byte, levels []ir.DotLevel) []byte {
	dst = dst[:BytesPerLine(len(levels))]
	clear(dst)
	packGroups(dst, levels)
	return dst
}

// UnpackRow is the inverse of PackRow: it decodes width levels from a packed
// row.
func UnpackRow(dst []ir.DotLevel, packed []byte) {
	for i := range dst {
		shift := uint(3-i%pixelsPerByte) * 2
		dst[i] = ir.DotLevel(packed[i/pixelsPerByte]>>shift) & 0x03
	}
}
