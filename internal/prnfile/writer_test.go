package prnfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/davesmith10/NocaiPRN/internal/ink"
	"github.com/davesmith10/NocaiPRN/internal/ir"
	"github.com/google/go-cmp/cmp"
)

func filled(width, height int, v ir.DotLevel) *ir.Dots {
	d := ir.NewDots(width, height)
	for i := range d.Pix {
		d.Pix[i] = v
	}
	return d
}

// testChannels gives each ink a distinct constant level so that the
// interleave order can be read back from the body.
func testChannels(width, height int) Channels {
	var c Channels
	c[ink.Yellow] = filled(width, height, ir.DotSmall)
	c[ink.Magenta] = filled(width, height, ir.DotMedium)
	c[ink.Cyan] = filled(width, height, ir.DotLarge)
	c[ink.Black] = filled(width, height, ir.DotNone)
	return c
}

func TestWriteHeaderFields(t *testing.T) {
	var buf bytes.Buffer
	hdr, err := Write(&buf, testChannels(17, 10), Resolution{XDPI: 720, YDPI: 360})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if hdr.BytesPerLine != 8 {
		t.Errorf("BytesPerLine = %d, want 8", hdr.BytesPerLine)
	}

	data := buf.Bytes()
	if len(data) != 48+1*10*4*8 {
		t.Fatalf("file size = %d, want %d", len(data), 48+10*4*8)
	}
	if int64(len(data)) != hdr.FileSize() {
		t.Errorf("FileSize() = %d, actual %d", hdr.FileSize(), len(data))
	}

	fields := make([]uint32, 12)
	for i := range fields {
		fields[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	want := []uint32{0x5555, 720, 360, 8, 10, 17, 0, 4, 1, 1, 0, 0}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("header fields (-want +got):\n%s", diff)
	}
	if !bytes.Equal(data[:4], []byte{0x55, 0x55, 0x00, 0x00}) {
		t.Errorf("signature bytes = % x", data[:4])
	}
}

func TestWriteBodyInterleave(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, testChannels(17, 3), Resolution{XDPI: 600, YDPI: 600}); err != nil {
		t.Fatal(err)
	}
	body := buf.Bytes()[HeaderSize:]

	// 17 pixels: four full bytes, one byte holding the 17th pixel, then
	// three alignment bytes.
	rowFor := func(full, last byte) []byte {
		return []byte{full, full, full, full, last, 0, 0, 0}
	}
	group := bytes.Join([][]byte{
		rowFor(0x55, 0x40), // Y
		rowFor(0xAA, 0x80), // M
		rowFor(0xFF, 0xC0), // C
		rowFor(0x00, 0x00), // K
	}, nil)
	want := bytes.Repeat(group, 3)
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("body (-want +got):\n%s", diff)
	}
}

func TestWriteSizeInvariant(t *testing.T) {
	for _, size := range []struct{ w, h int }{{0, 0}, {1, 1}, {4, 4}, {7, 3}, {100, 13}} {
		var buf bytes.Buffer
		hdr, err := Write(&buf, testChannels(size.w, size.h), Resolution{XDPI: 360, YDPI: 360})
		if err != nil {
			t.Fatal(err)
		}
		want := 48 + int(hdr.Pass)*size.h*4*BytesPerLine(size.w)
		if buf.Len() != want {
			t.Errorf("%dx%d: size %d, want %d", size.w, size.h, buf.Len(), want)
		}
	}
}

func TestWriteShapeMismatchWritesNothing(t *testing.T) {
	c := testChannels(8, 8)
	c[ink.Cyan] = filled(8, 9, ir.DotLarge)

	var buf bytes.Buffer
	_, err := Write(&buf, c, Resolution{XDPI: 720, YDPI: 720})
	if !errors.Is(err, ir.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes before failing", buf.Len())
	}
}

func TestWriteMissingChannel(t *testing.T) {
	c := testChannels(8, 8)
	c[ink.Black] = nil
	if _, err := Write(&bytes.Buffer{}, c, Resolution{XDPI: 720, YDPI: 720}); err == nil {
		t.Fatal("expected error for missing channel")
	}
}

func TestWriteInvalidResolution(t *testing.T) {
	for _, res := range []Resolution{{0, 720}, {720, 0}, {-1, 360}} {
		var buf bytes.Buffer
		_, err := Write(&buf, testChannels(4, 4), res)
		if !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("%+v: expected ErrInvalidResolution, got %v", res, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%+v: wrote %d bytes", res, buf.Len())
		}
	}
}

type failingWriter struct {
	limit int
	n     int
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.limit {
		k := w.limit - w.n
		w.n = w.limit
		return k, errDiskFull
	}
	w.n += len(p)
	return len(p), nil
}

func TestWritePropagatesIOError(t *testing.T) {
	// Large enough that the bufio buffer flushes mid-body.
	_, err := Write(&failingWriter{limit: 5000}, testChannels(512, 64), Resolution{XDPI: 720, YDPI: 720})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected disk full error, got %v", err)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.prn")
	channels := testChannels(17, 10)
	channels[ink.Black].Pix[3] = ir.DotMedium

	hdr, err := WriteFile(path, channels, Resolution{XDPI: 720, YDPI: 360})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.SizeOK() {
		t.Errorf("size %d, header expects %d", info.Size, info.Expected)
	}
	if info.Size != 368 {
		t.Errorf("size = %d, want 368", info.Size)
	}
	if diff := cmp.Diff(hdr, info.Header); diff != "" {
		t.Errorf("header (-written +read):\n%s", diff)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	_, got, err := Read(f)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(channels, got); diff != "" {
		t.Errorf("channels (-written +read):\n%s", diff)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}

func TestWriteFileFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.prn")
	c := testChannels(8, 8)
	c[ink.Magenta] = filled(9, 8, ir.DotSmall)

	if _, err := WriteFile(path, c, Resolution{XDPI: 720, YDPI: 720}); !errors.Is(err, ir.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestReadRejectsTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, testChannels(16, 4), Resolution{XDPI: 720, YDPI: 720}); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()[:buf.Len()-3]
	if _, _, err := Read(bytes.NewReader(data)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestWriteRejectsNegativeSize(t *testing.T) {
	var c Channels
	for _, ch := range ink.Order {
		c[ch] = &ir.Dots{Width: -2, Height: -2, Pix: make([]ir.DotLevel, 4)}
	}
	var buf bytes.Buffer
	if _, err := Write(&buf, c, Resolution{XDPI: 720, YDPI: 720}); err == nil {
		t.Fatal("expected error for negative dimensions")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes before failing", buf.Len())
	}
}

func TestWriteRejectsShortPixelBuffer(t *testing.T) {
	c := testChannels(8, 4)
	c[ink.Yellow].Pix = c[ink.Yellow].Pix[:20]
	if _, err := Write(&bytes.Buffer{}, c, Resolution{XDPI: 720, YDPI: 720}); err == nil {
		t.Fatal("expected error for pixel buffer shorter than width*height")
	}
}

func TestWriteFileRenameFailureRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory at the output path makes the final rename fail
	// after the temporary file has been written.
	path := filepath.Join(dir, "job.prn")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteFile(path, testChannels(8, 8), Resolution{XDPI: 720, YDPI: 720}); err == nil {
		t.Fatal("expected rename to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff([]string{"job.prn"}, names); diff != "" {
		t.Errorf("directory contents (-want +got):\n%s", diff)
	}
}

func TestWriteFileKeepsExistingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.prn")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0640); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteFile(path, testChannels(8, 8), Resolution{XDPI: 720, YDPI: 720}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0640 {
		t.Errorf("mode = %v, want -rw-r-----", fi.Mode().Perm())
	}
	if fi.Size() == 3 {
		t.Error("old contents were not replaced")
	}
}

func TestWriteFileNewFileNotOwnerOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.prn")
	if _, err := WriteFile(path, testChannels(4, 4), Resolution{XDPI: 720, YDPI: 720}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	// 0666 less the umask: never executable, always owner read/write.
	if perm := fi.Mode().Perm(); perm&0111 != 0 || perm&0600 != 0600 {
		t.Errorf("mode = %v", perm)
	}
}
