package bmpfilter

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func makeTestImage(w, h int) *Image {
	im := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.Set(x, y, Color{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
			})
		}
	}
	return im
}

func uniformImage(w, h int, c Color) *Image {
	im := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.Set(x, y, c)
		}
	}
	return im
}

// rawBitmap lays out a 24-bit bitmap by hand, independently of Encode.
func rawBitmap(t testing.TB, im *Image) []byte {
	t.Helper()

	padding := (4 - (im.Width()*3)%4) % 4
	imageSize := (im.Width()*3 + padding) * im.Height()
	var buf bytes.Buffer
	for _, field := range []any{
		uint16(0x4D42), uint32(54 + imageSize), uint16(0), uint16(0), uint32(54),
		uint32(40), int32(im.Width()), int32(im.Height()), uint16(1), uint16(24),
		uint32(0), uint32(imageSize), int32(2835), int32(2835), uint32(0), uint32(0),
	} {
		if err := binary.Write(&buf, binary.LittleEndian, field); err != nil {
			t.Fatalf("write header field: %v", err)
		}
	}
	for y := 0; y < im.Height(); y++ {
		for x := 0; x < im.Width(); x++ {
			p := im.At(x, y)
			buf.Write([]byte{p.B, p.G, p.R})
		}
		buf.Write(make([]byte, padding))
	}
	return buf.Bytes()
}

func assertSameImage(t *testing.T, got, want *Image) {
	t.Helper()
	if got.Width() != want.Width() || got.Height() != want.Height() {
		t.Fatalf("size = %dx%d, want %dx%d", got.Width(), got.Height(), want.Width(), want.Height())
	}
	for y := 0; y < want.Height(); y++ {
		for x := 0; x < want.Width(); x++ {
			if g, w := got.At(x, y), want.At(x, y); g != w {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func withWorkers(t *testing.T, n int) {
	t.Helper()
	SetMaxWorkers(n)
	t.Cleanup(func() { SetMaxWorkers(0) })
}
