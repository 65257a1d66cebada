package bmpfilter

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		w, h int
	}{
		{"aligned", 4, 3},
		{"padding 3", 3, 2},
		{"padding 2", 2, 5},
		{"padding 1", 1, 1},
		{"larger", 37, 23},
	} {
		t.Run(tc.name, func(t *testing.T) {
			src := makeTestImage(tc.w, tc.h)
			raw := rawBitmap(t, src)

			bm, err := Decode(raw)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			assertSameImage(t, bm.Image, src)

			encoded, err := Encode(bm)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(encoded, raw) {
				t.Fatalf("Encode(Decode(raw)) differs from raw")
			}

			again, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode again: %v", err)
			}
			assertSameImage(t, again.Image, src)
		})
	}
}

func TestEncodePadding(t *testing.T) {
	bm := NewBitmap(uniformImage(3, 2, Color{1, 2, 3}))
	data, err := Encode(bm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// 3*3 = 9 bytes per row, padded by (4-9%4)%4 = 3 bytes
	if want := 54 + 2*(9+3); len(data) != want {
		t.Fatalf("len = %d, want %d", len(data), want)
	}
	for _, i := range []int{63, 64, 65, 75, 76, 77} {
		if data[i] != 0 {
			t.Errorf("padding byte at %d = %d, want 0", i, data[i])
		}
	}
	if got := data[54:57]; !bytes.Equal(got, []byte{3, 2, 1}) {
		t.Errorf("first pixel bytes = %v, want BGR [3 2 1]", got)
	}
}

func TestEncodeResizedImageUpdatesHeaders(t *testing.T) {
	bm, err := Decode(rawBitmap(t, makeTestImage(20, 20)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	small, err := bm.Image.Downsample(10)
	if err != nil {
		t.Fatalf("Downsample: %v", err)
	}
	bm.Image = small

	data, err := Encode(bm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertSameImage(t, back.Image, small)
	if int(back.File.Size) != len(data) {
		t.Errorf("bfSize = %d, want %d", back.File.Size, len(data))
	}
	if want := uint32(len(data) - 54); back.Info.SizeImage != want {
		t.Errorf("biSizeImage = %d, want %d", back.Info.SizeImage, want)
	}
}

func TestDecodeKeepsRowOrder(t *testing.T) {
	src := NewImage(1, 2)
	src.Set(0, 0, Color{1, 1, 1})
	src.Set(0, 1, Color{2, 2, 2})
	raw := rawBitmap(t, src)
	// negative height marks a top-down file; rows must still come out in file order
	binary.LittleEndian.PutUint32(raw[22:], uint32(0xFFFFFFFE))

	bm, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertSameImage(t, bm.Image, src)

	data, err := Encode(bm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := int32(binary.LittleEndian.Uint32(data[22:])); got != -2 {
		t.Errorf("biHeight = %d, want -2", got)
	}
}

func TestDecodeHonoursPixelOffset(t *testing.T) {
	src := makeTestImage(3, 3)
	raw := rawBitmap(t, src)
	shifted := append(append(append([]byte{}, raw[:54]...), 0xAA, 0xBB, 0xCC, 0xDD), raw[54:]...)
	binary.LittleEndian.PutUint32(shifted[10:], 58)

	bm, err := Decode(shifted)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertSameImage(t, bm.Image, src)

	data, err := Encode(bm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := binary.LittleEndian.Uint32(data[10:]); got != 54 {
		t.Errorf("bfOffBits = %d, want 54", got)
	}
}

func TestDecodeMissingLastPadding(t *testing.T) {
	src := makeTestImage(3, 2)
	raw := rawBitmap(t, src)
	bm, err := Decode(raw[:len(raw)-rowPadding(3)])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assertSameImage(t, bm.Image, src)
}

func TestDecodeErrors(t *testing.T) {
	valid := rawBitmap(t, makeTestImage(3, 2))
	patch := func(offset int, value []byte) []byte {
		res := append([]byte{}, valid...)
		copy(res[offset:], value)
		return res
	}

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", valid[:40]},
		{"bad magic", patch(0, []byte("PN"))},
		{"32 bits", patch(28, []byte{32, 0})},
		{"8 bits", patch(28, []byte{8, 0})},
		{"rle compression", patch(30, []byte{1, 0, 0, 0})},
		{"zero width", patch(18, []byte{0, 0, 0, 0})},
		{"negative width", patch(18, []byte{0xFF, 0xFF, 0xFF, 0xFF})},
		{"zero height", patch(22, []byte{0, 0, 0, 0})},
		{"truncated pixels", valid[:len(valid)-5]},
		{"offset past end", patch(10, []byte{0xFF, 0xFF, 0, 0})},
		// width*3 times height wraps int64 if multiplied naively
		{"huge dimensions", patch(18, []byte{0xFF, 0xFF, 0xFF, 0x7F, 0x00, 0x00, 0x00, 0x80})[:54]},
		{"huge height", patch(22, []byte{0xFF, 0xFF, 0xFF, 0x7F})},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.data); !errors.Is(err, ErrDecode) {
				t.Fatalf("error = %v, want ErrDecode", err)
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	raw := rawBitmap(b, makeTestImage(640, 480))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(raw); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	bm := NewBitmap(makeTestImage(640, 480))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(bm); err != nil {
			b.Fatal(err)
		}
	}
}
