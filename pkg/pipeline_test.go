package bmpfilter

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngImage(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	im := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, im); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcessBitmap(t *testing.T) {
	src := makeTestImage(6, 4)
	out, err := Process(rawBitmap(t, src), ExtBitmap, Flip{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Ext != ExtBitmap {
		t.Errorf("ext = %q, want %q", out.Ext, ExtBitmap)
	}

	bm, err := Decode(out.Data)
	if err != nil {
		t.Fatal(err)
	}
	want := src.Clone()
	ApplyFlip(want)
	assertSameImage(t, bm.Image, want)
}

func TestProcessConvertsOtherFormats(t *testing.T) {
	data := pngImage(t, 4, 3, color.NRGBA{30, 60, 90, 255})
	out, err := Process(data, ".png", Grayscale{}, ImageConverter{})
	if err != nil {
		t.Fatal(err)
	}
	bm, err := Decode(out.Data)
	if err != nil {
		t.Fatal(err)
	}
	assertSameImage(t, bm.Image, uniformImage(4, 3, Color{60, 60, 60}))
}

func TestConvertFlattensTransparency(t *testing.T) {
	data := pngImage(t, 2, 2, color.NRGBA{0, 0, 0, 0})
	converted, err := ImageConverter{}.Convert(data, ".png")
	if err != nil {
		t.Fatal(err)
	}
	bm, err := Decode(converted)
	if err != nil {
		t.Fatalf("converted data is not a 24-bit bitmap: %v", err)
	}
	assertSameImage(t, bm.Image, uniformImage(2, 2, Color{255, 255, 255}))
}

func TestProcessBitmapExtensionSkipsConversion(t *testing.T) {
	called := false
	conv := ConverterFunc(func(data []byte, ext string) ([]byte, error) {
		called = true
		return ImageConverter{}.Convert(data, ext)
	})

	data := pngImage(t, 2, 2, color.White)
	if _, err := Process(data, ExtBitmap, Grayscale{}, conv); !errors.Is(err, ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
	if called {
		t.Error("converter called for a .bmp input")
	}
}

func TestProcessConvertsOnce(t *testing.T) {
	calls := 0
	conv := ConverterFunc(func([]byte, string) ([]byte, error) {
		calls++
		return []byte("still not a bitmap"), nil
	})
	if _, err := Process([]byte("garbage"), ".jpg", Grayscale{}, conv); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
	if calls != 1 {
		t.Errorf("converter called %d times, want 1", calls)
	}
}

func TestProcessConverterFailure(t *testing.T) {
	for _, tc := range []struct {
		name string
		conv Converter
	}{
		{"image converter", ImageConverter{}},
		{"plain error", ConverterFunc(func([]byte, string) ([]byte, error) {
			return nil, errors.New("tool not found")
		})},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Process([]byte("garbage"), ".png", Grayscale{}, tc.conv); !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestProcessWithoutConverter(t *testing.T) {
	if _, err := Process([]byte("garbage"), ".png", Grayscale{}, nil); !errors.Is(err, ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
}

func TestProcessASCII(t *testing.T) {
	data := rawBitmap(t, uniformImage(10, 10, Color{1, 2, 3}))
	out, err := Process(data, ExtBitmap, ASCII{Width: 5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Ext != ExtText {
		t.Errorf("ext = %q, want %q", out.Ext, ExtText)
	}
	if want := strings.Repeat("     \n", 2); string(out.Data) != want {
		t.Errorf("data = %q, want %q", out.Data, want)
	}

	if _, err := Process(data, ExtBitmap, ASCII{Width: 11}, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}
