package bmpfilter

import (
	"bytes"
	"io"
)

// ASCII_RAMP goes from the lightest glyph to the densest one.
const ASCII_RAMP = " `.-':_,^=;><+!rc*/z?sLTv)J7(|Fi{C}fI31tlu[neoZ5Yxjya]2ESwqkP6h9d4VpOGbUAKXHm8RD#$Bg0MNWQ%&@"

// AsciiArt holds one glyph per pixel. Glyphs rows follow image row order, so
// the first row is the bottom of the picture.
type AsciiArt struct {
	Width  int
	Height int
	Glyphs [][]byte
}

// WriteTo writes the art top to bottom, one newline-terminated line per row.
func (a *AsciiArt) WriteTo(w io.Writer) (int64, error) {
	var total int64
	line := make([]byte, a.Width+1)
	for y := a.Height - 1; y >= 0; y-- {
		copy(line, a.Glyphs[y])
		line[a.Width] = '\n'
		n, err := w.Write(line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (a *AsciiArt) Bytes() []byte {
	var b bytes.Buffer
	b.Grow((a.Width + 1) * a.Height)
	a.WriteTo(&b)
	return b.Bytes()
}

func (a *AsciiArt) String() string {
	return string(a.Bytes())
}

// stretchContrast maps the gray levels of a grayscale image onto the whole
// [0, 255] range.
func stretchContrast(im *Image) {
	lo, hi := 255, 0
	for _, p := range im.pix {
		lo = min(lo, int(p.R))
		hi = max(hi, int(p.R))
	}
	for i, p := range im.pix {
		v := uint8(255 * (int(p.R) - lo) / (hi - lo + 1))
		im.pix[i] = Color{v, v, v}
	}
}

func glyph(intensity uint8) byte {
	return ASCII_RAMP[int(intensity)*(len(ASCII_RAMP)-1)/255]
}

// RenderASCII downsamples im to width columns and maps brightness to glyphs.
// im itself is not changed.
func RenderASCII(im *Image, width int) (*AsciiArt, error) {
	small, err := im.Downsample(width)
	if err != nil {
		return nil, err
	}
	ApplyGrayscale(small)
	stretchContrast(small)

	art := &AsciiArt{
		Width:  small.width,
		Height: small.height,
		Glyphs: make([][]byte, small.height),
	}
	for y := range small.height {
		glyphs := make([]byte, small.width)
		for x, p := range small.Row(y) {
			glyphs[x] = glyph(p.R)
		}
		art.Glyphs[y] = glyphs
	}
	return art, nil
}
