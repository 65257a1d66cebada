package bmpfilter

import (
	"fmt"
	"math"
)

// asciiAspect squeezes rows because glyph cells are taller than wide.
const asciiAspect = 0.4

type Color struct {
	R, G, B uint8
}

// Image is a row-major RGB pixel grid. Row 0 is the first scanline stored in
// the bitmap, which for ordinary files is the bottom one.
type Image struct {
	width  int
	height int
	pix    []Color
}

func NewImage(width, height int) *Image {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("bmpfilter: invalid image size %dx%d", width, height))
	}
	return &Image{
		width:  width,
		height: height,
		pix:    make([]Color, width*height),
	}
}

func (im *Image) Width() int  { return im.width }
func (im *Image) Height() int { return im.height }

func (im *Image) index(x, y int) int {
	if x < 0 || x >= im.width || y < 0 || y >= im.height {
		panic(fmt.Sprintf("bmpfilter: pixel (%d, %d) out of %dx%d image", x, y, im.width, im.height))
	}
	return y*im.width + x
}

func (im *Image) At(x, y int) Color {
	return im.pix[im.index(x, y)]
}

func (im *Image) Set(x, y int, c Color) {
	im.pix[im.index(x, y)] = c
}

// Row returns row y backed by the image storage.
func (im *Image) Row(y int) []Color {
	i := im.index(0, y)
	return im.pix[i : i+im.width : i+im.width]
}

// Clone returns a deep copy sharing no storage with im.
func (im *Image) Clone() *Image {
	res := &Image{
		width:  im.width,
		height: im.height,
		pix:    make([]Color, len(im.pix)),
	}
	copy(res.pix, im.pix)
	return res
}

func (im *Image) Equal(other *Image) bool {
	if im.width != other.width || im.height != other.height {
		return false
	}
	for i := range im.pix {
		if im.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

func checkSameSize(a, b *Image) error {
	if a.width != b.width || a.height != b.height {
		return fmt.Errorf("%w: image sizes differ: %dx%d and %dx%d", ErrInvalidParameter, a.width, a.height, b.width, b.height)
	}
	return nil
}

// Subtract returns a-b per channel. Channels wrap around instead of clamping:
// the result is a high-pass signal that is only meaningful once added back.
func Subtract(a, b *Image) (*Image, error) {
	if err := checkSameSize(a, b); err != nil {
		return nil, err
	}
	res := NewImage(a.width, a.height)
	for i, p := range a.pix {
		q := b.pix[i]
		res.pix[i] = Color{p.R - q.R, p.G - q.G, p.B - q.B}
	}
	return res, nil
}

// Add returns a+b per channel clamped to 255.
func Add(a, b *Image) (*Image, error) {
	if err := checkSameSize(a, b); err != nil {
		return nil, err
	}
	res := NewImage(a.width, a.height)
	for i, p := range a.pix {
		q := b.pix[i]
		res.pix[i] = Color{
			clampByte(int(p.R) + int(q.R)),
			clampByte(int(p.G) + int(q.G)),
			clampByte(int(p.B) + int(q.B)),
		}
	}
	return res, nil
}

// Multiply scales every channel in place, rounding and clamping to [0, 255].
func (im *Image) Multiply(scalar float64) {
	scale := func(v uint8) uint8 {
		return clampByte(int(math.Round(float64(v) * scalar)))
	}
	for i, p := range im.pix {
		im.pix[i] = Color{scale(p.R), scale(p.G), scale(p.B)}
	}
}

// Downsample shrinks the image to newWidth columns by box averaging. The new
// height keeps the aspect ratio scaled by asciiAspect. im is never modified.
func (im *Image) Downsample(newWidth int) (*Image, error) {
	if newWidth <= 0 {
		return nil, fmt.Errorf("%w: width must be positive, got %d", ErrInvalidParameter, newWidth)
	}
	newHeight := int(math.Round(float64(im.height) * (float64(newWidth) / float64(im.width)) * asciiAspect))
	if newWidth > im.width || newHeight > im.height {
		return nil, fmt.Errorf("%w: %dx%d is larger than source %dx%d", ErrInvalidParameter, newWidth, newHeight, im.width, im.height)
	}
	if newHeight <= 0 {
		return nil, fmt.Errorf("%w: width %d gives empty height for %dx%d image", ErrInvalidParameter, newWidth, im.width, im.height)
	}
	kernelX, kernelY := im.width/newWidth, im.height/newHeight
	if kernelX <= 0 || kernelY <= 0 {
		return nil, fmt.Errorf("%w: kernel size %dx%d is not positive", ErrInvalidParameter, kernelX, kernelY)
	}

	res := NewImage(newWidth, newHeight)
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			sumR, sumG, sumB, count := 0, 0, 0, 0
			for ky := 0; ky < kernelY; ky++ {
				for kx := 0; kx < kernelX; kx++ {
					sx, sy := x*kernelX+kx, y*kernelY+ky
					if sx >= im.width || sy >= im.height {
						continue
					}
					p := im.pix[sy*im.width+sx]
					sumR += int(p.R)
					sumG += int(p.G)
					sumB += int(p.B)
					count++
				}
			}
			if count == 0 {
				count = 1
			}
			res.pix[y*newWidth+x] = Color{uint8(sumR / count), uint8(sumG / count), uint8(sumB / count)}
		}
	}
	return res, nil
}

func clampByte(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}
