package bmpfilter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Converter turns an image of some other format into a 24-bit bitmap.
type Converter interface {
	Convert(data []byte, sourceExt string) ([]byte, error)
}

type ConverterFunc func(data []byte, sourceExt string) ([]byte, error)

func (f ConverterFunc) Convert(data []byte, sourceExt string) ([]byte, error) {
	return f(data, sourceExt)
}

// ImageConverter converts anything the registered image decoders understand:
// png, jpeg, gif, tiff, webp and bitmap variants other than 24-bit.
// Transparent pixels are composed over white.
type ImageConverter struct{}

func (ImageConverter) Convert(data []byte, sourceExt string) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %q input: %w", ErrUnsupportedFormat, sourceExt, err)
	}

	// opaque RGBA is written by bmp.Encode as 24 bits per pixel
	bounds := src.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, &image.Uniform{color.White}, image.Point{}, draw.Src)
	draw.Draw(rgba, bounds, src, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("%w: encode %s as bitmap: %w", ErrUnsupportedFormat, format, err)
	}
	Logger().Debug("converted image to bitmap",
		"format", format,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
	)
	return buf.Bytes(), nil
}
