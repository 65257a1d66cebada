package bmpfilter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ExtBitmap = ".bmp"
	ExtText   = ".txt"
)

// Output is the encoded result of a pipeline run.
type Output struct {
	Data []byte
	// Ext is ExtBitmap for image filters and ExtText for ASCII.
	Ext string
}

// DecodeInput decodes data as a bitmap. If that fails, the input extension is
// not ".bmp" and conv is not nil, data is converted once and decoded again.
func DecodeInput(data []byte, ext string, conv Converter) (*Bitmap, error) {
	bm, err := Decode(data)
	if err == nil {
		return bm, nil
	}
	if conv == nil || strings.EqualFold(ext, ExtBitmap) {
		return nil, err
	}

	Logger().Warn("input is not a 24-bit bitmap, converting", "ext", ext, "err", err)
	converted, convErr := conv.Convert(data, ext)
	if convErr != nil {
		if errors.Is(convErr, ErrUnsupportedFormat) {
			return nil, convErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, convErr)
	}
	bm, err = Decode(converted)
	if err != nil {
		return nil, fmt.Errorf("%w: converted %q input: %w", ErrUnsupportedFormat, ext, err)
	}
	return bm, nil
}

// Run applies f to a decoded bitmap and encodes the result. bm.Image is
// modified by image filters.
func Run(bm *Bitmap, f Filter) (Output, error) {
	if err := f.Validate(bm.Image); err != nil {
		return Output{}, err
	}

	start := time.Now()
	defer func() {
		Logger().Debug("filter applied",
			"filter", f.Name(),
			"width", bm.Image.Width(),
			"height", bm.Image.Height(),
			"took", time.Since(start),
		)
	}()

	if f, ok := f.(ASCII); ok {
		art, err := RenderASCII(bm.Image, f.Width)
		if err != nil {
			return Output{}, err
		}
		return Output{Data: art.Bytes(), Ext: ExtText}, nil
	}

	if err := ApplyFilter(bm.Image, f); err != nil {
		return Output{}, err
	}
	data, err := Encode(bm)
	if err != nil {
		return Output{}, err
	}
	return Output{Data: data, Ext: ExtBitmap}, nil
}

// Process decodes data, applies f and encodes the result.
func Process(data []byte, ext string, f Filter, conv Converter) (Output, error) {
	bm, err := DecodeInput(data, ext, conv)
	if err != nil {
		return Output{}, err
	}
	Logger().Debug("decoded bitmap",
		"width", bm.Image.Width(),
		"height", bm.Image.Height(),
		"top_down", bm.Info.Height < 0,
	)
	return Run(bm, f)
}
