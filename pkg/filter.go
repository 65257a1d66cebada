package bmpfilter

import "fmt"

const (
	minStrength = 1
	maxStrength = 100
)

// Filter is one of Grayscale, Sepia, Flip, GaussianBlur, Sharpen,
// EdgeDetection, NoiseReduction or ASCII.
type Filter interface {
	// Name is the human readable name, also used in output file names.
	Name() string
	// Validate checks the filter parameters against the source image.
	Validate(im *Image) error
	filter()
}

type Grayscale struct{}

// Sepia strength is validated but does not affect the result.
type Sepia struct{ Strength int }

type Flip struct{}

// GaussianBlur applies Passes rounds of blur.
type GaussianBlur struct{ Passes int }

type Sharpen struct{ Strength int }

type EdgeDetection struct{}

type NoiseReduction struct{ Strength int }

// ASCII renders text art Width glyphs wide instead of a bitmap.
type ASCII struct{ Width int }

func (Grayscale) Name() string      { return "Grayscale" }
func (Sepia) Name() string          { return "Sepia" }
func (Flip) Name() string           { return "Flip" }
func (GaussianBlur) Name() string   { return "Gaussian Blur" }
func (Sharpen) Name() string        { return "Sharpen" }
func (EdgeDetection) Name() string  { return "Edge Detection" }
func (NoiseReduction) Name() string { return "Noise Reduction" }
func (ASCII) Name() string          { return "ASCII" }

func (Grayscale) filter()      {}
func (Sepia) filter()          {}
func (Flip) filter()           {}
func (GaussianBlur) filter()   {}
func (Sharpen) filter()        {}
func (EdgeDetection) filter()  {}
func (NoiseReduction) filter() {}
func (ASCII) filter()          {}

func validateStrength(name string, strength int) error {
	if strength < minStrength || strength > maxStrength {
		return fmt.Errorf("%w: %s strength must be in [%d, %d], got %d", ErrInvalidParameter, name, minStrength, maxStrength, strength)
	}
	return nil
}

func (Grayscale) Validate(*Image) error        { return nil }
func (f Sepia) Validate(*Image) error          { return validateStrength(f.Name(), f.Strength) }
func (Flip) Validate(*Image) error             { return nil }
func (f GaussianBlur) Validate(*Image) error   { return validateStrength(f.Name(), f.Passes) }
func (f Sharpen) Validate(*Image) error        { return validateStrength(f.Name(), f.Strength) }
func (EdgeDetection) Validate(*Image) error    { return nil }
func (f NoiseReduction) Validate(*Image) error { return validateStrength(f.Name(), f.Strength) }

func (f ASCII) Validate(im *Image) error {
	if f.Width <= 0 {
		return fmt.Errorf("%w: ascii width must be positive, got %d", ErrInvalidParameter, f.Width)
	}
	if im != nil && (f.Width > im.width || f.Width > im.height) {
		return fmt.Errorf("%w: ascii width %d exceeds image size %dx%d", ErrInvalidParameter, f.Width, im.width, im.height)
	}
	return nil
}

// Parametrized reports whether f takes a user supplied parameter.
func Parametrized(f Filter) bool {
	switch f.(type) {
	case Sepia, GaussianBlur, Sharpen, NoiseReduction, ASCII:
		return true
	default:
		return false
	}
}

// Filters lists every filter in selector order, with zero parameters.
var Filters = []Filter{
	Grayscale{},
	Sepia{},
	Flip{},
	GaussianBlur{},
	Sharpen{},
	EdgeDetection{},
	NoiseReduction{},
	ASCII{},
}

// FilterBySelector builds a filter from its 1-based menu number and
// parameter. param is ignored by filters without parameters.
func FilterBySelector(code, param int) (Filter, error) {
	var f Filter
	switch code {
	case 1:
		f = Grayscale{}
	case 2:
		f = Sepia{Strength: param}
	case 3:
		f = Flip{}
	case 4:
		f = GaussianBlur{Passes: param}
	case 5:
		f = Sharpen{Strength: param}
	case 6:
		f = EdgeDetection{}
	case 7:
		f = NoiseReduction{Strength: param}
	case 8:
		f = ASCII{Width: param}
	default:
		return nil, fmt.Errorf("%w: filter number must be in [1, %d], got %d", ErrInvalidParameter, len(Filters), code)
	}
	if err := f.Validate(nil); err != nil {
		return nil, err
	}
	return f, nil
}

// ApplyFilter runs an image producing filter on im in place. ASCII is not
// an image filter; use RenderASCII for it.
func ApplyFilter(im *Image, f Filter) error {
	if err := f.Validate(im); err != nil {
		return err
	}
	switch f := f.(type) {
	case Grayscale:
		ApplyGrayscale(im)
	case Sepia:
		ApplySepia(im, f.Strength)
	case Flip:
		ApplyFlip(im)
	case GaussianBlur:
		ApplyGaussianBlur(im, f.Passes)
	case Sharpen:
		return ApplySharpen(im, f.Strength)
	case EdgeDetection:
		ApplyEdgeDetection(im)
	case NoiseReduction:
		ApplyNoiseReduction(im, f.Strength)
	default:
		return fmt.Errorf("%w: %s does not produce an image", ErrInvalidParameter, f.Name())
	}
	return nil
}
