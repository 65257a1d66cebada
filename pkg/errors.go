package bmpfilter

import "errors"

var (
	// ErrDecode reports bytes that are not a decodable 24-bit uncompressed bitmap.
	ErrDecode = errors.New("decode bitmap")
	// ErrUnsupportedFormat reports input that is not a bitmap and could not be converted to one.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrInvalidParameter reports a filter parameter outside of its valid range.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrIO reports a failure reading or writing files.
	ErrIO = errors.New("io")
)
