package bmpfilter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ExtZstd marks files compressed with zstd. They are decompressed on load and
// compressed on save transparently.
const ExtZstd = ".zst"

func isZstd(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ExtZstd)
}

// LoadFile reads an input file. ext is the extension of the image inside,
// so "photo.png.zst" gives ".png".
func LoadFile(filename string) (data []byte, ext string, err error) {
	data, err = os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	if !isZstd(filename) {
		return data, strings.ToLower(filepath.Ext(filename)), nil
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, "", fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()
	data, err = dec.DecodeAll(data, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: decompress %q: %w", ErrIO, filename, err)
	}
	inner := strings.TrimSuffix(filename, filepath.Ext(filename))
	return data, strings.ToLower(filepath.Ext(inner)), nil
}

// SaveFile writes data to filename, compressing it when the name ends in ".zst".
func SaveFile(filename string, data []byte) error {
	if isZstd(filename) {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("zstd encoder: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return fmt.Errorf("zstd encoder: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// OutputFilename names the result of applying f to input: it is put next to
// the input as "<name>_<filter name><ext>", keeping a ".zst" suffix.
func OutputFilename(input string, f Filter, ext string) string {
	dir, base := filepath.Split(input)
	compressed := isZstd(base)
	if compressed {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := base + "_" + f.Name() + ext
	if compressed {
		name += ExtZstd
	}
	return filepath.Join(dir, name)
}

// ApplyFilterFile runs f over sourceFilename and writes the result to
// resultFilename, or next to the source when resultFilename is empty. It
// returns the name of the written file.
func ApplyFilterFile(sourceFilename, resultFilename string, f Filter, conv Converter) (string, error) {
	data, ext, err := LoadFile(sourceFilename)
	if err != nil {
		return "", err
	}
	out, err := Process(data, ext, f, conv)
	if err != nil {
		return "", err
	}
	if resultFilename == "" {
		resultFilename = OutputFilename(sourceFilename, f, out.Ext)
	}
	if err := SaveFile(resultFilename, out.Data); err != nil {
		return "", err
	}
	return resultFilename, nil
}
