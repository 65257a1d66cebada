package bmpfilter

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	fileHeaderLen = 14
	infoHeaderLen = 40
	headersLen    = fileHeaderLen + infoHeaderLen

	bitmapMagic = 0x4D42 // "BM"
	bitCount24  = 24
	// 72 DPI
	defaultPelsPerMeter = 2835
)

// FileHeader is BITMAPFILEHEADER.
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader
type FileHeader struct {
	Type      uint16
	Size      uint32
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32
}

// InfoHeader is BITMAPINFOHEADER. Negative Height means rows are stored top-down.
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapinfoheader
type InfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// Bitmap keeps the headers a file was decoded with so it can be written back
// the same way.
type Bitmap struct {
	File  FileHeader
	Info  InfoHeader
	Image *Image
}

func rowPadding(width int) int {
	return (4 - (width*3)%4) % 4
}

func rowStride(width int) int {
	return width*3 + rowPadding(width)
}

// NewBitmap wraps im with default bottom-up 24-bit headers.
func NewBitmap(im *Image) *Bitmap {
	imageSize := rowStride(im.width) * im.height
	return &Bitmap{
		File: FileHeader{
			Type:    bitmapMagic,
			Size:    uint32(headersLen + imageSize),
			OffBits: headersLen,
		},
		Info: InfoHeader{
			Size:          infoHeaderLen,
			Width:         int32(im.width),
			Height:        int32(im.height),
			Planes:        1,
			BitCount:      bitCount24,
			SizeImage:     uint32(imageSize),
			XPelsPerMeter: defaultPelsPerMeter,
			YPelsPerMeter: defaultPelsPerMeter,
		},
		Image: im,
	}
}

// Decode parses an uncompressed 24-bit bitmap. Rows keep file order, so row 0
// of the result is the first scanline in the file.
func Decode(data []byte) (*Bitmap, error) {
	if len(data) < headersLen {
		return nil, fmt.Errorf("%w: %d bytes is shorter than bitmap headers", ErrDecode, len(data))
	}

	var bm Bitmap
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.LittleEndian, &bm.File); err != nil {
		return nil, fmt.Errorf("%w: read file header: %w", ErrDecode, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &bm.Info); err != nil {
		return nil, fmt.Errorf("%w: read info header: %w", ErrDecode, err)
	}

	switch {
	case bm.File.Type != bitmapMagic:
		return nil, fmt.Errorf("%w: bad magic %#04x", ErrDecode, bm.File.Type)
	case bm.Info.BitCount != bitCount24:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrDecode, bm.Info.BitCount)
	case bm.Info.Compression != 0:
		return nil, fmt.Errorf("%w: unsupported compression %d", ErrDecode, bm.Info.Compression)
	}

	width, height := int64(bm.Info.Width), int64(bm.Info.Height)
	if height < 0 {
		height = -height
	}
	if width <= 0 || height == 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrDecode, bm.Info.Width, bm.Info.Height)
	}

	offset := int64(bm.File.OffBits)
	if offset < headersLen {
		offset = headersLen
	}
	if offset > int64(len(data)) {
		return nil, fmt.Errorf("%w: pixel offset %d past end of %d bytes", ErrDecode, offset, len(data))
	}
	available := int64(len(data)) - offset
	stride := width*3 + int64(rowPadding(int(width)))
	// the last row's padding is optional; compare by division so huge
	// dimensions cannot overflow
	if width*3 > available || (available-width*3)/stride < height-1 {
		return nil, fmt.Errorf("%w: truncated pixel data: %dx%d image at offset %d, have %d bytes", ErrDecode, width, height, offset, len(data))
	}

	im := NewImage(int(width), int(height))
	pixels := data[offset:]
	for y := range im.height {
		src := pixels[int64(y)*stride:]
		row := im.Row(y)
		for x := range row {
			bgr := src[x*3 : x*3+3]
			row[x] = Color{R: bgr[2], G: bgr[1], B: bgr[0]}
		}
	}
	bm.Image = im
	return &bm, nil
}

// Encode writes the headers followed by the image rows. Rows and padding follow
// the image's own dimensions; when those differ from the headers, the size
// fields are updated to match.
func Encode(bm *Bitmap) ([]byte, error) {
	im := bm.Image
	if im == nil {
		return nil, fmt.Errorf("%w: bitmap has no image", ErrInvalidParameter)
	}

	file, info := bm.File, bm.Info
	file.OffBits = headersLen
	info.Size = infoHeaderLen

	stride := rowStride(im.width)
	imageSize := stride * im.height
	storedHeight := int(info.Height)
	if storedHeight < 0 {
		storedHeight = -storedHeight
	}
	if int(info.Width) != im.width || storedHeight != im.height {
		height := int32(im.height)
		if info.Height < 0 {
			height = -height
		}
		info.Width, info.Height = int32(im.width), height
		info.SizeImage = uint32(imageSize)
		file.Size = uint32(headersLen + imageSize)
	}

	buf := bytes.NewBuffer(make([]byte, 0, headersLen+imageSize))
	if err := binary.Write(buf, binary.LittleEndian, file); err != nil {
		return nil, fmt.Errorf("write file header: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, info); err != nil {
		return nil, fmt.Errorf("write info header: %w", err)
	}

	line := make([]byte, stride)
	for y := range im.height {
		for x, p := range im.Row(y) {
			line[x*3], line[x*3+1], line[x*3+2] = p.B, p.G, p.R
		}
		// padding bytes at the end of line stay zero
		buf.Write(line)
	}
	return buf.Bytes(), nil
}
