package bmpfilter

import (
	"math"
)

const GAUSSIAN_KERNEL_DIVISOR = 16

var (
	// TODO: flat data layout
	GAUSSIAN_KERNEL = [][]int{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}
	SOBEL_X_KERNEL = [][]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	SOBEL_Y_KERNEL = [][]int{
		{1, 2, 1},
		{0, 0, 0},
		{-1, -2, -1},
	}
)

// ApplyConvolution convolves im in place with a square kernel of odd size,
// dividing each channel sum by divisor. Pixels closer than len(kernel)/2 to
// the border are left as they are. Neighbourhoods are always read from a
// copy taken before the pass.
func ApplyConvolution(im *Image, kernel [][]int, divisor int) {
	offset := len(kernel) / 2
	src := im.Clone()
	forEachRow(offset, im.height-offset, func(y int) {
		row := im.Row(y)
		for x := offset; x < im.width-offset; x++ {
			r, g, b := 0, 0, 0
			for ky, kernelRow := range kernel {
				srcRow := src.Row(y + ky - offset)
				for kx, weight := range kernelRow {
					p := srcRow[x+kx-offset]
					r += int(p.R) * weight
					g += int(p.G) * weight
					b += int(p.B) * weight
				}
			}
			row[x] = Color{
				clampByte(r / divisor),
				clampByte(g / divisor),
				clampByte(b / divisor),
			}
		}
	})
}

// ApplyGaussianBlur runs passes rounds of 3x3 gaussian blur.
func ApplyGaussianBlur(im *Image, passes int) {
	for range passes {
		ApplyConvolution(im, GAUSSIAN_KERNEL, GAUSSIAN_KERNEL_DIVISOR)
	}
}

// ApplySharpen does unsharp masking: the difference between the image and
// its blurred copy is scaled by strength and added back.
func ApplySharpen(im *Image, strength int) error {
	blurred := im.Clone()
	ApplyGaussianBlur(blurred, 1)
	mask, err := Subtract(im, blurred)
	if err != nil {
		return err
	}
	mask.Multiply(float64(strength))
	sharpened, err := Add(im, mask)
	if err != nil {
		return err
	}
	copy(im.pix, sharpened.pix)
	return nil
}

// ApplyEdgeDetection replaces interior pixels with the Sobel gradient
// magnitude of the grayscale image.
func ApplyEdgeDetection(im *Image) {
	offset := len(SOBEL_X_KERNEL) / 2
	gray := im.Clone()
	ApplyGrayscale(gray)
	forEachRow(offset, im.height-offset, func(y int) {
		row := im.Row(y)
		for x := offset; x < im.width-offset; x++ {
			gx, gy := 0, 0
			for ky := range SOBEL_X_KERNEL {
				grayRow := gray.Row(y + ky - offset)
				for kx := range SOBEL_X_KERNEL[ky] {
					intensity := int(grayRow[x+kx-offset].R)
					gx += intensity * SOBEL_X_KERNEL[ky][kx]
					gy += intensity * SOBEL_Y_KERNEL[ky][kx]
				}
			}
			magnitude := clampByte(int(math.Round(math.Sqrt(float64(gx*gx + gy*gy)))))
			row[x] = Color{magnitude, magnitude, magnitude}
		}
	})
}
