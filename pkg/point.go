package bmpfilter

import "math"

func ApplyGrayscale(im *Image) {
	for i, p := range im.pix {
		avg := uint8((int(p.R) + int(p.G) + int(p.B)) / 3)
		im.pix[i] = Color{avg, avg, avg}
	}
}

// ApplySepia tones the image with the classic sepia matrix. strength is
// accepted for interface parity with other filters and does not change the
// result.
func ApplySepia(im *Image, _ int) {
	tone := func(r, g, b float64) uint8 {
		return uint8(min(255, int(math.Round(r+g+b))))
	}
	for i, p := range im.pix {
		r, g, b := float64(p.R), float64(p.G), float64(p.B)
		im.pix[i] = Color{
			R: tone(0.393*r, 0.769*g, 0.189*b),
			G: tone(0.349*r, 0.686*g, 0.168*b),
			B: tone(0.272*r, 0.534*g, 0.131*b),
		}
	}
}

// ApplyFlip mirrors the image horizontally.
func ApplyFlip(im *Image) {
	for y := range im.height {
		row := im.Row(y)
		for x := 0; x < im.width/2; x++ {
			row[x], row[im.width-1-x] = row[im.width-1-x], row[x]
		}
	}
}
