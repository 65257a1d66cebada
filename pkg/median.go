package bmpfilter

// noiseKernelSize maps a 1..100 strength to a window size. Odd strengths are
// halved (rounding up) first.
func noiseKernelSize(strength int) int {
	if strength%2 != 0 {
		strength = (strength + 1) / 2
	}
	return 3 + strength
}

type histogram [256]int

// kthSmallest returns the k-th (0-based) smallest value counted in h.
func kthSmallest(h *histogram, k int) uint8 {
	for v, count := range h {
		if k < count {
			return uint8(v)
		}
		k -= count
	}
	return 255
}

// Median replaces every pixel with the per-channel median of its
// windowSize x windowSize neighbourhood. Samples outside the image are not
// counted, so border windows are smaller. With n samples the value at sorted
// index n/2 is taken.
func Median(im *Image, windowSize int) {
	halfWindowSize := windowSize / 2
	src := im.Clone()
	forEachRow(0, im.height, func(y int) {
		var rHist, gHist, bHist histogram
		row := im.Row(y)
		yFrom, yTo := max(0, y-halfWindowSize), min(im.height-1, y+halfWindowSize)
		for x := range row {
			rHist, gHist, bHist = histogram{}, histogram{}, histogram{}
			xFrom, xTo := max(0, x-halfWindowSize), min(im.width-1, x+halfWindowSize)
			count := 0
			for sy := yFrom; sy <= yTo; sy++ {
				for _, p := range src.Row(sy)[xFrom : xTo+1] {
					rHist[p.R]++
					gHist[p.G]++
					bHist[p.B]++
					count++
				}
			}
			row[x] = Color{
				kthSmallest(&rHist, count/2),
				kthSmallest(&gHist, count/2),
				kthSmallest(&bHist, count/2),
			}
		}
	})
}

// ApplyNoiseReduction is a median filter whose window grows with strength.
func ApplyNoiseReduction(im *Image, strength int) {
	Median(im, noiseKernelSize(strength))
}
