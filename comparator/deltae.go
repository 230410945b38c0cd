package comparator

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// MeanDeltaE calculates the average CIEDE2000 colour difference between two
// equally sized buffers. Alpha is ignored and gray layouts are treated as
// neutral colours. Mismatched sizes return +Inf.
func MeanDeltaE(a, b *PixelBuffer) float64 {
	if !a.sameSize(b) || !supportedLayout(a.Channels) || !supportedLayout(b.Channels) {
		return math.Inf(1)
	}

	pixelCount := a.PixelCount()
	if pixelCount == 0 {
		return 0
	}

	var totalDifference float64
	for i := 0; i < pixelCount; i++ {
		c1 := pixelColor(a, i)
		c2 := pixelColor(b, i)
		totalDifference += c1.DistanceCIEDE2000(c2)
	}
	return totalDifference / float64(pixelCount)
}

func pixelColor(buf *PixelBuffer, i int) colorful.Color {
	px := buf.Pix[i*buf.Channels : (i+1)*buf.Channels]
	if buf.Channels < 3 {
		v := float64(px[0]) / 255.0
		return colorful.Color{R: v, G: v, B: v}
	}
	return colorful.Color{
		R: float64(px[0]) / 255.0,
		G: float64(px[1]) / 255.0,
		B: float64(px[2]) / 255.0,
	}
}
