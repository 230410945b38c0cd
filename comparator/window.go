package comparator

import "image"

// WindowScore is the SSIM outcome of a single window.
type WindowScore struct {
	Bounds             image.Rectangle
	SSIM               float64
	ContrastSimilarity float64
}

// tileWindows divides a width x height image into non-overlapping square
// windows, left to right and top to bottom. Windows on the right and bottom
// edges are clipped to the image.
func tileWindows(width, height, size int) []image.Rectangle {
	bounds := image.Rect(0, 0, width, height)
	windows := []image.Rectangle{}

	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			rect := image.Rect(x, y, x+size, y+size).Intersect(bounds)
			if rect.Empty() {
				continue
			}
			windows = append(windows, rect)
		}
	}
	return windows
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// windowStats computes SSIM and contrast similarity for two equally long
// luma signals. Variances and covariance use Bessel's correction, so a
// single-pixel window divides by zero and yields NaN.
func windowStats(luma1, luma2 []float64, mean1, mean2, c1, c2 float64) (ssim, cs float64) {
	var sigxy, sigsqx, sigsqy float64
	for i := range luma1 {
		dx := luma1[i] - mean1
		dy := luma2[i] - mean2
		sigsqx += dx * dx
		sigsqy += dy * dy
		sigxy += dx * dy
	}

	n := float64(len(luma1) - 1)
	sigsqx /= n
	sigsqy /= n
	sigxy /= n

	// Explicit float64 conversions keep the products from being fused, so
	// identical windows score exactly 1.
	numerator := (float64(2*mean1*mean2) + c1) * (2*sigxy + c2)
	denominator := (float64(mean1*mean1) + float64(mean2*mean2) + c1) * (sigsqx + sigsqy + c2)

	ssim = numerator / denominator
	cs = (2*sigxy + c2) / (sigsqx + sigsqy + c2)
	return ssim, cs
}
