package comparator

import (
	"fmt"
	"math"
)

// Diff mask colours.
const (
	maskMatchAlpha = 100
	maskDiffR      = 255
	maskDiffAlpha  = 255
)

// ChannelDifferences aggregates the per-channel error of two images. All
// slices hold one entry per channel in buffer order.
type ChannelDifferences struct {
	AbsoluteErrors     []float64
	MeanAbsoluteErrors []float64
	SquareErrors       []float64
	MeanSquareErrors   []float64
	// DifferingPixels counts pixels where any channel exceeded the fuzz.
	DifferingPixels   int
	DifferingFraction float64
	// MSEStdDev is the sample standard deviation of the colour channels'
	// mean square errors. It is NaN for single-channel images.
	MSEStdDev float64
	// Mask is only set for RGBA inputs when a mask was requested.
	Mask *PixelBuffer
}

// ComputeDifferences compares a and b sample by sample. A channel whose
// absolute distance exceeds fuzz contributes that distance to its absolute
// and square error sums, and marks the pixel as differing. Distances equal
// to fuzz are ignored.
func ComputeDifferences(a, b *PixelBuffer, fuzz int, produceDiffMask bool) (*ChannelDifferences, error) {
	if !supportedLayout(a.Channels) {
		return nil, fmt.Errorf("%d channels: %w", a.Channels, ErrUnsupportedChannelLayout)
	}
	if !a.sameSize(b) {
		return nil, fmt.Errorf("%dx%d vs %dx%d: %w", a.Width, a.Height, b.Width, b.Height, ErrDimensionMismatch)
	}
	if a.Channels != b.Channels {
		return nil, fmt.Errorf("%d vs %d channels: %w", a.Channels, b.Channels, ErrDimensionMismatch)
	}

	channels := a.Channels
	total := a.PixelCount()
	d := &ChannelDifferences{
		AbsoluteErrors:     make([]float64, channels),
		MeanAbsoluteErrors: make([]float64, channels),
		SquareErrors:       make([]float64, channels),
		MeanSquareErrors:   make([]float64, channels),
	}

	var mask []uint8
	if produceDiffMask && channels == 4 {
		mask = make([]uint8, len(a.Pix))
	}

	for offset := 0; offset < len(a.Pix); offset += channels {
		match := true
		for c := 0; c < channels; c++ {
			distance := int(b.Pix[offset+c]) - int(a.Pix[offset+c])
			if distance < 0 {
				distance = -distance
			}
			if distance > fuzz {
				match = false
				d.AbsoluteErrors[c] += float64(distance)
				d.SquareErrors[c] += float64(distance * distance)
			}
		}
		if !match {
			d.DifferingPixels++
		}

		if mask != nil {
			px := mask[offset : offset+4]
			if match {
				px[0], px[1], px[2], px[3] = a.Pix[offset], a.Pix[offset+1], a.Pix[offset+2], maskMatchAlpha
			} else {
				px[0], px[1], px[2], px[3] = maskDiffR, 0, 0, maskDiffAlpha
			}
		}
	}

	for c := 0; c < channels; c++ {
		d.MeanAbsoluteErrors[c] = d.AbsoluteErrors[c] / float64(total)
		d.MeanSquareErrors[c] = d.SquareErrors[c] / float64(total)
	}
	d.DifferingFraction = float64(d.DifferingPixels) / float64(total)
	d.MSEStdDev = sampleStdDev(d.MeanSquareErrors[:min(channels, 3)])

	if mask != nil {
		d.Mask = &PixelBuffer{Width: a.Width, Height: a.Height, Channels: 4, Pix: mask}
	}
	return d, nil
}

// sampleStdDev is the Bessel-corrected standard deviation of values. A
// single value divides zero by zero and returns NaN.
func sampleStdDev(values []float64) float64 {
	m := mean(values)
	var variance float64
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}
