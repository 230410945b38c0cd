package comparator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDifferences_Identity(t *testing.T) {
	img := pattern(t, 16, 9)

	d, err := ComputeDifferences(img, img, DefaultFuzz, false)
	require.NoError(t, err)
	zeros := []float64{0, 0, 0, 0}
	assert.Equal(t, zeros, d.AbsoluteErrors)
	assert.Equal(t, zeros, d.MeanAbsoluteErrors)
	assert.Equal(t, zeros, d.SquareErrors)
	assert.Equal(t, zeros, d.MeanSquareErrors)
	assert.Zero(t, d.DifferingPixels)
	assert.Zero(t, d.DifferingFraction)
	assert.Zero(t, d.MSEStdDev)
	assert.Nil(t, d.Mask)
}

func TestComputeDifferences_FuzzBoundary(t *testing.T) {
	const fuzz = 32
	a := makeBuffer(t, 2, 1, 3, func(_, _ int) []uint8 { return []uint8{100, 100, 100} })
	b := makeBuffer(t, 2, 1, 3, func(x, _ int) []uint8 {
		if x == 0 {
			return []uint8{100 + fuzz, 100 - fuzz, 100}
		}
		return []uint8{100 + fuzz + 1, 100, 100}
	})

	d, err := ComputeDifferences(a, b, fuzz, false)
	require.NoError(t, err)
	assert.Equal(t, 1, d.DifferingPixels)
	assert.Equal(t, 0.5, d.DifferingFraction)
	assert.Equal(t, []float64{fuzz + 1, 0, 0}, d.AbsoluteErrors)
	assert.Equal(t, []float64{(fuzz + 1) * (fuzz + 1), 0, 0}, d.SquareErrors)
}

func TestComputeDifferences_PixelCountedOnce(t *testing.T) {
	a := makeBuffer(t, 2, 2, 4, func(_, _ int) []uint8 { return []uint8{0, 0, 0, 255} })
	b := clone(a)
	copy(b.Pix[0:4], []uint8{200, 100, 50, 255})

	d, err := ComputeDifferences(a, b, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 1, d.DifferingPixels)
	assert.Equal(t, 0.25, d.DifferingFraction)
	assert.Equal(t, []float64{200, 100, 50, 0}, d.AbsoluteErrors)
	// Means divide by all four pixels, not by the differing ones.
	assert.Equal(t, []float64{50, 25, 12.5, 0}, d.MeanAbsoluteErrors)
	assert.Equal(t, []float64{40000, 10000, 2500, 0}, d.SquareErrors)
	assert.Equal(t, []float64{10000, 2500, 625, 0}, d.MeanSquareErrors)
}

func TestComputeDifferences_CrossChannelStdDev(t *testing.T) {
	// Ten pixels; R differs by 10 on one pixel, G on two, B on three, so
	// the per-channel MSEs are 10, 20 and 30.
	a := makeBuffer(t, 10, 1, 3, func(_, _ int) []uint8 { return []uint8{50, 50, 50} })
	b := makeBuffer(t, 10, 1, 3, func(x, _ int) []uint8 {
		px := []uint8{50, 50, 50}
		if x < 1 {
			px[0] = 60
		}
		if x < 2 {
			px[1] = 60
		}
		if x < 3 {
			px[2] = 60
		}
		return px
	})

	d, err := ComputeDifferences(a, b, 0, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, d.MeanSquareErrors)
	// Sample standard deviation of {10, 20, 30}: sqrt(((-10)^2 + 0 + 10^2) / 2).
	assert.InDelta(t, 10.0, d.MSEStdDev, 1e-12)
}

func TestComputeDifferences_StdDevExcludesAlpha(t *testing.T) {
	a := makeBuffer(t, 1, 1, 4, func(_, _ int) []uint8 { return []uint8{0, 0, 0, 0} })
	b := makeBuffer(t, 1, 1, 4, func(_, _ int) []uint8 { return []uint8{10, 10, 10, 250} })

	d, err := ComputeDifferences(a, b, 0, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 100, 100, 62500}, d.MeanSquareErrors)
	assert.Zero(t, d.MSEStdDev)
}

func TestComputeDifferences_SingleChannelStdDevIsNaN(t *testing.T) {
	a := makeBuffer(t, 2, 2, 1, func(_, _ int) []uint8 { return []uint8{0} })
	b := makeBuffer(t, 2, 2, 1, func(_, _ int) []uint8 { return []uint8{100} })

	d, err := ComputeDifferences(a, b, DefaultFuzz, false)
	require.NoError(t, err)
	assert.Equal(t, 4, d.DifferingPixels)
	assert.True(t, math.IsNaN(d.MSEStdDev))
}

func TestComputeDifferences_Symmetric(t *testing.T) {
	a := pattern(t, 24, 24)
	b := invert(a)
	for i := 0; i < len(b.Pix); i += 5 {
		b.Pix[i] = a.Pix[i]
	}

	ab, err := ComputeDifferences(a, b, DefaultFuzz, false)
	require.NoError(t, err)
	ba, err := ComputeDifferences(b, a, DefaultFuzz, false)
	require.NoError(t, err)
	assert.Equal(t, ab.AbsoluteErrors, ba.AbsoluteErrors)
	assert.Equal(t, ab.SquareErrors, ba.SquareErrors)
	assert.Equal(t, ab.DifferingPixels, ba.DifferingPixels)
}

func TestComputeDifferences_Mask(t *testing.T) {
	a := makeBuffer(t, 2, 1, 4, func(x, _ int) []uint8 { return []uint8{10, 20, 30, 255} })
	b := clone(a)
	b.Pix[4] = 200

	d, err := ComputeDifferences(a, b, DefaultFuzz, true)
	require.NoError(t, err)
	require.NotNil(t, d.Mask)
	assert.Equal(t, 4, d.Mask.Channels)
	assert.Equal(t, []uint8{10, 20, 30, 100, 255, 0, 0, 255}, d.Mask.Pix)
}

func TestComputeDifferences_MaskOnlyForRGBA(t *testing.T) {
	a := makeBuffer(t, 2, 2, 3, func(_, _ int) []uint8 { return []uint8{1, 2, 3} })

	d, err := ComputeDifferences(a, a, DefaultFuzz, true)
	require.NoError(t, err)
	assert.Nil(t, d.Mask)
}

func TestComputeDifferences_Errors(t *testing.T) {
	_, err := ComputeDifferences(pattern(t, 4, 4), pattern(t, 4, 5), DefaultFuzz, false)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	rgb := makeBuffer(t, 4, 4, 3, func(_, _ int) []uint8 { return []uint8{0, 0, 0} })
	_, err = ComputeDifferences(pattern(t, 4, 4), rgb, DefaultFuzz, false)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	bad := &PixelBuffer{Width: 1, Height: 1, Channels: 6, Pix: make([]uint8, 6)}
	_, err = ComputeDifferences(bad, bad, DefaultFuzz, false)
	assert.ErrorIs(t, err, ErrUnsupportedChannelLayout)
}
