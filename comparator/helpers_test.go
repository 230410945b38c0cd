package comparator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// makeBuffer builds a w x h buffer with the given channel count, filling each
// pixel from fn.
func makeBuffer(t *testing.T, w, h, channels int, fn func(x, y int) []uint8) *PixelBuffer {
	t.Helper()
	pix := make([]uint8, 0, w*h*channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := fn(x, y)
			require.Len(t, px, channels)
			pix = append(pix, px...)
		}
	}
	buf, err := NewPixelBuffer(w, h, channels, pix)
	require.NoError(t, err)
	return buf
}

// pattern is an opaque RGBA image with structure in every channel.
func pattern(t *testing.T, w, h int) *PixelBuffer {
	return makeBuffer(t, w, h, 4, func(x, y int) []uint8 {
		checker := uint8(0)
		if (x/4+y/4)%2 == 1 {
			checker = 255
		}
		return []uint8{checker, uint8(x * 255 / w), uint8(y * 255 / h), 255}
	})
}

// invert returns the colour inversion of an RGBA buffer, keeping alpha.
func invert(buf *PixelBuffer) *PixelBuffer {
	pix := make([]uint8, len(buf.Pix))
	for i := 0; i < len(pix); i += 4 {
		pix[i] = 255 - buf.Pix[i]
		pix[i+1] = 255 - buf.Pix[i+1]
		pix[i+2] = 255 - buf.Pix[i+2]
		pix[i+3] = buf.Pix[i+3]
	}
	return &PixelBuffer{Width: buf.Width, Height: buf.Height, Channels: 4, Pix: pix}
}

// clone copies buf so tests can modify pixels.
func clone(buf *PixelBuffer) *PixelBuffer {
	pix := make([]uint8, len(buf.Pix))
	copy(pix, buf.Pix)
	return &PixelBuffer{Width: buf.Width, Height: buf.Height, Channels: buf.Channels, Pix: pix}
}
