package comparator

import (
	"fmt"
	"image"
)

// BT.709 derived luma weights. They sum to 1, so weighting a single gray
// channel would be a no-op.
const (
	lumaWeightR = 0.212655
	lumaWeightG = 0.715158
	lumaWeightB = 0.072187
)

// ExtractLuma returns one luma value per pixel of r, row by row, left to
// right. r must lie inside the buffer; SSIM windows are clipped by the
// tiler before they get here.
//
// Alpha, when present, scales the luma by alpha/255. With useLuminance
// disabled an RGB pixel yields R+G+B, so its range is 0..765 rather than
// 0..255.
func ExtractLuma(buf *PixelBuffer, r image.Rectangle, useLuminance bool) ([]float64, error) {
	if !supportedLayout(buf.Channels) {
		return nil, fmt.Errorf("%d channels: %w", buf.Channels, ErrUnsupportedChannelLayout)
	}
	if !r.In(buf.Bounds()) {
		return nil, fmt.Errorf("window %v outside %v: %w", r, buf.Bounds(), ErrDimensionMismatch)
	}
	return extractLuma(buf, r, useLuminance), nil
}

func extractLuma(buf *PixelBuffer, r image.Rectangle, useLuminance bool) []float64 {
	luma := make([]float64, 0, r.Dx()*r.Dy())
	ch := buf.Channels
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := buf.Pix[(y*buf.Width+r.Min.X)*ch : (y*buf.Width+r.Max.X)*ch]
		for i := 0; i < len(row); i += ch {
			luma = append(luma, pixelLuma(row[i:i+ch], useLuminance))
		}
	}
	return luma
}

func pixelLuma(px []uint8, useLuminance bool) float64 {
	switch len(px) {
	case 1:
		return float64(px[0])
	case 2:
		return float64(px[0]) * (float64(px[1]) / 255)
	case 3:
		return rgbLuma(px, useLuminance)
	default:
		return rgbLuma(px, useLuminance) * (float64(px[3]) / 255)
	}
}

func rgbLuma(px []uint8, useLuminance bool) float64 {
	r, g, b := float64(px[0]), float64(px[1]), float64(px[2])
	if useLuminance {
		return r*lumaWeightR + g*lumaWeightG + b*lumaWeightB
	}
	return r + g + b
}
