package comparator

import (
	"fmt"
	"image"
	"image/draw"
)

// PixelBuffer holds the decoded 8-bit samples of an image in row-major,
// interleaved order. Channels is 1 (gray), 2 (gray+alpha), 3 (RGB) or
// 4 (RGBA). The engines only ever read from a PixelBuffer.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewPixelBuffer validates the layout and wraps pix without copying it.
func NewPixelBuffer(width, height, channels int, pix []uint8) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d: %w", width, height, ErrBufferSize)
	}
	if !supportedLayout(channels) {
		return nil, fmt.Errorf("%d channels: %w", channels, ErrUnsupportedChannelLayout)
	}
	if want := width * height * channels; len(pix) != want {
		return nil, fmt.Errorf("got %d samples, want %d: %w", len(pix), want, ErrBufferSize)
	}
	return &PixelBuffer{Width: width, Height: height, Channels: channels, Pix: pix}, nil
}

func supportedLayout(channels int) bool {
	return channels >= 1 && channels <= 4
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// PixelCount returns width*height.
func (b *PixelBuffer) PixelCount() int {
	return b.Width * b.Height
}

func (b *PixelBuffer) sameSize(o *PixelBuffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// FromImage converts a decoded image into a 4-channel PixelBuffer. Every
// source model, gray included, is drawn into non-premultiplied RGBA so that
// alpha stays a separate, unscaled channel.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*w || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return &PixelBuffer{Width: w, Height: h, Channels: 4, Pix: nrgba.Pix[:4*w*h]}
}

// Image exposes the buffer as an image.Image for encoding. One-channel
// buffers become *image.Gray; the other layouts are expanded to
// *image.NRGBA (gray+alpha replicates gray into RGB, RGB gets opaque alpha).
func (b *PixelBuffer) Image() image.Image {
	rect := b.Bounds()
	if b.Channels == 1 {
		gray := image.NewGray(rect)
		copy(gray.Pix, b.Pix)
		return gray
	}

	out := image.NewNRGBA(rect)
	n := b.PixelCount()
	for i := 0; i < n; i++ {
		src := b.Pix[i*b.Channels : (i+1)*b.Channels]
		dst := out.Pix[i*4 : i*4+4]
		switch b.Channels {
		case 2:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
		case 3:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 0xff
		case 4:
			copy(dst, src)
		}
	}
	return out
}

// Crop copies the part of the buffer covered by r. r is clipped to the
// buffer bounds; an empty intersection yields nil.
func (b *PixelBuffer) Crop(r image.Rectangle) *PixelBuffer {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return nil
	}
	w, h := r.Dx(), r.Dy()
	rowLen := w * b.Channels
	pix := make([]uint8, h*rowLen)
	for y := 0; y < h; y++ {
		start := ((r.Min.Y+y)*b.Width + r.Min.X) * b.Channels
		copy(pix[y*rowLen:(y+1)*rowLen], b.Pix[start:start+rowLen])
	}
	return &PixelBuffer{Width: w, Height: h, Channels: b.Channels, Pix: pix}
}
