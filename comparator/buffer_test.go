package comparator

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPixelBuffer_Validation(t *testing.T) {
	_, err := NewPixelBuffer(2, 2, 3, make([]uint8, 12))
	require.NoError(t, err)

	_, err = NewPixelBuffer(2, 2, 3, make([]uint8, 11))
	assert.ErrorIs(t, err, ErrBufferSize)

	_, err = NewPixelBuffer(0, 2, 1, nil)
	assert.ErrorIs(t, err, ErrBufferSize)

	_, err = NewPixelBuffer(1, 1, 5, make([]uint8, 5))
	assert.ErrorIs(t, err, ErrUnsupportedChannelLayout)
}

func TestFromImage_GrayBecomesRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	gray.SetGray(2, 1, color.Gray{Y: 77})

	buf := FromImage(gray)
	require.Equal(t, 4, buf.Channels)
	assert.Len(t, buf.Pix, 3*2*4)
	assert.Equal(t, []uint8{0, 0, 0, 255}, buf.Pix[0:4])
	assert.Equal(t, []uint8{77, 77, 77, 255}, buf.Pix[20:24])
}

func TestFromImage_UnpremultipliesRGBA(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.SetRGBA(0, 0, color.RGBA{R: 100, G: 50, B: 0, A: 200})

	buf := FromImage(rgba)
	require.Equal(t, 4, buf.Channels)
	want := color.NRGBAModel.Convert(color.RGBA{R: 100, G: 50, B: 0, A: 200}).(color.NRGBA)
	assert.Equal(t, []uint8{want.R, want.G, want.B, want.A}, buf.Pix)
}

func TestFromImage_SubImageOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(2, 3, color.NRGBA{R: 9, G: 8, B: 7, A: 6})

	buf := FromImage(src.SubImage(image.Rect(2, 2, 4, 4)))
	assert.Equal(t, 2, buf.Width)
	assert.Equal(t, 2, buf.Height)
	assert.Equal(t, []uint8{9, 8, 7, 6}, buf.Pix[8:12])
}

func TestPixelBuffer_ImageLayouts(t *testing.T) {
	ga, err := NewPixelBuffer(1, 1, 2, []uint8{40, 128})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 40, G: 40, B: 40, A: 128}, ga.Image().At(0, 0))

	rgb, err := NewPixelBuffer(1, 1, 3, []uint8{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, rgb.Image().At(0, 0))

	g, err := NewPixelBuffer(1, 1, 1, []uint8{99})
	require.NoError(t, err)
	assert.Equal(t, color.Gray{Y: 99}, g.Image().At(0, 0))
}

func TestPixelBuffer_Crop(t *testing.T) {
	buf := makeBuffer(t, 4, 3, 2, func(x, y int) []uint8 { return []uint8{uint8(y*10 + x), 255} })

	crop := buf.Crop(image.Rect(2, 1, 10, 10))
	require.NotNil(t, crop)
	assert.Equal(t, 2, crop.Width)
	assert.Equal(t, 2, crop.Height)
	assert.Equal(t, []uint8{12, 255, 13, 255, 22, 255, 23, 255}, crop.Pix)

	assert.Nil(t, buf.Crop(image.Rect(5, 5, 6, 6)))
}
