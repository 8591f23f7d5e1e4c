package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	p := NewImageProcessor()

	format, err := p.ValidateImage(samplePNG(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, "image/png", ContentType(format))
	assert.Equal(t, ".png", Extension(format))
}

func TestValidateImage_TooLarge(t *testing.T) {
	p := &ImageProcessor{MaxSize: 10}

	_, err := p.ValidateImage(samplePNG(t, 10, 10))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestValidateImage_NotAnImage(t *testing.T) {
	_, err := NewImageProcessor().ValidateImage([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestValidateImage_UnsupportedFormat(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 4, 4), []color.Color{color.Black, color.White})
	buf := new(bytes.Buffer)
	require.NoError(t, gif.Encode(buf, img, nil))

	_, err := NewImageProcessor().ValidateImage(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProcessImage_Variants(t *testing.T) {
	variants, err := NewImageProcessor().ProcessImage(samplePNG(t, 1600, 800))
	require.NoError(t, err)
	require.Len(t, variants, 3)

	thumb, _, err := image.DecodeConfig(bytes.NewReader(variants["thumbnail"]))
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Width)
	assert.Equal(t, 150, thumb.Height)
}
