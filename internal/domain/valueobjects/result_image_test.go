package valueobjects

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeResultImage_RawPNG(t *testing.T) {
	result, err := DecodeResultImage(encodeTestPNG(t, 7, 5))
	require.NoError(t, err)
	require.Equal(t, 7, result.Width())
	require.Equal(t, 5, result.Height())
	require.Equal(t, ColorModeRGB, result.ColorMode())
}

func TestDecodeResultImage_Base64Payload(t *testing.T) {
	payload := []byte(base64.StdEncoding.EncodeToString(encodeTestPNG(t, 3, 9)))

	result, err := DecodeResultImage(payload)
	require.NoError(t, err)
	require.Equal(t, 3, result.Width())
	require.Equal(t, 9, result.Height())
}

func TestDecodeResultImage_Invalid(t *testing.T) {
	for name, payload := range map[string][]byte{
		"empty":          nil,
		"garbage":        {0xde, 0xad, 0xbe, 0xef},
		"base64 garbage": []byte(base64.StdEncoding.EncodeToString([]byte("not an image"))),
		"truncated png":  encodeTestPNG(t, 8, 8)[:20],
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeResultImage(payload)
			require.Error(t, err)
		})
	}
}

func TestNewResultImage_DropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	result := NewResultImage(src)
	require.Equal(t, ColorModeRGBA, result.SourceColorMode())
	require.Equal(t, ColorModeRGB, result.ColorMode())

	r, g, b, a := result.Image().At(1, 0).RGBA()
	require.Equal(t, uint32(0xffff), a)
	require.Equal(t, uint32(10*0x101), r)
	require.Equal(t, uint32(20*0x101), g)
	require.Equal(t, uint32(30*0x101), b)
}

func TestNewResultImage_SourceModes(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	require.Equal(t, ColorModeGray, NewResultImage(gray).SourceColorMode())

	paletted := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	require.Equal(t, ColorModeP, NewResultImage(paletted).SourceColorMode())

	opaque := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 0xff
	}
	require.Equal(t, ColorModeRGB, NewResultImage(opaque).SourceColorMode())
}

func TestResultImage_Encode(t *testing.T) {
	result, err := DecodeResultImage(encodeTestPNG(t, 6, 4))
	require.NoError(t, err)

	t.Run("png", func(t *testing.T) {
		data, mimeType, err := result.Encode(OutputFormatPNG, 0)
		require.NoError(t, err)
		require.Equal(t, MimeTypePNG, mimeType)
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		require.Equal(t, 6, cfg.Width)
	})

	t.Run("jpeg", func(t *testing.T) {
		data, mimeType, err := result.Encode(OutputFormatJPEG, 80)
		require.NoError(t, err)
		require.Equal(t, MimeTypeJPEG, mimeType)
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		require.Equal(t, 4, cfg.Height)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := result.Encode("bmp", 0)
		require.Error(t, err)
	})
}
