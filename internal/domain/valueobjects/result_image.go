package valueobjects

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

type ColorMode string

const (
	ColorModeRGB  ColorMode = "RGB"
	ColorModeRGBA ColorMode = "RGBA"
	ColorModeGray ColorMode = "L"
	ColorModeP    ColorMode = "P"
	ColorModeCMYK ColorMode = "CMYK"
)

// ResultImage is a decoded image returned by the model, normalized to opaque
// three-channel RGB.
type ResultImage struct {
	img        *image.NRGBA
	sourceMode ColorMode
}

// DecodeResultImage decodes an inline payload from the model. The payload is
// used as-is when it already holds image bytes and base64-decoded otherwise.
func DecodeResultImage(payload []byte) (*ResultImage, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("image payload is empty")
	}

	raw := payload
	if _, _, err := detectFormat(payload); err != nil {
		decoded, decErr := base64.StdEncoding.DecodeString(strings.TrimSpace(string(payload)))
		if decErr != nil {
			return nil, fmt.Errorf("payload is neither image bytes nor base64: %w", err)
		}
		raw = decoded
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return NewResultImage(img), nil
}

// NewResultImage converts img to RGB by dropping its alpha channel.
func NewResultImage(img image.Image) *ResultImage {
	mode := colorModeOf(img)

	nrgba := imaging.Clone(img)
	if mode != ColorModeRGB {
		for i := 3; i < len(nrgba.Pix); i += 4 {
			nrgba.Pix[i] = 0xff
		}
	}

	return &ResultImage{
		img:        nrgba,
		sourceMode: mode,
	}
}

func (r *ResultImage) Image() image.Image {
	return r.img
}

func (r *ResultImage) Width() int {
	return r.img.Bounds().Dx()
}

func (r *ResultImage) Height() int {
	return r.img.Bounds().Dy()
}

func (r *ResultImage) ColorMode() ColorMode {
	return ColorModeRGB
}

// SourceColorMode is the color mode the model returned before normalization.
func (r *ResultImage) SourceColorMode() ColorMode {
	return r.sourceMode
}

// Encode serializes the image in the requested output format.
func (r *ResultImage) Encode(format OutputFormat, compressionQuality int) ([]byte, MimeType, error) {
	var buf bytes.Buffer

	switch format {
	case OutputFormatJPEG:
		if compressionQuality <= 0 {
			compressionQuality = DefaultCompressionQuality
		}
		if err := imaging.Encode(&buf, r.img, imaging.JPEG, imaging.JPEGQuality(compressionQuality)); err != nil {
			return nil, "", fmt.Errorf("failed to encode to JPEG: %w", err)
		}
		return buf.Bytes(), MimeTypeJPEG, nil
	case OutputFormatPNG, "":
		if err := imaging.Encode(&buf, r.img, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("failed to encode to PNG: %w", err)
		}
		return buf.Bytes(), MimeTypePNG, nil
	default:
		return nil, "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func colorModeOf(img image.Image) ColorMode {
	if _, ok := img.ColorModel().(color.Palette); ok {
		return ColorModeP
	}

	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return ColorModeGray
	case color.CMYKModel:
		return ColorModeCMYK
	case color.YCbCrModel:
		return ColorModeRGB
	}

	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return ColorModeRGB
	}
	return ColorModeRGBA
}
