package valueobjects

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

type ImageFormat string

const (
	JPEG ImageFormat = "jpeg"
	PNG  ImageFormat = "png"
	GIF  ImageFormat = "gif"
	WEBP ImageFormat = "webp"
)

// ImageData is an encoded raster image as uploaded by the user or sent to the model.
type ImageData struct {
	data     []byte
	format   ImageFormat
	mimeType string
	width    int
	height   int
}

func NewImageData(data []byte) (*ImageData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image data cannot be empty")
	}

	cfg, format, err := detectFormat(data)
	if err != nil {
		return nil, fmt.Errorf("unsupported image format: %w", err)
	}

	// ヘッダーのContent-Typeは信用せず、実データの形式から決める
	return &ImageData{
		data:     data,
		format:   format,
		mimeType: "image/" + string(format),
		width:    cfg.Width,
		height:   cfg.Height,
	}, nil
}

func (i *ImageData) Data() []byte {
	return i.data
}

func (i *ImageData) Format() ImageFormat {
	return i.format
}

func (i *ImageData) MimeType() string {
	return i.mimeType
}

func (i *ImageData) Width() int {
	return i.width
}

func (i *ImageData) Height() int {
	return i.height
}

func (i *ImageData) IsPNG() bool {
	return i.format == PNG
}

func (i *ImageData) Decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(i.data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ToPNG re-encodes the image as PNG. The output depends only on the decoded
// pixels, so encoding the same image twice yields identical bytes.
func (i *ImageData) ToPNG() (*ImageData, error) {
	img, err := i.Decode()
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

// Fit downscales the image so that neither side exceeds maxSide. Images that
// already fit, and a maxSide of 0, return the receiver unchanged.
func (i *ImageData) Fit(maxSide int) (*ImageData, error) {
	if maxSide <= 0 || (i.width <= maxSide && i.height <= maxSide) {
		return i, nil
	}

	img, err := i.Decode()
	if err != nil {
		return nil, err
	}

	return encodePNG(imaging.Fit(img, maxSide, maxSide, imaging.Lanczos))
}

func (i *ImageData) ToBase64() string {
	return base64.StdEncoding.EncodeToString(i.data)
}

func encodePNG(img image.Image) (*ImageData, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode to PNG: %w", err)
	}

	b := img.Bounds()
	return &ImageData{
		data:     buf.Bytes(),
		format:   PNG,
		mimeType: string(MimeTypePNG),
		width:    b.Dx(),
		height:   b.Dy(),
	}, nil
}

func detectFormat(data []byte) (image.Config, ImageFormat, error) {
	reader := bytes.NewReader(data)
	cfg, format, err := image.DecodeConfig(reader)
	if err != nil {
		return image.Config{}, "", err
	}

	switch format {
	case "jpeg":
		return cfg, JPEG, nil
	case "png":
		return cfg, PNG, nil
	case "gif":
		return cfg, GIF, nil
	case "webp":
		return cfg, WEBP, nil
	default:
		return image.Config{}, "", fmt.Errorf("unsupported format: %s", format)
	}
}
