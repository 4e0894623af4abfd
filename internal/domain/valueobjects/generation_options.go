package valueobjects

import (
	"fmt"
)

type MimeType string
type OutputFormat string

const (
	MimeTypePNG  MimeType = "image/png"
	MimeTypeJPEG MimeType = "image/jpeg"
)

const (
	OutputFormatPNG  OutputFormat = "png"
	OutputFormatJPEG OutputFormat = "jpeg"
)

const (
	DefaultModel              = "gemini-2.5-flash-image-preview"
	DefaultCompressionQuality = 90
	MaxInputSideLimit         = 8192
)

type GenerationOptions struct {
	model              string
	maxInputSide       int
	outputFormat       OutputFormat
	compressionQuality int
}

func NewGenerationOptions(
	model string,
	maxInputSide int,
	outputFormat OutputFormat,
	compressionQuality int,
) (*GenerationOptions, error) {
	if model == "" {
		model = DefaultModel
	}

	if maxInputSide < 0 || maxInputSide > MaxInputSideLimit {
		return nil, fmt.Errorf("maxInputSide must be between 0 and %d, got %d", MaxInputSideLimit, maxInputSide)
	}

	switch outputFormat {
	case "":
		outputFormat = OutputFormatPNG
	case OutputFormatPNG, OutputFormatJPEG:
	default:
		return nil, fmt.Errorf("outputFormat must be png or jpeg, got %q", outputFormat)
	}

	if compressionQuality < 0 || compressionQuality > 100 {
		return nil, fmt.Errorf("compressionQuality must be between 0 and 100, got %d", compressionQuality)
	}

	return &GenerationOptions{
		model:              model,
		maxInputSide:       maxInputSide,
		outputFormat:       outputFormat,
		compressionQuality: compressionQuality,
	}, nil
}

func DefaultGenerationOptions() *GenerationOptions {
	options, _ := NewGenerationOptions(DefaultModel, 0, OutputFormatPNG, 0)
	return options
}

func (o *GenerationOptions) Model() string {
	return o.model
}

func (o *GenerationOptions) MaxInputSide() int {
	return o.maxInputSide
}

func (o *GenerationOptions) OutputFormat() OutputFormat {
	return o.outputFormat
}

func (o *GenerationOptions) CompressionQuality() int {
	return o.compressionQuality
}

func (o *GenerationOptions) OutputMimeType() MimeType {
	if o.outputFormat == OutputFormatJPEG {
		return MimeTypeJPEG
	}
	return MimeTypePNG
}
