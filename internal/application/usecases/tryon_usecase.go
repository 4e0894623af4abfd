package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"nanobanana-tryon/internal/domain/entities"
	"nanobanana-tryon/internal/domain/repositories"
	"nanobanana-tryon/internal/domain/services"
	"nanobanana-tryon/internal/domain/valueobjects"
)

type TryOnUseCase struct {
	artifactRepo  repositories.ArtifactRepository
	domainService *services.TryOnDomainService
	config        TryOnConfig
}

// TryOnConfig holds the server-side generation settings that users cannot override.
type TryOnConfig struct {
	Model        string
	MaxInputSide int
}

func NewTryOnUseCase(
	artifactRepo repositories.ArtifactRepository,
	domainService *services.TryOnDomainService,
	config TryOnConfig,
) *TryOnUseCase {
	return &TryOnUseCase{
		artifactRepo:  artifactRepo,
		domainService: domainService,
		config:        config,
	}
}

type TryOnInput struct {
	PersonImageData  []byte
	GarmentImageData []byte
	APIKey           string
	Parameters       *TryOnParametersInput
}

type TryOnParametersInput struct {
	OutputFormat       string
	CompressionQuality int
}

type TryOnOutput struct {
	RequestID     entities.TryOnRequestID
	Outcome       entities.Outcome
	Status        string
	QuotaExceeded bool
	Image         *ImageOutput
	// 空の場合はダウンロード不可
	ArtifactID entities.ArtifactID
}

type ImageOutput struct {
	Data   []byte
	Type   string
	Width  int
	Height int
}

func (o *TryOnOutput) Success() bool {
	return o.Outcome == entities.OutcomeSuccess
}

// Execute runs a single try-on. The returned error is reserved for invalid
// parameters; every other failure is described by the output's status.
func (uc *TryOnUseCase) Execute(ctx context.Context, input TryOnInput) (*TryOnOutput, error) {
	options, err := uc.convertParameters(input.Parameters)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	personImage := uc.toImageData(ctx, "person", input.PersonImageData)
	garmentImage := uc.toImageData(ctx, "garment", input.GarmentImageData)

	result := uc.domainService.Process(ctx, personImage, garmentImage, input.APIKey, options)

	output := &TryOnOutput{
		RequestID:     result.RequestID(),
		Outcome:       result.Outcome(),
		Status:        result.Message(),
		QuotaExceeded: services.IsQuotaError(result),
	}
	if !result.HasImage() {
		return output, nil
	}

	data, mimeType, err := result.Image().Encode(options.OutputFormat(), options.CompressionQuality())
	if err != nil {
		output.Outcome = entities.OutcomeProviderError
		output.Status = entities.ErrorStatus(err.Error())
		return output, nil
	}

	output.Image = &ImageOutput{
		Data:   data,
		Type:   string(mimeType),
		Width:  result.Image().Width(),
		Height: result.Image().Height(),
	}

	if uc.artifactRepo != nil {
		artifact := entities.NewArtifact(result.ID(), data, mimeType)
		if err := uc.artifactRepo.Save(ctx, artifact); err != nil {
			// ダウンロードできないだけなので、結果は返す
			slog.WarnContext(ctx, "failed to save artifact", "request_id", result.RequestID(), "size", len(data), "error", err)
		} else {
			output.ArtifactID = artifact.ID()
		}
	}

	return output, nil
}

// FindArtifact returns a stored result for download.
func (uc *TryOnUseCase) FindArtifact(ctx context.Context, id entities.ArtifactID) (*entities.Artifact, error) {
	if uc.artifactRepo == nil {
		return nil, repositories.ErrArtifactNotFound
	}
	return uc.artifactRepo.FindByID(ctx, id)
}

// toImageData returns nil for anything that is not a decodable image, so such
// uploads are reported the same way as missing ones.
func (uc *TryOnUseCase) toImageData(ctx context.Context, role string, data []byte) *valueobjects.ImageData {
	if len(data) == 0 {
		return nil
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		slog.DebugContext(ctx, "upload is not an image", "role", role, "detected", detected.String(), "size", len(data))
		return nil
	}

	img, err := valueobjects.NewImageData(data)
	if err != nil {
		slog.DebugContext(ctx, "upload could not be decoded", "role", role, "detected", detected.String(), "error", err)
		return nil
	}
	return img
}

func (uc *TryOnUseCase) convertParameters(input *TryOnParametersInput) (*valueobjects.GenerationOptions, error) {
	if input == nil {
		input = &TryOnParametersInput{}
	}

	return valueobjects.NewGenerationOptions(
		uc.config.Model,
		uc.config.MaxInputSide,
		valueobjects.OutputFormat(input.OutputFormat),
		input.CompressionQuality,
	)
}
