package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nanobanana-tryon/internal/domain/valueobjects"
)

var ErrMissingImage = errors.New("both person and garment images are required")

type TryOnRequestID string

type TryOnRequest struct {
	id           TryOnRequestID
	personImage  *valueobjects.ImageData
	garmentImage *valueobjects.ImageData
	credential   valueobjects.Credential
	options      *valueobjects.GenerationOptions
	createdAt    time.Time
}

// NewTryOnRequest は画像→APIキーの順で検証する
func NewTryOnRequest(
	personImage *valueobjects.ImageData,
	garmentImage *valueobjects.ImageData,
	apiKey string,
	options *valueobjects.GenerationOptions,
) (*TryOnRequest, error) {
	if personImage == nil || garmentImage == nil {
		return nil, ErrMissingImage
	}

	credential, err := valueobjects.NewCredential(apiKey)
	if err != nil {
		return nil, err
	}

	if options == nil {
		options = valueobjects.DefaultGenerationOptions()
	}

	return &TryOnRequest{
		id:           TryOnRequestID(uuid.NewString()),
		personImage:  personImage,
		garmentImage: garmentImage,
		credential:   credential,
		options:      options,
		createdAt:    time.Now(),
	}, nil
}

func (r *TryOnRequest) ID() TryOnRequestID {
	return r.id
}

func (r *TryOnRequest) PersonImage() *valueobjects.ImageData {
	return r.personImage
}

func (r *TryOnRequest) GarmentImage() *valueobjects.ImageData {
	return r.garmentImage
}

func (r *TryOnRequest) Credential() valueobjects.Credential {
	return r.credential
}

func (r *TryOnRequest) Options() *valueobjects.GenerationOptions {
	return r.options
}

func (r *TryOnRequest) CreatedAt() time.Time {
	return r.createdAt
}

// PrepareImages downscales both images to the configured bound and re-encodes
// them as PNG, the only format sent to the model.
func (r *TryOnRequest) PrepareImages() error {
	var err error

	r.personImage, err = prepareImage(r.personImage, r.options.MaxInputSide())
	if err != nil {
		return fmt.Errorf("failed to prepare person image: %w", err)
	}

	r.garmentImage, err = prepareImage(r.garmentImage, r.options.MaxInputSide())
	if err != nil {
		return fmt.Errorf("failed to prepare garment image: %w", err)
	}

	return nil
}

func prepareImage(img *valueobjects.ImageData, maxSide int) (*valueobjects.ImageData, error) {
	fitted, err := img.Fit(maxSide)
	if err != nil {
		return nil, err
	}
	return fitted.ToPNG()
}
