package entities

import (
	"time"

	"github.com/google/uuid"

	"nanobanana-tryon/internal/domain/valueobjects"
)

type TryOnResultID string

// TryOnResult is the single terminal outcome of a try-on: an image with the
// success status, or no image and a diagnostic message.
type TryOnResult struct {
	id        TryOnResultID
	requestID TryOnRequestID
	image     *valueobjects.ResultImage
	outcome   Outcome
	message   string
	createdAt time.Time
}

func NewSuccessResult(requestID TryOnRequestID, image *valueobjects.ResultImage) *TryOnResult {
	return newTryOnResult(requestID, image, OutcomeSuccess, StatusSuccess)
}

func NewFailureResult(requestID TryOnRequestID, outcome Outcome, message string) *TryOnResult {
	return newTryOnResult(requestID, nil, outcome, message)
}

func newTryOnResult(requestID TryOnRequestID, image *valueobjects.ResultImage, outcome Outcome, message string) *TryOnResult {
	return &TryOnResult{
		id:        TryOnResultID(uuid.NewString()),
		requestID: requestID,
		image:     image,
		outcome:   outcome,
		message:   message,
		createdAt: time.Now(),
	}
}

func (r *TryOnResult) ID() TryOnResultID {
	return r.id
}

func (r *TryOnResult) RequestID() TryOnRequestID {
	return r.requestID
}

func (r *TryOnResult) Image() *valueobjects.ResultImage {
	return r.image
}

func (r *TryOnResult) Outcome() Outcome {
	return r.outcome
}

func (r *TryOnResult) Message() string {
	return r.message
}

func (r *TryOnResult) CreatedAt() time.Time {
	return r.createdAt
}

func (r *TryOnResult) HasImage() bool {
	return r.image != nil
}
