package entities

import (
	"time"

	"github.com/google/uuid"

	"nanobanana-tryon/internal/domain/valueobjects"
)

type ArtifactID string

// Artifact is an encoded result image kept for a limited time so it can be downloaded.
type Artifact struct {
	id        ArtifactID
	resultID  TryOnResultID
	data      []byte
	mimeType  valueobjects.MimeType
	createdAt time.Time
}

func NewArtifact(resultID TryOnResultID, data []byte, mimeType valueobjects.MimeType) *Artifact {
	return &Artifact{
		id:        ArtifactID(uuid.NewString()),
		resultID:  resultID,
		data:      data,
		mimeType:  mimeType,
		createdAt: time.Now(),
	}
}

func (a *Artifact) ID() ArtifactID {
	return a.id
}

func (a *Artifact) ResultID() TryOnResultID {
	return a.resultID
}

func (a *Artifact) Data() []byte {
	return a.data
}

func (a *Artifact) MimeType() valueobjects.MimeType {
	return a.mimeType
}

func (a *Artifact) Size() int {
	return len(a.data)
}

func (a *Artifact) CreatedAt() time.Time {
	return a.createdAt
}

// Filename is the name offered to the browser on download.
func (a *Artifact) Filename() string {
	ext := ".png"
	if a.mimeType == valueobjects.MimeTypeJPEG {
		ext = ".jpg"
	}
	return "tryon-" + string(a.id) + ext
}
