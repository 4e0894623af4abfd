package repositories

import (
	"context"
	"errors"

	"nanobanana-tryon/internal/domain/entities"
)

var ErrArtifactNotFound = errors.New("artifact not found")

type ArtifactRepository interface {
	Save(ctx context.Context, artifact *entities.Artifact) error
	FindByID(ctx context.Context, id entities.ArtifactID) (*entities.Artifact, error)
	Close()
}
