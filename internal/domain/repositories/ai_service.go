package repositories

import (
	"context"
	"errors"

	"nanobanana-tryon/internal/domain/entities"
)

// ErrQuotaExceeded is wrapped by clients when the provider rejects a call for rate or quota reasons.
var ErrQuotaExceeded = errors.New("quota exceeded")

// 画像生成モデルへの1回分の呼び出し
type GenerationClient interface {
	GenerateContent(ctx context.Context, request *entities.GenerationRequest) (*entities.GenerationResponse, error)
}
