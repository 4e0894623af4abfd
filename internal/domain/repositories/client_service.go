package repositories

import (
	"context"
	"time"

	"nanobanana-tryon/internal/domain/valueobjects"
)

// AIクライアント共通設定
type AIClientConfig struct {
	// Vertex AI (express mode) を使う場合はtrue
	UseVertex bool
	BaseURL   string
	// 0の場合はSDKのデフォルト
	Timeout time.Duration
}

// GenerationClientFactory builds a client for a single call. APIキーはリクエストごとに
// 渡されるので、クライアントはプールせず毎回作る。
type GenerationClientFactory interface {
	NewClient(ctx context.Context, credential valueobjects.Credential) (GenerationClient, error)
}
