package services

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"nanobanana-tryon/internal/domain/repositories"
	"nanobanana-tryon/internal/domain/valueobjects"
	"nanobanana-tryon/internal/infrastructure/external"
)

// ClientFactoryService creates a GenAI client per call. The API key comes with
// each request, so clients are not pooled; the HTTP transport is shared.
type ClientFactoryService struct {
	config     *repositories.AIClientConfig
	httpClient *http.Client
}

func NewClientFactoryService(config *repositories.AIClientConfig, httpClient *http.Client) repositories.GenerationClientFactory {
	if config == nil {
		config = &repositories.AIClientConfig{}
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &ClientFactoryService{
		config:     config,
		httpClient: httpClient,
	}
}

func (s *ClientFactoryService) NewClient(ctx context.Context, credential valueobjects.Credential) (repositories.GenerationClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     credential.Reveal(),
		Backend:    s.backend(),
		HTTPClient: s.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: s.config.BaseURL,
		},
	}
	if s.config.Timeout > 0 {
		timeout := s.config.Timeout
		cc.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		// SDKのエラーメッセージには設定（APIキーを含む）がそのまま出るので、原因は返さない
		return nil, fmt.Errorf("failed to create GenAI client for %s backend", s.backend())
	}

	return external.NewNanobananaAIService(client), nil
}

func (s *ClientFactoryService) Config() *repositories.AIClientConfig {
	return s.config
}

func (s *ClientFactoryService) backend() genai.Backend {
	if s.config.UseVertex {
		return genai.BackendVertexAI
	}
	return genai.BackendGeminiAPI
}
