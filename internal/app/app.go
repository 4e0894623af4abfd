package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"nanobanana-tryon/internal/application/services"
	"nanobanana-tryon/internal/application/usecases"
	"nanobanana-tryon/internal/config"
	domainrepos "nanobanana-tryon/internal/domain/repositories"
	domainservices "nanobanana-tryon/internal/domain/services"
	"nanobanana-tryon/internal/infrastructure/api"
	"nanobanana-tryon/internal/infrastructure/repositories"
	infraservices "nanobanana-tryon/internal/infrastructure/services"
)

// App holds the wired layers of the try-on service.
type App struct {
	UseCase      *usecases.TryOnUseCase
	Handler      http.Handler
	artifactRepo *repositories.CacheArtifactRepository
}

// New wires infrastructure, domain, application and API layers from cfg.
// httpClient may be nil to use the SDK default.
func New(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Initialize infrastructure layer
	clientFactory := infraservices.NewClientFactoryService(&domainrepos.AIClientConfig{
		UseVertex: cfg.UseVertex,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.GenerateTimeout,
	}, httpClient)

	artifactRepo, err := repositories.NewCacheArtifactRepository(cfg.ResultCacheBytes, cfg.ResultTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact store: %w", err)
	}

	// Initialize domain layer
	tryOnDomainService := domainservices.NewTryOnDomainService(clientFactory)

	// Initialize application layer
	tryOnUseCase := usecases.NewTryOnUseCase(artifactRepo, tryOnDomainService, usecases.TryOnConfig{
		Model:        cfg.Model,
		MaxInputSide: cfg.MaxInputSide,
	})
	parameterService := services.NewParameterService()

	// Initialize API layer
	handler := api.NewTryOnHandler(tryOnUseCase, parameterService, cfg.MaxUploadBytes)

	return &App{
		UseCase:      tryOnUseCase,
		Handler:      api.NewRouter(handler, logger),
		artifactRepo: artifactRepo,
	}, nil
}

func (a *App) Close() {
	a.artifactRepo.Close()
}
