package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nanobanana-tryon/internal/domain/entities"
	"nanobanana-tryon/internal/domain/repositories"
	"nanobanana-tryon/internal/domain/valueobjects"
)

type TryOnDomainService struct {
	clientFactory repositories.GenerationClientFactory
}

func NewTryOnDomainService(clientFactory repositories.GenerationClientFactory) *TryOnDomainService {
	return &TryOnDomainService{
		clientFactory: clientFactory,
	}
}

// Process runs one try-on and always returns a result; failures are reported
// through the result's outcome and message instead of an error.
func (s *TryOnDomainService) Process(
	ctx context.Context,
	personImage *valueobjects.ImageData,
	garmentImage *valueobjects.ImageData,
	apiKey string,
	options *valueobjects.GenerationOptions,
) (result *entities.TryOnResult) {
	var requestID entities.TryOnRequestID
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "try-on panicked", "request_id", requestID, "panic", r)
			result = entities.NewFailureResult(requestID, entities.OutcomeProviderError, entities.ErrorStatus(fmt.Sprint(r)))
		}
		logOutcome(ctx, result, options)
	}()

	request, err := entities.NewTryOnRequest(personImage, garmentImage, apiKey, options)
	if err != nil {
		return entities.NewFailureResult("", entities.OutcomeValidationFailure, validationMessage(err))
	}
	requestID = request.ID()

	result, err = s.ProcessTryOn(ctx, request)
	if err != nil {
		return entities.NewFailureResult(requestID, outcomeOf(err), entities.ErrorStatus(err.Error()))
	}
	return result
}

// ProcessTryOn sends a validated request to the model. Errors are returned for
// failures before a reply arrives; a reply without a usable image is a result
// with the unparseable outcome.
func (s *TryOnDomainService) ProcessTryOn(ctx context.Context, request *entities.TryOnRequest) (*entities.TryOnResult, error) {
	if err := request.PrepareImages(); err != nil {
		return nil, &preparationError{err: fmt.Errorf("image preparation failed: %w", err)}
	}

	client, err := s.clientFactory.NewClient(ctx, request.Credential())
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	genRequest := entities.NewGenerationRequest(
		request.Options().Model(),
		request.PersonImage(),
		request.GarmentImage(),
	)

	resp, err := client.GenerateContent(ctx, genRequest)
	if err != nil {
		if s.isQuotaError(err) {
			return nil, fmt.Errorf("service temporarily unavailable due to high demand: %w", err)
		}
		return nil, fmt.Errorf("try-on generation failed: %w", err)
	}

	if resp != nil && resp.BlockReason != "" {
		slog.WarnContext(ctx, "prompt blocked", "request_id", request.ID(), "reason", resp.BlockReason)
	}

	image, message := ExtractResult(resp)
	if image == nil {
		return entities.NewFailureResult(request.ID(), entities.OutcomeUnparseableResponse, message), nil
	}
	return entities.NewSuccessResult(request.ID(), image), nil
}

func (s *TryOnDomainService) isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, repositories.ErrQuotaExceeded) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "resourceexhausted") ||
		strings.Contains(errStr, "resource_exhausted")
}

// IsQuotaError reports whether a result failed because the provider is rate limiting.
func IsQuotaError(result *entities.TryOnResult) bool {
	return result != nil &&
		result.Outcome() == entities.OutcomeProviderError &&
		strings.Contains(result.Message(), "high demand")
}

type preparationError struct {
	err error
}

func (e *preparationError) Error() string { return e.err.Error() }
func (e *preparationError) Unwrap() error { return e.err }

func outcomeOf(err error) entities.Outcome {
	var prep *preparationError
	if errors.As(err, &prep) {
		return entities.OutcomeValidationFailure
	}
	return entities.OutcomeProviderError
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, entities.ErrMissingImage):
		return entities.StatusMissingImages
	case errors.Is(err, valueobjects.ErrMissingCredential):
		return entities.StatusMissingAPIKey
	default:
		return entities.ErrorStatus(err.Error())
	}
}

func logOutcome(ctx context.Context, result *entities.TryOnResult, options *valueobjects.GenerationOptions) {
	if result == nil {
		return
	}
	model := valueobjects.DefaultModel
	if options != nil {
		model = options.Model()
	}

	attrs := []any{
		"outcome", result.Outcome(),
		"request_id", result.RequestID(),
		"model", model,
	}
	if result.HasImage() {
		attrs = append(attrs, "width", result.Image().Width(), "height", result.Image().Height())
	}

	if result.Outcome() == entities.OutcomeSuccess {
		slog.InfoContext(ctx, "try-on finished", attrs...)
	} else {
		slog.WarnContext(ctx, "try-on finished", attrs...)
	}
}
