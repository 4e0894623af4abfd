package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"nanobanana-tryon/internal/application/services"
	"nanobanana-tryon/internal/application/usecases"
	"nanobanana-tryon/internal/domain/entities"
	"nanobanana-tryon/internal/domain/repositories"
	"nanobanana-tryon/model"
)

const DefaultMaxUploadBytes = 20 << 20 // 20MB

type TryOnHandler struct {
	tryOnUseCase     *usecases.TryOnUseCase
	parameterService *services.ParameterService
	maxUploadBytes   int64
}

func NewTryOnHandler(
	tryOnUseCase *usecases.TryOnUseCase,
	parameterService *services.ParameterService,
	maxUploadBytes int64,
) *TryOnHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}

	return &TryOnHandler{
		tryOnUseCase:     tryOnUseCase,
		parameterService: parameterService,
		maxUploadBytes:   maxUploadBytes,
	}
}

func (h *TryOnHandler) HandleTryOn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		if isTooLarge(err) {
			h.sendError(w, "Error: images are too large (limit "+strconv.FormatInt(h.maxUploadBytes>>20, 10)+"MB)", http.StatusRequestEntityTooLarge)
			return
		}
		h.sendError(w, "Error: failed to parse form data", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	// 未選択の場合はnilのまま渡し、検証はドメイン側に任せる
	personData, err := readFormFile(r, "person_image")
	if err != nil {
		h.sendError(w, "Error: failed to read person image", http.StatusBadRequest)
		return
	}
	garmentData, err := readFormFile(r, "garment_image")
	if err != nil {
		h.sendError(w, "Error: failed to read garment image", http.StatusBadRequest)
		return
	}

	input := usecases.TryOnInput{
		PersonImageData:  personData,
		GarmentImageData: garmentData,
		APIKey:           r.FormValue("api_key"),
		Parameters:       h.parameterService.ParseFromRequest(r),
	}

	output, err := h.tryOnUseCase.Execute(r.Context(), input)
	if err != nil {
		slog.WarnContext(r.Context(), "invalid try-on parameters", "error", err)
		h.sendError(w, entities.ErrorStatus(err.Error()), http.StatusBadRequest)
		return
	}

	h.sendJSON(w, h.createResponse(output), statusCodeFor(output))
}

func (h *TryOnHandler) createResponse(output *usecases.TryOnOutput) *model.TryOnResponse {
	response := &model.TryOnResponse{
		Success:   output.Success(),
		Status:    output.Status,
		Outcome:   string(output.Outcome),
		RequestID: string(output.RequestID),
	}

	if output.Image != nil {
		response.Image = model.NewImagePayload(output.Image.Data, output.Image.Type, output.Image.Width, output.Image.Height)
	}
	if output.ArtifactID != "" {
		response.DownloadURL = "/results/" + string(output.ArtifactID)
	}

	return response
}

func statusCodeFor(output *usecases.TryOnOutput) int {
	switch output.Outcome {
	case entities.OutcomeSuccess:
		return http.StatusOK
	case entities.OutcomeValidationFailure:
		return http.StatusBadRequest
	case entities.OutcomeUnparseableResponse:
		return http.StatusUnprocessableEntity
	default:
		if output.QuotaExceeded {
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	}
}

func (h *TryOnHandler) HandleResult(w http.ResponseWriter, r *http.Request) {
	id := entities.ArtifactID(mux.Vars(r)["id"])

	artifact, err := h.tryOnUseCase.FindArtifact(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrArtifactNotFound) {
			h.sendError(w, "result not found or expired", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "failed to load artifact", "error", err)
		h.sendError(w, "failed to load result", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", string(artifact.MimeType()))
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(artifact.Size()))
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Write(artifact.Data())
}

func (h *TryOnHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *TryOnHandler) sendJSON(w http.ResponseWriter, body any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *TryOnHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, map[string]any{
		"success": false,
		"status":  message,
		"error":   message,
	}, statusCode)
}

// readFormFile returns nil without error when the field is absent.
func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}
