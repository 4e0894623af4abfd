package services

import (
	"net/http"
	"strconv"
	"strings"

	"nanobanana-tryon/internal/application/usecases"
)

type ParameterService struct{}

func NewParameterService() *ParameterService {
	return &ParameterService{}
}

func (s *ParameterService) ParseFromRequest(r *http.Request) *usecases.TryOnParametersInput {
	params := &usecases.TryOnParametersInput{
		OutputFormat:       s.getFormat(r, "output_format", "png"),
		CompressionQuality: s.getInt(r, "compression_quality", 75, 1, 100),
	}

	// PNG選択時はCompressionQualityを0に設定
	if params.OutputFormat != "jpeg" {
		params.CompressionQuality = 0
	}

	return params
}

// getFormat accepts both "jpeg" and "image/jpeg" spellings. Unknown values are
// passed through so that validation can reject them.
func (s *ParameterService) getFormat(r *http.Request, key, defaultValue string) string {
	value := strings.ToLower(strings.TrimSpace(r.FormValue(key)))
	value = strings.TrimPrefix(value, "image/")
	switch value {
	case "":
		return defaultValue
	case "jpg":
		return "jpeg"
	default:
		return value
	}
}

func (s *ParameterService) getInt(r *http.Request, key string, defaultValue, min, max int) int {
	value := r.FormValue(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if max > 0 && (intVal < min || intVal > max) {
		return defaultValue
	}

	if min > 0 && intVal < min {
		return defaultValue
	}

	return intVal
}
