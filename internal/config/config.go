package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort             = "8080"
	DefaultModel            = "gemini-2.5-flash-image-preview"
	DefaultMaxUploadBytes   = 20 << 20
	DefaultResultTTL        = 30 * time.Minute
	DefaultResultCacheBytes = 256 << 20
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "auto"

	// ConfigPathEnv names the environment variable holding the TOML file path.
	ConfigPathEnv = "TRYON_CONFIG"
)

// Config holds application configuration loaded from environment and file.
// Priority: CLI flags → Env vars → config.toml → defaults
//
// The Gemini API key is deliberately absent: it is supplied with each request.
type Config struct {
	Port    string
	Model   string
	BaseURL string
	// Vertex AI express mode
	UseVertex bool
	// 0 = SDKのデフォルト（タイムアウトなし）
	GenerateTimeout  time.Duration
	MaxUploadBytes   int64
	MaxInputSide     int
	ResultTTL        time.Duration
	ResultCacheBytes int64
	LogLevel         string
	LogFormat        string

	// 読み込んだ設定ファイル。無い場合は空
	Path string
}

// Load reads the TOML file at path (or $TRYON_CONFIG when path is empty) and
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	fileConfig, loaded, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	var errs []error
	cfg := &Config{
		Port:             getEnvOrFile("PORT", fileConfig.Port, DefaultPort),
		Model:            getEnvOrFile("GEMINI_MODEL", fileConfig.Model, DefaultModel),
		BaseURL:          getEnvOrFile("GEMINI_BASE_URL", fileConfig.BaseURL, ""),
		UseVertex:        getEnvBoolOrFile("USE_VERTEX", fileConfig.UseVertex, false),
		GenerateTimeout:  getEnvDurationOrFile("GENERATE_TIMEOUT", fileConfig.GenerateTimeout, 0, &errs),
		MaxUploadBytes:   getEnvInt64OrFile("MAX_UPLOAD_BYTES", fileConfig.MaxUploadBytes, DefaultMaxUploadBytes, &errs),
		MaxInputSide:     int(getEnvInt64OrFile("MAX_INPUT_SIDE", fileConfig.MaxInputSide, 0, &errs)),
		ResultTTL:        getEnvDurationOrFile("RESULT_TTL", fileConfig.ResultTTL, DefaultResultTTL, &errs),
		ResultCacheBytes: getEnvInt64OrFile("RESULT_CACHE_BYTES", fileConfig.ResultCacheBytes, DefaultResultCacheBytes, &errs),
		LogLevel:         getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, DefaultLogLevel),
		LogFormat:        getEnvOrFile("LOG_FORMAT", fileConfig.LogFormat, DefaultLogFormat),
	}
	if loaded {
		cfg.Path = path
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return cfg, nil
}

// Validate checks the final configuration after flags are applied.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}
	if strings.TrimSpace(c.Model) == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	if c.GenerateTimeout < 0 {
		errs = append(errs, fmt.Errorf("generate_timeout must not be negative, got %s", c.GenerateTimeout))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.MaxInputSide < 0 || c.MaxInputSide > 8192 {
		errs = append(errs, fmt.Errorf("max_input_side must be between 0 and 8192, got %d", c.MaxInputSide))
	}
	if c.ResultTTL <= 0 {
		errs = append(errs, fmt.Errorf("result_ttl must be positive, got %s", c.ResultTTL))
	}
	if c.ResultCacheBytes <= 0 {
		errs = append(errs, fmt.Errorf("result_cache_bytes must be positive, got %d", c.ResultCacheBytes))
	}
	switch strings.ToLower(c.LogFormat) {
	case "auto", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be auto, text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

func getEnvInt64OrFile(key string, fileValue *int64, defaultValue int64, errs *[]error) int64 {
	if value := os.Getenv(key); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return defaultValue
		}
		return n
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

func getEnvDurationOrFile(key, fileValue string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		value = fileValue
	}
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}
