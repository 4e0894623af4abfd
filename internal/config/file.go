package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	Port             string `toml:"port"`
	Model            string `toml:"model"`
	BaseURL          string `toml:"base_url"`
	UseVertex        *bool  `toml:"use_vertex"`
	GenerateTimeout  string `toml:"generate_timeout"`
	MaxUploadBytes   *int64 `toml:"max_upload_bytes"`
	MaxInputSide     *int64 `toml:"max_input_side"`
	ResultTTL        string `toml:"result_ttl"`
	ResultCacheBytes *int64 `toml:"result_cache_bytes"`
	LogLevel         string `toml:"log_level"`
	LogFormat        string `toml:"log_format"`
}

// LoadFile loads configuration from the TOML file at path.
// Returns an empty FileConfig if path is empty or the file doesn't exist.
func LoadFile(path string) (*FileConfig, bool, error) {
	cfg := &FileConfig{}
	if path == "" {
		return cfg, false, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, false, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, false, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, false, &UnknownKeysError{Keys: undecoded}
	}

	return cfg, true, nil
}

// UnknownKeysError reports keys in the config file that map to no setting.
type UnknownKeysError struct {
	Keys []toml.Key
}

func (e *UnknownKeysError) Error() string {
	s := "unknown config keys:"
	for _, k := range e.Keys {
		s += " " + k.String()
	}
	return s
}

// SampleConfig is written by `server init-config`.
const SampleConfig = `# nanobanana-tryon configuration
# The Gemini API key is never read from this file; users enter it per request.
# port = "8080"
# model = "gemini-2.5-flash-image-preview"
# base_url = ""
# use_vertex = false
# generate_timeout = "0s"
# max_upload_bytes = 20971520
# max_input_side = 0
# result_ttl = "30m"
# result_cache_bytes = 268435456
# log_level = "info"
# log_format = "auto"
`

// WriteSample creates a commented sample file at path unless one already exists.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.ErrExist
	}
	return os.WriteFile(path, []byte(SampleConfig), 0644)
}
