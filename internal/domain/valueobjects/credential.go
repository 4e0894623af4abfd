package valueobjects

import (
	"errors"
	"log/slog"
	"strings"
)

var ErrMissingCredential = errors.New("missing credential")

const redacted = "[REDACTED]"

// Credential is the caller's Gemini API key. It lives for one request and
// never prints its value through fmt or slog.
type Credential struct {
	apiKey string
}

func NewCredential(apiKey string) (Credential, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return Credential{}, ErrMissingCredential
	}
	return Credential{apiKey: apiKey}, nil
}

// Reveal returns the raw key for handing to the API client.
func (c Credential) Reveal() string {
	return c.apiKey
}

func (c Credential) IsZero() bool {
	return c.apiKey == ""
}

func (c Credential) String() string {
	if c.IsZero() {
		return ""
	}
	return redacted
}

func (c Credential) GoString() string {
	return c.String()
}

func (c Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}
