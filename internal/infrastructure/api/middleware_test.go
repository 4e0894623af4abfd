package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nanobanana-tryon/internal/logging"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name       string
		existingID string
		wantSame   bool
	}{
		{name: "generates new ID when none provided", existingID: "", wantSame: false},
		{name: "uses existing ID from header", existingID: "existing-request-id", wantSame: true},
		{name: "replaces oversized ID", existingID: strings.Repeat("x", 200), wantSame: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedID string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedID = logging.RequestIDFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingID != "" {
				req.Header.Set(RequestIDHeader, tt.existingID)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			respID := rec.Header().Get(RequestIDHeader)
			if respID == "" {
				t.Error("expected X-Request-ID in response header")
			}
			if capturedID != respID {
				t.Errorf("context ID %q != header ID %q", capturedID, respID)
			}
			if tt.wantSame && respID != tt.existingID {
				t.Errorf("expected ID to be passed through, got %q", respID)
			}
			if !tt.wantSame && respID == tt.existingID {
				t.Errorf("expected a generated ID")
			}
		})
	}
}

func TestRequestLogger_NeverLogsFormValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "info", "json")
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}

	handler := RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/tryon", strings.NewReader("api_key=super-secret"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if strings.Contains(buf.String(), "super-secret") {
		t.Fatalf("log leaked form value: %s", buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log is not JSON: %v", err)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("status = %v", entry["status"])
	}
	if entry["bytes"] != float64(5) {
		t.Errorf("bytes = %v", entry["bytes"])
	}
	if entry["http_request_id"] == nil {
		t.Errorf("expected http_request_id in log entry")
	}
}

func TestRecoverer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
