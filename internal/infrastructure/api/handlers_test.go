package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appservices "nanobanana-tryon/internal/application/services"
	"nanobanana-tryon/internal/application/usecases"
	domainrepos "nanobanana-tryon/internal/domain/repositories"
	domainservices "nanobanana-tryon/internal/domain/services"
	"nanobanana-tryon/internal/infrastructure/repositories"
	infraservices "nanobanana-tryon/internal/infrastructure/services"
	"nanobanana-tryon/model"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type geminiReply struct {
	status int
	body   any
}

// newTestServer wires the real stack against a fake Gemini endpoint.
func newTestServer(t *testing.T, reply geminiReply, maxUpload int64) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.status)
		_ = json.NewEncoder(w).Encode(reply.body)
	}))
	t.Cleanup(gemini.Close)

	factory := infraservices.NewClientFactoryService(&domainrepos.AIClientConfig{BaseURL: gemini.URL + "/"}, gemini.Client())
	artifactRepo, err := repositories.NewCacheArtifactRepository(1<<20, time.Minute)
	require.NoError(t, err)
	t.Cleanup(artifactRepo.Close)

	useCase := usecases.NewTryOnUseCase(artifactRepo, domainservices.NewTryOnDomainService(factory), usecases.TryOnConfig{})
	handler := NewTryOnHandler(useCase, appservices.NewParameterService(), maxUpload)

	srv := httptest.NewServer(NewRouter(handler, nil))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func imageReply(t *testing.T, w, h int) geminiReply {
	return geminiReply{status: http.StatusOK, body: map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"role": "model", "parts": []any{
				map[string]any{"inlineData": map[string]any{
					"mimeType": "image/png",
					"data":     base64.StdEncoding.EncodeToString(testPNG(t, w, h)),
				}},
			}},
		}},
	}}
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile(name, name+".png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postTryOn(t *testing.T, srv *httptest.Server, fields map[string]string, files map[string][]byte) (*http.Response, model.TryOnResponse) {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	resp, err := http.Post(srv.URL+"/tryon", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded model.TryOnResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHandleTryOn_Success(t *testing.T) {
	srv, calls := newTestServer(t, imageReply(t, 12, 8), 0)

	resp, body := postTryOn(t, srv,
		map[string]string{"api_key": "test-key"},
		map[string][]byte{"person_image": testPNG(t, 4, 4), "garment_image": testPNG(t, 4, 4)},
	)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	require.True(t, body.Success)
	require.Equal(t, "Virtual try-on completed successfully!", body.Status)
	require.Equal(t, "success", body.Outcome)
	require.Equal(t, int32(1), calls.Load())

	require.NotNil(t, body.Image)
	require.Equal(t, "image/png", body.Image.Type)
	require.Equal(t, 12, body.Image.Width)
	require.Equal(t, 8, body.Image.Height)

	require.True(t, strings.HasPrefix(body.DownloadURL, "/results/"))
	download, err := http.Get(srv.URL + body.DownloadURL)
	require.NoError(t, err)
	defer download.Body.Close()
	require.Equal(t, http.StatusOK, download.StatusCode)
	require.Contains(t, download.Header.Get("Content-Disposition"), "attachment")
	require.Equal(t, "image/png", download.Header.Get("Content-Type"))

	data, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	inline, err := body.Image.Bytes()
	require.NoError(t, err)
	require.Equal(t, inline, data)
}

func TestHandleTryOn_JPEGOutput(t *testing.T) {
	srv, _ := newTestServer(t, imageReply(t, 6, 6), 0)

	resp, body := postTryOn(t, srv,
		map[string]string{"api_key": "k", "output_format": "jpeg", "compression_quality": "80"},
		map[string][]byte{"person_image": testPNG(t, 4, 4), "garment_image": testPNG(t, 4, 4)},
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/jpeg", body.Image.Type)
}

func TestHandleTryOn_Validation(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		files  map[string][]byte
		want   string
	}{
		{
			name:   "missing garment",
			fields: map[string]string{"api_key": "k"},
			files:  map[string][]byte{"person_image": nil},
			want:   "Please upload both images.",
		},
		{
			name:   "not an image",
			fields: map[string]string{"api_key": "k"},
			files:  map[string][]byte{"person_image": []byte("hello"), "garment_image": []byte("world")},
			want:   "Please upload both images.",
		},
		{
			name:   "missing key",
			fields: map[string]string{"api_key": "   "},
			files:  map[string][]byte{"person_image": testPNG(t, 2, 2), "garment_image": testPNG(t, 2, 2)},
			want:   "Please enter your Gemini API key.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newTestServer(t, imageReply(t, 2, 2), 0)

			resp, body := postTryOn(t, srv, tt.fields, tt.files)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.False(t, body.Success)
			require.Equal(t, tt.want, body.Status)
			require.Equal(t, "validation_failure", body.Outcome)
			require.Nil(t, body.Image)
			require.Zero(t, calls.Load())
		})
	}
}

func TestHandleTryOn_TextOnlyReply(t *testing.T) {
	srv, _ := newTestServer(t, geminiReply{status: http.StatusOK, body: map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"role": "model", "parts": []any{
				map[string]any{"text": "I can't help with that image."},
			}},
		}},
	}}, 0)

	resp, body := postTryOn(t, srv,
		map[string]string{"api_key": "k"},
		map[string][]byte{"person_image": testPNG(t, 2, 2), "garment_image": testPNG(t, 2, 2)},
	)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "API Response: I can't help with that image.", body.Status)
	require.Equal(t, "unparseable_response", body.Outcome)
}

func TestHandleTryOn_NoCandidates(t *testing.T) {
	srv, _ := newTestServer(t, geminiReply{status: http.StatusOK, body: map[string]any{"candidates": []any{}}}, 0)

	_, body := postTryOn(t, srv,
		map[string]string{"api_key": "k"},
		map[string][]byte{"person_image": testPNG(t, 2, 2), "garment_image": testPNG(t, 2, 2)},
	)
	require.Equal(t, "Failed to generate try-on result. Please try again with different images.", body.Status)
}

func TestHandleTryOn_ProviderErrors(t *testing.T) {
	t.Run("quota", func(t *testing.T) {
		srv, _ := newTestServer(t, geminiReply{status: http.StatusTooManyRequests, body: map[string]any{
			"error": map[string]any{"code": 429, "message": "Resource has been exhausted", "status": "RESOURCE_EXHAUSTED"},
		}}, 0)

		resp, body := postTryOn(t, srv,
			map[string]string{"api_key": "secret-key"},
			map[string][]byte{"person_image": testPNG(t, 2, 2), "garment_image": testPNG(t, 2, 2)},
		)
		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		require.True(t, strings.HasPrefix(body.Status, "Error: "))
		require.NotContains(t, body.Status, "secret-key")
	})

	t.Run("invalid key", func(t *testing.T) {
		srv, _ := newTestServer(t, geminiReply{status: http.StatusBadRequest, body: map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid.", "status": "INVALID_ARGUMENT"},
		}}, 0)

		resp, body := postTryOn(t, srv,
			map[string]string{"api_key": "bad"},
			map[string][]byte{"person_image": testPNG(t, 2, 2), "garment_image": testPNG(t, 2, 2)},
		)
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)
		require.Equal(t, "provider_error", body.Outcome)
		require.Contains(t, body.Status, "API key not valid.")
	})
}

func TestHandleTryOn_InvalidParameters(t *testing.T) {
	srv, calls := newTestServer(t, imageReply(t, 2, 2), 0)

	resp, body := postTryOn(t, srv,
		map[string]string{"api_key": "k", "output_format": "tiff"},
		map[string][]byte{"person_image": testPNG(t, 2, 2), "garment_image": testPNG(t, 2, 2)},
	)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.False(t, body.Success)
	require.Zero(t, calls.Load())
}

func TestHandleTryOn_TooLarge(t *testing.T) {
	srv, calls := newTestServer(t, imageReply(t, 2, 2), 1024)

	body, contentType := multipartBody(t,
		map[string]string{"api_key": "k"},
		map[string][]byte{"person_image": make([]byte, 4096), "garment_image": testPNG(t, 2, 2)},
	)
	resp, err := http.Post(srv.URL+"/tryon", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	require.Zero(t, calls.Load())
}

func TestHandleResult_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, imageReply(t, 2, 2), 0)

	resp, err := http.Get(srv.URL + "/results/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleIndexAndHealth(t *testing.T) {
	srv, _ := newTestServer(t, imageReply(t, 2, 2), 0)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(page), `name="person_image"`)
	require.Contains(t, string(page), `name="garment_image"`)
	require.Contains(t, string(page), `type="password"`)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	ok, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, "ok", string(ok))
}
