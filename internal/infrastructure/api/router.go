package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the try-on routes and middleware.
func NewRouter(handler *TryOnHandler, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := mux.NewRouter()
	r.Use(RequestID, RequestLogger(logger), Recoverer(logger))

	r.HandleFunc("/", handler.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/tryon", handler.HandleTryOn).Methods(http.MethodPost)
	r.HandleFunc("/results/{id}", handler.HandleResult).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handler.HandleHealth).Methods(http.MethodGet)

	return r
}
