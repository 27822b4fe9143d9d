// Package handler provides HTTP request handlers.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/goccy/go-json"

	"github.com/osustats/osustats/internal/metrics"
	"github.com/osustats/osustats/internal/model"
	"github.com/osustats/osustats/internal/service"
)

// Response bodies.
const (
	WelcomeMessage   = "Welcome to the osu! stats generator!"
	GeneratedMessage = "Image generated successfully"
)

// Generator runs the stats pipeline.
type Generator interface {
	Generate(ctx context.Context) (*service.Result, error)
	Status(ctx context.Context) (model.Status, error)
}

// Handler wraps application dependencies for HTTP handlers.
type Handler struct {
	generator Generator
	imagePath string
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// New creates a new Handler instance.
func New(generator Generator, imagePath string, recorder metrics.Recorder, logger *slog.Logger) *Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		generator: generator,
		imagePath: imagePath,
		metrics:   recorder,
		logger:    logger,
	}
}

// Home returns the welcome text.
// GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, WelcomeMessage)
}

// Generate runs the pipeline inside the request.
// Upstream failures map to 502, everything else to 500.
// GET /generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.generator.Generate(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if service.IsUpstreamError(err) {
			status = http.StatusBadGateway
		}
		writeText(w, status, err.Error())
		return
	}
	writeText(w, http.StatusOK, GeneratedMessage)
}

// Image streams the last generated image.
// GET /stats_image.png
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(h.imagePath)
	if err != nil {
		h.imageError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.imageError(w, err)
		return
	}
	if info.IsDir() {
		h.imageError(w, errors.New(h.imagePath+" is a directory"))
		return
	}

	h.metrics.IncImageServed(metrics.OutcomeSuccess)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (h *Handler) imageError(w http.ResponseWriter, err error) {
	h.metrics.IncImageServed(metrics.OutcomeFailed)
	h.logger.Warn("stats image unavailable", slog.String("error", err.Error()))
	writeText(w, http.StatusInternalServerError, err.Error())
}

// Status returns the last recorded runs.
// GET /status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.generator.Status(r.Context())
	if err != nil {
		h.logger.Error("failed to read run status", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "run status unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "resource not found",
	}
	writeJSON(w, http.StatusNotFound, response)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "method not allowed",
	}
	writeJSON(w, http.StatusMethodNotAllowed, response)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
