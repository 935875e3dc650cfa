// Package handlers orchestrates the generation pipeline per incoming HTTP
// call: validate upload, select a style, normalize the image, call the
// model, record usage, respond.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"hikaya/internal/infra"
	"hikaya/internal/providers/genai"
	"hikaya/internal/styles"
	"hikaya/internal/usage"
)

// Generator is the model gateway as seen from the handlers.
type Generator interface {
	GenerateText(ctx context.Context, req genai.GenerateRequest) (string, error)
}

// App carries the per-process dependencies into each request. Everything in
// it is constructed once at startup and read-only afterwards.
type App struct {
	Logger   infra.Logger
	Catalog  *styles.Catalog
	Gateway  Generator
	Recorder usage.Recorder
}

func NewApp(logger infra.Logger, catalog *styles.Catalog, gateway Generator, recorder usage.Recorder) *App {
	if recorder == nil {
		recorder = usage.NopRecorder{}
	}
	return &App{Logger: logger, Catalog: catalog, Gateway: gateway, Recorder: recorder}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the uniform error body. Every failure the client sees is a
// single JSON object with a detail field.
func (a *App) error(w http.ResponseWriter, code int, detail string) {
	a.json(w, code, map[string]string{"detail": detail})
}

// recordUsage performs the fire-and-forget persistence write. The request's
// response is already decided by the time this runs, so failures are only
// ever logged.
func (a *App) recordUsage(filename, mode string, resultLength int) {
	rec := usage.Record{
		ID:           uuid.NewString(),
		Filename:     filename,
		Mode:         mode,
		ResultLength: resultLength,
		CreatedAt:    time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Recorder.Record(ctx, rec); err != nil {
			a.Logger.Error().Err(err).Str("mode", mode).Str("filename", filename).Msg("usage record write failed")
		}
	}()
}
