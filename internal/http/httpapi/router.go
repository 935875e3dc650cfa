package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hikaya/internal/http/handlers"
	"hikaya/internal/infra"
	"hikaya/internal/middleware"
)

func NewRouter(app *handlers.App, logger infra.Logger, defaultLocale string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(),
		middleware.I18N(defaultLocale),
	)

	r.Get("/api", app.Root)
	r.Get("/api/health", app.Health)
	r.Get("/api/styles", app.Styles)
	r.Post("/api/generate-story", app.GenerateStory)
	r.Post("/api/generate-report", app.GenerateReport)

	return r
}
