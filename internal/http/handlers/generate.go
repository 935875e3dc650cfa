package handlers

import (
	"errors"
	"io"
	"net/http"

	"hikaya/internal/domain"
	"hikaya/internal/imaging"
	"hikaya/internal/middleware"
	"hikaya/internal/prompt"
	"hikaya/internal/providers/genai"
)

// maxUploadBytes bounds the multipart form kept in memory per request.
const maxUploadBytes = 20 << 20

// GenerateStory handles POST /api/generate-story: multipart upload in,
// Arabic short story out.
func (a *App) GenerateStory(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())

	data, filename, ok := a.readUpload(w, r, locale)
	if !ok {
		return
	}

	style := a.Catalog.Default()
	if id := r.FormValue("selected_style_id"); id != "" {
		var err error
		style, err = a.Catalog.Lookup(id)
		if err != nil {
			a.error(w, http.StatusBadRequest, detail("style_not_found", locale))
			return
		}
	}

	img, ok := a.normalizeUpload(w, data, locale)
	if !ok {
		return
	}

	text, ok := a.generate(w, r, prompt.ComposeStory(style), img, locale)
	if !ok {
		return
	}

	a.recordUsage(filename, "story", len(text))
	a.json(w, http.StatusOK, map[string]string{"story": text})
}

// GenerateReport handles POST /api/generate-report: same pipeline with the
// fixed clinical instruction and no style selection.
func (a *App) GenerateReport(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())

	data, filename, ok := a.readUpload(w, r, locale)
	if !ok {
		return
	}

	img, ok := a.normalizeUpload(w, data, locale)
	if !ok {
		return
	}

	text, ok := a.generate(w, r, prompt.ComposeReport(), img, locale)
	if !ok {
		return
	}

	a.recordUsage(filename, "report", len(text))
	a.json(w, http.StatusOK, map[string]string{"report": text})
}

// readUpload pulls the file part out of the multipart form. A missing part is
// a request-shape failure (422); everything after that point is pipeline
// validation.
func (a *App) readUpload(w http.ResponseWriter, r *http.Request, locale string) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusUnprocessableEntity, detail("missing_file", locale))
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusUnprocessableEntity, detail("missing_file", locale))
		return nil, "", false
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, detail("invalid_image", locale))
		return nil, "", false
	}
	if len(data) == 0 {
		a.error(w, http.StatusBadRequest, detail("empty_file", locale))
		return nil, "", false
	}
	return data, header.Filename, true
}

func (a *App) normalizeUpload(w http.ResponseWriter, data []byte, locale string) (*imaging.Normalized, bool) {
	img, err := imaging.Normalize(data)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("image normalization failed")
		key := "invalid_image"
		if errors.Is(err, domain.ErrEmptyInput) {
			key = "empty_file"
		}
		a.error(w, http.StatusBadRequest, detail(key, locale))
		return nil, false
	}
	return img, true
}

// generate calls the model gateway and maps its classified failures onto
// HTTP status codes: client-caused conditions become 400, provider and
// infrastructure conditions become 500.
func (a *App) generate(w http.ResponseWriter, r *http.Request, instruction string, img *imaging.Normalized, locale string) (string, bool) {
	text, err := a.Gateway.GenerateText(r.Context(), genai.GenerateRequest{
		Instruction: instruction,
		ImageData:   img.Data,
		ImageMIME:   img.MIME(),
	})
	if err == nil {
		return text, true
	}

	a.Logger.Error().Err(err).Msg("generation failed")
	switch {
	case errors.Is(err, domain.ErrContentBlocked):
		a.error(w, http.StatusBadRequest, detail("content_blocked", locale))
	case errors.Is(err, domain.ErrEmptyModelResult):
		a.error(w, http.StatusBadRequest, detail("empty_result", locale))
	default:
		a.error(w, http.StatusInternalServerError, detail("generation_failed", locale))
	}
	return "", false
}
