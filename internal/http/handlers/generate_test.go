package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hikaya/internal/domain"
	"hikaya/internal/providers/genai"
	"hikaya/internal/styles"
	"hikaya/internal/usage"
)

type stubGateway struct {
	calls int32
	text  string
	err   error
}

func (s *stubGateway) GenerateText(ctx context.Context, req genai.GenerateRequest) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type channelRecorder struct {
	records chan usage.Record
}

func (c *channelRecorder) Record(ctx context.Context, rec usage.Record) error {
	c.records <- rec
	return nil
}

func newTestApp(gateway Generator, recorder usage.Recorder) *App {
	return NewApp(zerolog.Nop(), styles.NewCatalog(), gateway, recorder)
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func postStory(app *App, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate-story", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	app.GenerateStory(rr, req)
	return rr
}

func decodeDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return body["detail"]
}

func TestGenerateStorySuccess(t *testing.T) {
	gateway := &stubGateway{text: "كان يا ما كان"}
	recorder := &channelRecorder{records: make(chan usage.Record, 1)}
	app := newTestApp(gateway, recorder)

	body, contentType := multipartUpload(t, "sunset.jpg", testJPEG(t), nil)
	rr := postStory(app, body, contentType)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp["story"] != "كان يا ما كان" {
		t.Fatalf("story = %q, want the gateway text unchanged", resp["story"])
	}

	select {
	case rec := <-recorder.records:
		if rec.Filename != "sunset.jpg" || rec.Mode != "story" {
			t.Fatalf("unexpected usage record: %+v", rec)
		}
		if rec.ResultLength != len("كان يا ما كان") {
			t.Fatalf("ResultLength = %d, want %d", rec.ResultLength, len("كان يا ما كان"))
		}
		if rec.ID == "" {
			t.Fatal("usage record has no id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("usage record was never written")
	}
}

func TestGenerateStoryWithSelectedStyle(t *testing.T) {
	gateway := &stubGateway{text: "story"}
	app := newTestApp(gateway, nil)

	body, contentType := multipartUpload(t, "a.jpg", testJPEG(t), map[string]string{"selected_style_id": "simple_children"})
	rr := postStory(app, body, contentType)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}
}

func TestGenerateStoryUnknownStyleNeverCallsModel(t *testing.T) {
	gateway := &stubGateway{text: "story"}
	app := newTestApp(gateway, nil)

	body, contentType := multipartUpload(t, "a.jpg", testJPEG(t), map[string]string{"selected_style_id": "no_such_style"})
	rr := postStory(app, body, contentType)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if decodeDetail(t, rr) == "" {
		t.Fatal("error body has no detail")
	}
	if atomic.LoadInt32(&gateway.calls) != 0 {
		t.Fatal("gateway was called despite an invalid style id")
	}
}

func TestGenerateStoryMissingFilePart(t *testing.T) {
	gateway := &stubGateway{text: "story"}
	app := newTestApp(gateway, nil)

	body, contentType := multipartUpload(t, "", nil, map[string]string{"other": "x"})
	rr := postStory(app, body, contentType)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if atomic.LoadInt32(&gateway.calls) != 0 {
		t.Fatal("gateway was called despite a missing file part")
	}
}

func TestGenerateStoryEmptyFile(t *testing.T) {
	app := newTestApp(&stubGateway{text: "story"}, nil)

	body, contentType := multipartUpload(t, "empty.jpg", nil, nil)
	rr := postStory(app, body, contentType)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if decodeDetail(t, rr) == "" {
		t.Fatal("error body has no detail")
	}
}

func TestGenerateStoryInvalidImageNeverCallsModel(t *testing.T) {
	gateway := &stubGateway{text: "story"}
	app := newTestApp(gateway, nil)

	body, contentType := multipartUpload(t, "not-image.txt", []byte("not an image"), nil)
	rr := postStory(app, body, contentType)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if atomic.LoadInt32(&gateway.calls) != 0 {
		t.Fatal("gateway was called despite an invalid image")
	}
}

func TestGenerateStoryArabicDetailByDefault(t *testing.T) {
	app := newTestApp(&stubGateway{text: "story"}, nil)

	body, contentType := multipartUpload(t, "not-image.txt", []byte("plain text"), nil)
	rr := postStory(app, body, contentType)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if got, want := decodeDetail(t, rr), messages["invalid_image"]["ar"]; got != want {
		t.Fatalf("detail = %q, want Arabic message %q", got, want)
	}
}

func TestGenerateStoryErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"content blocked", domain.ErrContentBlocked, http.StatusBadRequest},
		{"empty result", domain.ErrEmptyModelResult, http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusInternalServerError},
		{"quota exceeded", domain.ErrQuotaExceeded, http.StatusInternalServerError},
		{"provider failure", domain.ErrProviderFailure, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&stubGateway{err: tc.err}, nil)
			body, contentType := multipartUpload(t, "a.jpg", testJPEG(t), nil)
			rr := postStory(app, body, contentType)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if decodeDetail(t, rr) == "" {
				t.Fatal("error body has no detail")
			}
		})
	}
}

func TestGenerateStoryRecorderFailureDoesNotAffectResponse(t *testing.T) {
	app := newTestApp(&stubGateway{text: "story"}, failingRecorder{})

	body, contentType := multipartUpload(t, "a.jpg", testJPEG(t), nil)
	rr := postStory(app, body, contentType)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, usage.Record) error {
	return errors.New("sink down")
}

func TestGenerateReportSuccess(t *testing.T) {
	gateway := &stubGateway{text: "**1. Modality:** Chest X-ray"}
	app := newTestApp(gateway, nil)

	body, contentType := multipartUpload(t, "xray.png", testJPEG(t), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/generate-report", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	app.GenerateReport(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if !strings.Contains(resp["report"], "Modality") {
		t.Fatalf("report = %q, want the gateway text", resp["report"])
	}
}

func TestHealthIsIdempotent(t *testing.T) {
	app := newTestApp(&stubGateway{}, nil)
	var first string
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		app.Health(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		if i == 0 {
			first = rr.Body.String()
		} else if rr.Body.String() != first {
			t.Fatal("health payload changed between calls")
		}
	}
}
