// Package genai wraps the Gemini generateContent REST endpoint for
// image-conditioned text generation.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hikaya/internal/domain"
	"hikaya/internal/infra"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 60 * time.Second
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin facade over the Gemini API: one multimodal request in,
// plain text out. A single attempt is made per call; retry policy belongs to
// the caller, if anywhere.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     opts.Logger,
	}
}

// GenerateRequest carries one composed instruction plus one encoded image.
type GenerateRequest struct {
	Instruction string
	ImageData   []byte
	ImageMIME   string
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	SafetySettings   []safetySetting   `json:"safetySettings,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generationConfig struct {
	CandidateCount int `json:"candidateCount,omitempty"`
}

type generateContentResponse struct {
	// Some API surfaces expose the whole response text directly; prefer it
	// when present.
	Text           string          `json:"text,omitempty"`
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Medical and artistic imagery trips the default filters, so every category
// runs at BLOCK_ONLY_HIGH. This is fixed service behavior, not per-request
// configuration.
var defaultSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_ONLY_HIGH"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_ONLY_HIGH"},
}

// GenerateText submits the instruction and the image as one multimodal
// request and returns the recovered text, or a classified failure from the
// domain error set.
func (c *Client) GenerateText(ctx context.Context, req GenerateRequest) (string, error) {
	payload := generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: req.Instruction},
				{InlineData: &inlineData{
					MIMEType: req.ImageMIME,
					Data:     base64.StdEncoding.EncodeToString(req.ImageData),
				}},
			},
		}},
		SafetySettings:   defaultSafetySettings,
		GenerationConfig: &generationConfig{CandidateCount: 1},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("%w: encode request: %v", domain.ErrProviderFailure, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Strip the url.Error wrapper: the endpoint path contains
		// "generateContent", which would trip the substring classifier.
		message := err.Error()
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Err != nil {
			message = uerr.Err.Error()
		}
		return "", classifyProviderError(message)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return "", c.classifyHTTPFailure(resp)
	}

	var out generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrProviderFailure, err)
	}

	if reason := blockReason(out); reason != "" {
		if c.logger != nil {
			c.logger.Warn().Str("reason", reason).Msg("gemini withheld the result")
		}
		return "", fmt.Errorf("%w: %s", domain.ErrContentBlocked, reason)
	}

	text := extractText(out)
	if text == "" {
		return "", domain.ErrEmptyModelResult
	}
	return text, nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

func (c *Client) classifyHTTPFailure(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	message := strings.TrimSpace(string(body))
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	}
	if c.logger != nil {
		c.logger.Error().Int("status", resp.StatusCode).Str("message", message).Msg("gemini call failed")
	}
	return classifyProviderError(message)
}

// blockReason reports why the provider withheld the result, or "" when it
// did not. Only the first candidate's finish reason counts.
func blockReason(resp generateContentResponse) string {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return resp.PromptFeedback.BlockReason
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == "SAFETY" {
		return "SAFETY"
	}
	return ""
}

// extractText recovers the generated text: the flat text field when the
// provider sends one, otherwise the first non-empty text part of the first
// candidate. An empty string means nothing was recoverable.
func extractText(resp generateContentResponse) string {
	if strings.TrimSpace(resp.Text) != "" {
		return resp.Text
	}
	if len(resp.Candidates) == 0 {
		return ""
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if strings.TrimSpace(p.Text) != "" {
			return p.Text
		}
	}
	return ""
}

// classifyProviderError maps provider error text onto the domain taxonomy by
// substring. The upstream service does not guarantee stable wording, so this
// is best-effort labeling concentrated in one place.
func classifyProviderError(message string) error {
	lower := strings.ToLower(message)
	var classified error
	switch {
	case strings.Contains(lower, "api key"):
		classified = domain.ErrInvalidCredentials
	case strings.Contains(lower, "quota"):
		classified = domain.ErrQuotaExceeded
	case strings.Contains(lower, "blocked"), strings.Contains(lower, "content"):
		classified = domain.ErrContentBlocked
	default:
		classified = domain.ErrProviderFailure
	}
	return fmt.Errorf("%w: %s", classified, message)
}
