package domain

import "errors"

// Sentinel errors for the generation pipeline. Handlers map these onto HTTP
// status codes; everything in the client-caused group becomes a 400.
var (
	// Client-caused.
	ErrEmptyInput       = errors.New("empty input")
	ErrInvalidImage     = errors.New("invalid image")
	ErrStyleNotFound    = errors.New("style not found")
	ErrContentBlocked   = errors.New("content blocked")
	ErrEmptyModelResult = errors.New("model returned no text")

	// Provider/infrastructure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrProviderFailure    = errors.New("provider failure")
)
