// Package usage appends best-effort records of completed generations to an
// external sink. Nothing in the request path ever depends on a write
// succeeding.
package usage

import (
	"context"
	"time"
)

// Record describes one successful generation. Write-only from this service's
// point of view.
type Record struct {
	ID           string
	Filename     string
	Mode         string
	ResultLength int
	CreatedAt    time.Time
}

// Recorder persists usage records. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

// NopRecorder is used when no persistence sink is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Record) error {
	return nil
}

var _ Recorder = NopRecorder{}
