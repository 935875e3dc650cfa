package usage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const insertUsageSQL = `
INSERT INTO usage_records (id, filename, mode, result_length, created_at)
VALUES ($1, $2, $3, $4, $5)`

// PostgresRecorder appends usage records to a Postgres table.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

func (p *PostgresRecorder) Record(ctx context.Context, rec Record) error {
	_, err := p.pool.Exec(ctx, insertUsageSQL, rec.ID, rec.Filename, rec.Mode, rec.ResultLength, rec.CreatedAt)
	return err
}

var _ Recorder = (*PostgresRecorder)(nil)
