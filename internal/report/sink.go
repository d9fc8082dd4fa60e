package report

import (
	"context"
	"fmt"
	"log/slog"

	"backend-ecocommute/internal/db"
	"backend-ecocommute/internal/logging"

	"github.com/google/uuid"
)

// Sink receives every rendered report before it is handed to the client.
type Sink interface {
	Export(ctx context.Context, fileName string, body []byte) error
}

// NopSink accepts and forgets every report.
type NopSink struct{}

func (NopSink) Export(context.Context, string, []byte) error { return nil }

// Archive keeps a copy of each exported report in postgres.
type Archive struct {
	db     db.Querier
	logger *slog.Logger
}

func NewArchive(q db.Querier, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Archive{db: q, logger: logger}
}

func (a *Archive) Init(ctx context.Context) error {
	_, err := a.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS report_exports (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create report_exports: %w", err)
	}
	return nil
}

func (a *Archive) Export(ctx context.Context, fileName string, body []byte) error {
	id := uuid.NewString()
	_, err := a.db.Exec(ctx, `
		INSERT INTO report_exports (id, file_name, size_bytes, body)
		VALUES ($1,$2,$3,$4)
	`, id, fileName, len(body), string(body))
	if err != nil {
		return fmt.Errorf("archive report %s: %w", fileName, err)
	}
	a.logger.Info("report archived", "id", id, "file_name", fileName, "size_bytes", len(body))
	return nil
}
