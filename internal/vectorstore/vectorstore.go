// Package vectorstore loads an embedded chunk table into the transcript_chunks
// table of a pgvector-enabled Postgres. Similarity search itself lives in the
// database; schema migration is out of scope (the table must already exist).
package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/chunktable"
	"interview-ingest-go/internal/logger"
)

const insertSQL = `INSERT INTO transcript_chunks
	(id, text, n_tokens, embedding, candidate, role, speaker, start_sec, end_sec, video_id, url)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

type Loader struct {
	dsn string
	log *logger.Logger
}

func NewLoader(dsn string, log *logger.Logger) *Loader {
	return &Loader{dsn: dsn, log: log}
}

// Run replaces the table contents with the rows of the embedded chunk table
// at path. Returns the number of rows inserted.
func (l *Loader) Run(ctx context.Context, path string) (int, error) {
	if l.dsn == "" {
		return 0, apperr.Configuration(nil, "DATABASE_DSN not set")
	}
	slog := l.log.WithStage("load")

	rows, err := chunktable.Read(path)
	if err != nil {
		return 0, err
	}
	for i, r := range rows {
		if len(r.Embedding) == 0 {
			return 0, apperr.DataValidation(nil, "row %d (%s) has no embedding, run the embed stage first", i, r.ID)
		}
	}

	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return 0, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)
	if err := pgxvector.RegisterTypes(ctx, conn); err != nil {
		return 0, fmt.Errorf("register vector types: %w", err)
	}

	// one transaction: the old table contents survive a failed load
	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE transcript_chunks"); err != nil {
		return 0, fmt.Errorf("truncate: %w", err)
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertSQL,
			r.ID, r.Text, r.NTokens, pgvector.NewVector(r.Embedding),
			r.Candidate, r.Role, r.Speaker, r.Start, r.End, r.VideoID, r.URL)
	}
	br := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("insert: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.WithField("rows", len(rows)).Info("chunks loaded into vector store")
	return len(rows), nil
}
