// Package embedder attaches sentence-embedding vectors to a chunk table by
// calling the external embedding service in batches. Vector computation is a
// black box; this client is the narrow interface around it.
package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/chunktable"
	"interview-ingest-go/internal/logger"
)

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

type Client struct {
	endpoint   string
	batchSize  int
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(endpoint string, batchSize int, log *logger.Logger) *Client {
	if batchSize <= 0 {
		batchSize = 128
	}
	return &Client{
		endpoint:   endpoint,
		batchSize:  batchSize,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		log:        log,
	}
}

// EncodeBatch embeds one batch of texts, preserving order.
func (c *Client) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	payload, err := json.Marshal(embedRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 90 * time.Second

	var out embedResponse
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: %s", string(body))
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("embed request rejected: %s", string(body)))
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return fmt.Errorf("json decode error: %v body=%s", err, string(body))
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("embed batch of %d: %w", len(texts), err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed batch of %d: service returned %d vectors", len(texts), len(out.Embeddings))
	}
	return out.Embeddings, nil
}

// Run reads the chunk table at inPath, embeds every chunk text in batches and
// writes the table with an embedding column to outPath. A failed batch aborts
// the stage: a half-embedded table is useless downstream.
func (c *Client) Run(ctx context.Context, inPath, outPath string) (int, error) {
	if c.endpoint == "" {
		return 0, apperr.Configuration(nil, "EMBED_URL not set")
	}
	slog := c.log.WithStage("embed")

	rows, err := chunktable.Read(inPath)
	if err != nil {
		return 0, err
	}
	slog.WithField("rows", len(rows)).WithField("batch_size", c.batchSize).Info("embedding chunks")

	for i := 0; i < len(rows); i += c.batchSize {
		end := i + c.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		texts := make([]string, end-i)
		for j := i; j < end; j++ {
			texts[j-i] = rows[j].Text
		}
		vecs, err := c.EncodeBatch(ctx, texts)
		if err != nil {
			return 0, err
		}
		for j, v := range vecs {
			rows[i+j].Embedding = v
		}
		slog.WithField("embedded", end).Debug("batch done")
	}

	if err := chunktable.Write(outPath, rows); err != nil {
		return 0, err
	}
	slog.WithField("rows", len(rows)).WithField("output", outPath).Info("embeddings written")
	return len(rows), nil
}
