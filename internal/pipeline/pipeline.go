// Package pipeline owns the fetch orchestrator: for each metadata row it runs
// download -> transcribe+diarize -> persist, with idempotent skip of existing
// artifacts and per-row failure isolation. One bad video never blocks the
// batch.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"interview-ingest-go/internal/downloader"
	"interview-ingest-go/internal/logger"
	"interview-ingest-go/internal/metadata"
	"interview-ingest-go/internal/transcriber"
	"interview-ingest-go/internal/transcript"
)

type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Stage names recorded in row results, in execution order.
const (
	StageDownload   = "download"
	StageTranscribe = "transcribe"
	StagePersist    = "persist"
)

// RowResult is the tagged outcome of one metadata row. Collecting these into
// a run summary is the record of partial failure, not the log stream.
type RowResult struct {
	FileBase string
	URL      string
	Status   Status
	Stage    string
	Err      error
}

type Orchestrator struct {
	downloader   downloader.Downloader
	transcriber  transcriber.Transcriber
	outDir       string
	skipExisting bool
	log          *logger.Logger
}

func New(dl downloader.Downloader, tr transcriber.Transcriber, outDir string, skipExisting bool, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		downloader:   dl,
		transcriber:  tr,
		outDir:       outDir,
		skipExisting: skipExisting,
		log:          log,
	}
}

// Run processes the rows in order and returns one result per row. Row errors
// are captured in the results; the returned error covers only setup failures
// that prevent any row from proceeding.
func (o *Orchestrator) Run(ctx context.Context, rows []metadata.SourceRow) ([]RowResult, error) {
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", o.outDir, err)
	}

	results := make([]RowResult, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, o.runRow(ctx, row))
	}
	return results, nil
}

func (o *Orchestrator) runRow(ctx context.Context, row metadata.SourceRow) RowResult {
	log := o.log.WithRow(row.FileBase, row.URL).WithField("stage", "fetch")
	res := RowResult{FileBase: row.FileBase, URL: row.URL}

	outJSON := o.artifactPath(row.FileBase)
	if o.skipExisting {
		if _, err := os.Stat(outJSON); err == nil {
			log.Info("skipping, raw transcript already exists")
			res.Status = StatusSkipped
			return res
		}
	}

	res.Stage = StageDownload
	audioPath, err := o.downloader.Fetch(ctx, row.URL, row.FileBase)
	if err != nil {
		log.WithField("row_stage", res.Stage).WithField("error", err.Error()).Error("row failed")
		res.Status, res.Err = StatusFailed, err
		return res
	}

	res.Stage = StageTranscribe
	doc, err := o.transcriber.Transcribe(ctx, audioPath, row.URL)
	if err != nil {
		log.WithField("row_stage", res.Stage).WithField("error", err.Error()).Error("row failed")
		res.Status, res.Err = StatusFailed, err
		return res
	}
	if doc.Candidate == "" {
		doc.Candidate = row.Candidate
	}

	res.Stage = StagePersist
	if err := doc.Write(outJSON); err != nil {
		log.WithField("row_stage", res.Stage).WithField("error", err.Error()).Error("row failed")
		res.Status, res.Err = StatusFailed, err
		return res
	}

	log.WithField("output", outJSON).Info("raw transcript saved")
	res.Status, res.Stage = StatusDone, ""
	return res
}

func (o *Orchestrator) artifactPath(fileBase string) string {
	return filepath.Join(o.outDir, transcript.ArtifactName(fileBase))
}

// Failed counts rows that ended in StatusFailed.
func Failed(results []RowResult) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusFailed {
			n++
		}
	}
	return n
}
