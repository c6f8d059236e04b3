// Package downloader fetches interview audio from a remote video source. The
// actual acquisition runs out of process through yt-dlp; this package only
// owns the narrow interface and its idempotency contract.
package downloader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/logger"
)

// Downloader fetches one source into outDir and returns the local audio path.
// Idempotent: an already-downloaded file is returned without network work.
type Downloader interface {
	Fetch(ctx context.Context, sourceURL, fileBase string) (string, error)
}

type YtDlp struct {
	binPath string
	outDir  string
	log     *logger.Logger
}

func NewYtDlp(binPath, outDir string, log *logger.Logger) *YtDlp {
	return &YtDlp{binPath: binPath, outDir: outDir, log: log}
}

func (y *YtDlp) Fetch(ctx context.Context, sourceURL, fileBase string) (string, error) {
	outMP3 := filepath.Join(y.outDir, fileBase+".mp3")
	if _, err := os.Stat(outMP3); err == nil {
		y.log.WithField("path", outMP3).Info("audio already on disk")
		return outMP3, nil
	}

	if err := os.MkdirAll(y.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	tmpl := filepath.Join(y.outDir, fileBase+".%(ext)s")
	cmd := exec.CommandContext(ctx, y.binPath,
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--output", tmpl,
		sourceURL,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	y.log.WithField("url", sourceURL).Info("downloading audio")
	if err := cmd.Run(); err != nil {
		return "", apperr.Download(err, "yt-dlp failed for %s: %s", sourceURL, stderr.String())
	}
	if _, err := os.Stat(outMP3); err != nil {
		return "", apperr.Download(err, "yt-dlp produced no mp3 for %s", sourceURL)
	}
	return outMP3, nil
}
