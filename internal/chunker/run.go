package chunker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/chunktable"
	"interview-ingest-go/internal/logger"
	"interview-ingest-go/internal/transcript"
)

// Run converts every labeled transcript under cleanDir into one combined
// chunk table at outPath. A document that fails validation is skipped with a
// warning; the remaining documents still make it into the table.
func (b *Builder) Run(log *logger.Logger, cleanDir, outPath string) (int, error) {
	slog := log.WithStage("chunk")

	entries, err := os.ReadDir(cleanDir)
	if err != nil {
		return 0, fmt.Errorf("read clean dir %s: %w", cleanDir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var all []transcript.Chunk
	for _, name := range names {
		path := filepath.Join(cleanDir, name)
		doc, err := transcript.ReadDocument(path)
		if err != nil {
			if apperr.IsKind(err, apperr.KindDataValidation) {
				slog.WithField("file", name).WithField("error", err.Error()).
					Warn("skipping invalid document")
				continue
			}
			return 0, err
		}

		stem := strings.TrimSuffix(name, ".json")
		stem = strings.TrimSuffix(stem, "_cleaned")
		chunks, err := b.ChunkDocument(doc, stem)
		if err != nil {
			return 0, fmt.Errorf("chunk %s: %w", name, err)
		}
		slog.WithField("file", name).WithField("chunks", len(chunks)).Info("document chunked")
		all = append(all, chunks...)
	}

	if len(all) == 0 {
		return 0, errors.New("no chunks produced, nothing to write")
	}
	if err := chunktable.Write(outPath, all); err != nil {
		return 0, err
	}
	slog.WithField("rows", len(all)).WithField("output", outPath).Info("chunk table written")
	return len(all), nil
}
