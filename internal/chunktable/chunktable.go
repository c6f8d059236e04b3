// Package chunktable reads and writes the columnar chunk tables exchanged
// between the chunking, embedding and loading stages.
package chunktable

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"interview-ingest-go/internal/transcript"
)

// Write persists rows as a parquet file, atomically: the table is staged under
// a temporary name and renamed into place once fully written.
func Write(path string, rows []transcript.Chunk) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create chunk table: %w", err)
	}

	w := parquet.NewGenericWriter[transcript.Chunk](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write chunk table: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("close chunk table: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close chunk table file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize chunk table: %w", err)
	}
	return nil
}

// Read loads a chunk table written by Write (with or without embeddings).
func Read(path string) ([]transcript.Chunk, error) {
	rows, err := parquet.ReadFile[transcript.Chunk](path)
	if err != nil {
		return nil, fmt.Errorf("read chunk table %s: %w", path, err)
	}
	return rows, nil
}
