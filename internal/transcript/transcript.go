// Package transcript holds the document model shared by every stage: the
// diarized transcript produced by the transcription service, and the chunks
// handed to embedding and storage.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"interview-ingest-go/internal/apperr"
)

// Segment is one speaker turn. Speaker carries the raw diarization label;
// Role is empty until the labeling stage assigns candidate_*, interviewer_*
// or other.
type Segment struct {
	Speaker string  `json:"speaker"`
	Role    string  `json:"role,omitempty"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Document is one diarized transcript, ordered by segment start time as
// produced by the transcription service. Identified by its file name on disk.
type Document struct {
	Candidate string    `json:"candidate,omitempty"`
	VideoID   string    `json:"video_id,omitempty"`
	URL       string    `json:"url,omitempty"`
	Language  string    `json:"language,omitempty"`
	Segments  []Segment `json:"segments"`
}

// Chunk is the unit handed to embedding and vector storage. Start and End are
// copied from the originating segment, not interpolated per chunk: playback
// offsets of multi-chunk segments are a known limitation.
type Chunk struct {
	ID        string    `json:"id" parquet:"id"`
	Text      string    `json:"text" parquet:"text"`
	NTokens   int       `json:"n_tokens" parquet:"n_tokens"`
	Speaker   string    `json:"speaker" parquet:"speaker"`
	Role      string    `json:"role" parquet:"role"`
	Start     float64   `json:"start" parquet:"start"`
	End       float64   `json:"end" parquet:"end"`
	Candidate string    `json:"candidate,omitempty" parquet:"candidate,optional"`
	VideoID   string    `json:"video_id,omitempty" parquet:"video_id,optional"`
	URL       string    `json:"url,omitempty" parquet:"url,optional"`
	Embedding []float32 `json:"embedding,omitempty" parquet:"embedding,list"`
}

// ReadDocument loads a transcript JSON artifact.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.NotFound(err, "transcript %s", path)
		}
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperr.DataValidation(err, "bad JSON: %s", path)
	}
	return &doc, nil
}

// Write persists the document atomically: the artifact appears on disk only
// once fully written, so a failed stage leaves no partial output behind.
func (d *Document) Write(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize transcript: %w", err)
	}
	return nil
}

// ArtifactName is the on-disk name of the raw transcript for a file base.
// Every stage that locates a raw artifact derives the name through here.
func ArtifactName(fileBase string) string {
	return fileBase + ".json"
}

// CleanedName is the on-disk name of the labeled transcript derived from a
// raw artifact name: the extension is replaced by the _cleaned.json suffix.
func CleanedName(rawName string) string {
	return strings.TrimSuffix(rawName, filepath.Ext(rawName)) + "_cleaned.json"
}
