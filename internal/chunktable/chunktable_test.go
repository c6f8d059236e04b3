package chunktable_test

import (
	"path/filepath"
	"testing"

	"interview-ingest-go/internal/chunktable"
	"interview-ingest-go/internal/transcript"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.parquet")
	rows := []transcript.Chunk{
		{
			ID: "a1", Text: "Uno. Dos.", NTokens: 2,
			Speaker: "SPEAKER_00", Role: "candidate_ana",
			Start: 0.5, End: 9.25,
			Candidate: "Ana", VideoID: "2024-01-01", URL: "https://example.com/v",
		},
		{
			ID: "b2", Text: "Tres.", NTokens: 1,
			Speaker: "SPEAKER_01", Role: "interviewer_1",
			Start: 9.25, End: 12.0,
			Embedding: []float32{0.25, -1.5},
		},
	}

	if err := chunktable.Write(path, rows); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	got, err := chunktable.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].ID != "a1" || got[0].Role != "candidate_ana" || got[0].NTokens != 2 {
		t.Fatalf("row 0 mismatch: %+v", got[0])
	}
	if got[1].Speaker != "SPEAKER_01" || got[1].Start != 9.25 {
		t.Fatalf("row 1 mismatch: %+v", got[1])
	}
	if len(got[1].Embedding) != 2 || got[1].Embedding[1] != -1.5 {
		t.Fatalf("embedding mismatch: %v", got[1].Embedding)
	}
}
