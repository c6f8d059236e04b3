package chunker_test

import (
	"testing"

	"interview-ingest-go/internal/chunker"
	"interview-ingest-go/internal/transcript"
)

func TestInferMetaPrefersDocumentMetadata(t *testing.T) {
	doc := &transcript.Document{
		Candidate: "Ana García",
		VideoID:   "vid42",
		URL:       "https://example.com/v",
		Segments:  []transcript.Segment{{Role: "candidate_otro"}},
	}
	m := chunker.InferMeta(doc, "otro__xyz__canal")
	if m.Candidate != "Ana García" {
		t.Fatalf("candidate: got %q", m.Candidate)
	}
	if m.VideoID != "vid42" {
		t.Fatalf("video id: got %q", m.VideoID)
	}
	if m.URL != "https://example.com/v" {
		t.Fatalf("url: got %q", m.URL)
	}
}

func TestInferMetaFallsBackToRolePrefix(t *testing.T) {
	doc := &transcript.Document{
		Segments: []transcript.Segment{{Role: "candidate_ana_maria"}},
	}
	m := chunker.InferMeta(doc, "ignored")
	if m.Candidate != "Ana Maria" {
		t.Fatalf("candidate: got %q want %q", m.Candidate, "Ana Maria")
	}
}

func TestInferMetaFallsBackToFileName(t *testing.T) {
	doc := &transcript.Document{
		Segments: []transcript.Segment{{Role: "other"}},
	}
	m := chunker.InferMeta(doc, "ana__2024-01-01__canal_x")
	if m.Candidate != "Ana" {
		t.Fatalf("candidate: got %q want %q", m.Candidate, "Ana")
	}
	if m.VideoID != "2024-01-01" {
		t.Fatalf("video id: got %q want %q", m.VideoID, "2024-01-01")
	}
}

func TestInferMetaNoVideoIDWithoutSeparator(t *testing.T) {
	m := chunker.InferMeta(&transcript.Document{}, "plainstem")
	if m.VideoID != "" {
		t.Fatalf("expected empty video id, got %q", m.VideoID)
	}
}
