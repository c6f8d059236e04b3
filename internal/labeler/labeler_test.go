package labeler_test

import (
	"os"
	"path/filepath"
	"testing"

	"interview-ingest-go/internal/labeler"
	"interview-ingest-go/internal/logger"
	"interview-ingest-go/internal/metadata"
	"interview-ingest-go/internal/transcript"
)

func TestBuildMapping(t *testing.T) {
	row := metadata.AssignmentRow{
		DocumentKey:      "Ana__2024-01-01__Canal_X.json",
		CandidateSpeaker: "SPEAKER_00",
		Interviewers:     map[string]string{"interviewer_1": "SPEAKER_01"},
	}
	m := labeler.BuildMapping(row)
	if got := m["SPEAKER_00"]; got != "candidate_ana" {
		t.Fatalf("candidate mapping: got %q want %q", got, "candidate_ana")
	}
	if got := m["SPEAKER_01"]; got != "interviewer_1" {
		t.Fatalf("interviewer mapping: got %q want %q", got, "interviewer_1")
	}
	if len(m) != 2 {
		t.Fatalf("unexpected extra mappings: %v", m)
	}
}

func TestBuildMappingWithoutCandidate(t *testing.T) {
	row := metadata.AssignmentRow{
		DocumentKey:  "Ana__x.json",
		Interviewers: map[string]string{"interviewer_2": "SPEAKER_05"},
	}
	m := labeler.BuildMapping(row)
	if len(m) != 1 || m["SPEAKER_05"] != "interviewer_2" {
		t.Fatalf("unexpected mapping: %v", m)
	}
}

func TestApplyAssignsEveryRoleAndIsPure(t *testing.T) {
	doc := &transcript.Document{
		Segments: []transcript.Segment{
			{Speaker: "SPEAKER_00", Text: "hola"},
			{Speaker: "SPEAKER_01", Text: "buenas"},
			{Speaker: "SPEAKER_09", Text: "ruido"},
		},
	}
	mapping := map[string]string{"SPEAKER_00": "candidate_ana", "SPEAKER_01": "interviewer_1"}

	out := labeler.Apply(doc, mapping)

	wantRoles := []string{"candidate_ana", "interviewer_1", "other"}
	for i, w := range wantRoles {
		if out.Segments[i].Role != w {
			t.Fatalf("segment %d role: got %q want %q", i, out.Segments[i].Role, w)
		}
	}
	// the raw document must stay untouched
	for i, seg := range doc.Segments {
		if seg.Role != "" {
			t.Fatalf("input segment %d mutated: role %q", i, seg.Role)
		}
	}
}

func TestCleanerSkipsMissingDocument(t *testing.T) {
	rawDir := t.TempDir()
	cleanDir := filepath.Join(t.TempDir(), "cleaned")

	doc := &transcript.Document{Segments: []transcript.Segment{{Speaker: "SPEAKER_00", Text: "hola"}}}
	if err := doc.Write(filepath.Join(rawDir, "ana__x__y.json")); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rows := []metadata.AssignmentRow{
		{DocumentKey: "missing__doc.json", CandidateSpeaker: "SPEAKER_00", Interviewers: map[string]string{}},
		{DocumentKey: "ana__x__y.json", CandidateSpeaker: "SPEAKER_00", Interviewers: map[string]string{}},
	}

	written, err := labeler.NewCleaner(rawDir, cleanDir, logger.New()).Run(rows)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if written != 1 {
		t.Fatalf("written: got %d want 1", written)
	}

	out, err := transcript.ReadDocument(filepath.Join(cleanDir, "ana__x__y_cleaned.json"))
	if err != nil {
		t.Fatalf("read cleaned: %v", err)
	}
	if out.Segments[0].Role != "candidate_ana" {
		t.Fatalf("role: got %q want %q", out.Segments[0].Role, "candidate_ana")
	}
	if _, err := os.Stat(filepath.Join(cleanDir, "missing__doc_cleaned.json")); !os.IsNotExist(err) {
		t.Fatal("missing row must not produce an artifact")
	}
}
