package sentence_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/config"
	"interview-ingest-go/internal/sentence"
)

func TestDefaultLanguageModelIsBundled(t *testing.T) {
	cfg := config.Default()
	seg, err := sentence.NewSegmenter(cfg.Chunking.Language, cfg.Chunking.SentenceModelFile)
	if err != nil {
		t.Fatalf("NewSegmenter(%q) returned error: %v", cfg.Chunking.Language, err)
	}
	got := seg.Split("Buenos días a todos. Hoy hablamos de la economía del país. ¿Empezamos?")
	if len(got) != 3 {
		t.Fatalf("got %d sentences, want 3: %v", len(got), got)
	}
}

func TestSplitOrdersSentences(t *testing.T) {
	seg, err := sentence.NewSegmenter("english", "")
	if err != nil {
		t.Fatalf("NewSegmenter returned error: %v", err)
	}
	got := seg.Split("I'm happy to have you here today. As you all know, there's a debate tonight. Shall we begin?")
	if len(got) != 3 {
		t.Fatalf("got %d sentences, want 3: %v", len(got), got)
	}
	if !strings.HasSuffix(got[2], "?") {
		t.Fatalf("last sentence: got %q", got[2])
	}
}

func TestSplitIsNonDestructive(t *testing.T) {
	seg, err := sentence.NewSegmenter("english", "")
	if err != nil {
		t.Fatalf("NewSegmenter returned error: %v", err)
	}
	in := "One sentence here. And another one.   "
	got := seg.Split(in)
	if strings.Join(got, " ") != strings.TrimSpace(strings.Join(strings.Fields(in), " ")) {
		t.Fatalf("joining sentences must reproduce input modulo whitespace: %v", got)
	}
}

func TestSplitEmptyInput(t *testing.T) {
	seg, err := sentence.NewSegmenter("spanish", "")
	if err != nil {
		t.Fatalf("NewSegmenter returned error: %v", err)
	}
	if got := seg.Split("   \n"); len(got) != 0 {
		t.Fatalf("empty input must yield no sentences, got %v", got)
	}
}

func TestModelFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	body := `{"AbbrevTypes":{},"Collocations":{},"SentStarters":{},"OrthoContext":{}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	seg, err := sentence.NewSegmenter("quechua", path)
	if err != nil {
		t.Fatalf("NewSegmenter with model file returned error: %v", err)
	}
	if got := seg.Split("First one. Second one."); len(got) != 2 {
		t.Fatalf("got %d sentences, want 2: %v", len(got), got)
	}
}

func TestMissingModelFileIsConfigurationError(t *testing.T) {
	_, err := sentence.NewSegmenter("spanish", filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("error kind: got %v", err)
	}
}

func TestUnknownLanguageIsConfigurationError(t *testing.T) {
	_, err := sentence.NewSegmenter("klingon", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("error kind: got %v", err)
	}
}
