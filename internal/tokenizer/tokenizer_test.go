package tokenizer_test

import (
	"os"
	"path/filepath"
	"testing"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/config"
	"interview-ingest-go/internal/tokenizer"
)

func TestUnknownEncodingIsConfigurationError(t *testing.T) {
	_, err := tokenizer.New(config.Tokenizer{Encoding: "no_such_encoding"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("error kind: got %v", err)
	}
}

func TestMissingModelFileIsConfigurationError(t *testing.T) {
	cfg := config.Tokenizer{ModelFile: filepath.Join(t.TempDir(), "absent.json")}
	_, err := tokenizer.New(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("error kind: got %v", err)
	}
}

func TestCorruptModelFileIsConfigurationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("not a tokenizer model"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := tokenizer.New(config.Tokenizer{ModelFile: path})
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("error kind: got %v", err)
	}
}
