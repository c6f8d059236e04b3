package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Chunking.ChunkSize != 384 {
		t.Fatalf("chunk size default: got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.ChunkOverlap != 64 {
		t.Fatalf("chunk overlap default: got %d", cfg.Chunking.ChunkOverlap)
	}
	if cfg.Tokenizer.Encoding != "cl100k_base" {
		t.Fatalf("encoding default: got %q", cfg.Tokenizer.Encoding)
	}
	if cfg.Chunking.Language != "spanish" {
		t.Fatalf("language default: got %q", cfg.Chunking.Language)
	}
}

func TestLoadReadsTOMLAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.toml")
	body := `
[chunking]
chunk_size = 256
chunk_overlap = 32
language = "english"
sentence_model_file = "models/english_extra.json"

[services]
transcribe_url = "https://file.example/transcribe"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TRANSCRIBE_URL", "https://env.example/transcribe")
	t.Setenv("DATABASE_DSN", "postgresql://env/db")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Chunking.ChunkSize != 256 || cfg.Chunking.ChunkOverlap != 32 {
		t.Fatalf("chunking not read from file: %+v", cfg.Chunking)
	}
	if cfg.Chunking.SentenceModelFile != "models/english_extra.json" {
		t.Fatalf("sentence model file: got %q", cfg.Chunking.SentenceModelFile)
	}
	if cfg.Services.TranscribeURL != "https://env.example/transcribe" {
		t.Fatalf("env must override file: got %q", cfg.Services.TranscribeURL)
	}
	if cfg.Database.DSN != "postgresql://env/db" {
		t.Fatalf("dsn from env: got %q", cfg.Database.DSN)
	}
}

func TestLoadRejectsOverlapNotBelowSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.toml")
	body := `
[chunking]
chunk_size = 64
chunk_overlap = 64
language = "spanish"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("error kind: got %v", err)
	}
}
