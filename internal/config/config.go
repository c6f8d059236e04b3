// Package config builds the per-run configuration object. It is constructed
// once by the CLI and passed by reference to every stage; no package keeps
// implicit global state.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"interview-ingest-go/internal/apperr"
)

// Paths groups the dataset directory layout. All artifacts are keyed by
// deterministic file names under these directories.
type Paths struct {
	AudioDir     string `toml:"audio_dir"`
	RawOutputDir string `toml:"raw_output_dir"`
	CleanDir     string `toml:"clean_dir"`
	ProcessedDir string `toml:"processed_dir"`
	SourcesFile  string `toml:"sources_file"`
	DiarizeFile  string `toml:"diarize_file"`
}

// Chunking holds the token budgets for the chunk builder. SentenceModelFile
// optionally points at a punkt training JSON for languages without a bundled
// sentence model.
type Chunking struct {
	ChunkSize         int    `toml:"chunk_size"`
	ChunkOverlap      int    `toml:"chunk_overlap"`
	Language          string `toml:"language"`
	SentenceModelFile string `toml:"sentence_model_file"`
}

// Tokenizer selects the token-counting backend. When ModelFile is empty the
// model-agnostic encoding named by Encoding is used.
type Tokenizer struct {
	Encoding  string `toml:"encoding"`
	ModelFile string `toml:"model_file"`
}

// Services holds endpoints for the external collaborators.
type Services struct {
	TranscribeURL  string `toml:"transcribe_url"`
	EmbedURL       string `toml:"embed_url"`
	EmbedBatchSize int    `toml:"embed_batch_size"`
	YtDlpPath      string `toml:"yt_dlp_path"`
}

// Database holds the vector store connection string.
type Database struct {
	DSN string `toml:"dsn"`
}

type Config struct {
	Paths     Paths     `toml:"paths"`
	Chunking  Chunking  `toml:"chunking"`
	Tokenizer Tokenizer `toml:"tokenizer"`
	Services  Services  `toml:"services"`
	Database  Database  `toml:"database"`
}

func Default() Config {
	return Config{
		Paths: Paths{
			AudioDir:     filepath.Join("datasets", "raw", "audio"),
			RawOutputDir: filepath.Join("datasets", "raw", "output"),
			CleanDir:     filepath.Join("datasets", "processed", "cleaned"),
			ProcessedDir: filepath.Join("datasets", "processed"),
			SourcesFile:  filepath.Join("datasets", "metadata", "interview_sources.csv"),
			DiarizeFile:  filepath.Join("datasets", "metadata", "interview_diarize.csv"),
		},
		Chunking: Chunking{
			ChunkSize:    384,
			ChunkOverlap: 64,
			Language:     "spanish",
		},
		Tokenizer: Tokenizer{
			Encoding: "cl100k_base",
		},
		Services: Services{
			EmbedBatchSize: 128,
			YtDlpPath:      "yt-dlp",
		},
	}
}

// Load reads the optional TOML file at path (missing file means defaults),
// then applies environment overrides for the service endpoints and DSN.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to defaults
		case err != nil:
			return nil, apperr.Configuration(err, "read config %s", path)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, apperr.Configuration(err, "parse config %s", path)
			}
		}
	}

	cfg.Services.TranscribeURL = envOr("TRANSCRIBE_URL", cfg.Services.TranscribeURL)
	cfg.Services.EmbedURL = envOr("EMBED_URL", cfg.Services.EmbedURL)
	cfg.Services.YtDlpPath = envOr("YT_DLP_PATH", cfg.Services.YtDlpPath)
	cfg.Database.DSN = envOr("DATABASE_DSN", cfg.Database.DSN)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return apperr.Configuration(nil, "chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 {
		return apperr.Configuration(nil, "chunk_overlap must be non-negative, got %d", c.Chunking.ChunkOverlap)
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return apperr.Configuration(nil,
			"chunk_overlap (%d) must be smaller than chunk_size (%d)",
			c.Chunking.ChunkOverlap, c.Chunking.ChunkSize)
	}
	if c.Chunking.Language == "" {
		return apperr.Configuration(nil, "chunking language must be set")
	}
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
