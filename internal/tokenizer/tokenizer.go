// Package tokenizer wraps the token-counting backends behind one interface.
// The default backend is a model-agnostic BPE encoding; a model-specific
// tokenizer file can be selected through configuration instead. Both are
// deterministic and side-effect-free once constructed.
package tokenizer

import (
	sugarme "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"github.com/pkoukk/tiktoken-go"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/config"
)

// Encoder turns text into subword token IDs. Chunk budgets are counted as
// len(Encode(text)).
type Encoder interface {
	Encode(text string) ([]int, error)
}

// New builds the encoder selected by cfg. An unusable encoding or model file
// is a configuration error: the caller aborts the run, since every chunk
// boundary would be wrong.
func New(cfg config.Tokenizer) (Encoder, error) {
	if cfg.ModelFile != "" {
		tok, err := pretrained.FromFile(cfg.ModelFile)
		if err != nil {
			return nil, apperr.Configuration(err, "load tokenizer %s", cfg.ModelFile)
		}
		return &modelEncoder{tok: tok}, nil
	}
	enc, err := tiktoken.GetEncoding(cfg.Encoding)
	if err != nil {
		return nil, apperr.Configuration(err, "unknown encoding %q", cfg.Encoding)
	}
	return &bpeEncoder{enc: enc}, nil
}

type bpeEncoder struct {
	enc *tiktoken.Tiktoken
}

func (b *bpeEncoder) Encode(text string) ([]int, error) {
	return b.enc.Encode(text, nil, nil), nil
}

type modelEncoder struct {
	tok *sugarme.Tokenizer
}

func (m *modelEncoder) Encode(text string) ([]int, error) {
	en, err := m.tok.EncodeSingle(text)
	if err != nil {
		return nil, apperr.DataValidation(err, "encode text")
	}
	return en.Ids, nil
}
