// Package sentence splits transcript text into ordered sentences using punkt
// training data for the configured language.
package sentence

import (
	_ "embed"
	"os"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/data"

	"interview-ingest-go/internal/apperr"
)

// The upstream bindata bundle embeds english only, under the asset name
// "data/english.json". Spanish is the language the interviews are held in,
// so its training file from the same punkt set is vendored here.
//
//go:embed spanish.json
var spanishTraining []byte

type Segmenter struct {
	tok *sentences.DefaultSentenceTokenizer
}

// NewSegmenter loads the punkt model for a language name such as "spanish"
// or "english". A non-empty modelFile wins over the bundled models and must
// point at a punkt training JSON; other unknown languages are configuration
// errors.
func NewSegmenter(language, modelFile string) (*Segmenter, error) {
	b, err := trainingData(language, modelFile)
	if err != nil {
		return nil, err
	}
	training, err := sentences.LoadTraining(b)
	if err != nil {
		return nil, apperr.Configuration(err, "load sentence model for %q", language)
	}
	return &Segmenter{tok: sentences.NewSentenceTokenizer(training)}, nil
}

func trainingData(language, modelFile string) ([]byte, error) {
	if modelFile != "" {
		b, err := os.ReadFile(modelFile)
		if err != nil {
			return nil, apperr.Configuration(err, "read sentence model %s", modelFile)
		}
		return b, nil
	}
	if language == "spanish" {
		return spanishTraining, nil
	}
	b, err := data.Asset("data/" + language + ".json")
	if err != nil {
		return nil, apperr.Configuration(err,
			"no bundled sentence model for language %q, set chunking.sentence_model_file", language)
	}
	return b, nil
}

// Split returns the trimmed sentences of text in order. Empty input yields an
// empty slice. Joining the result with spaces reproduces the input modulo
// whitespace normalization.
func (s *Segmenter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, sent := range s.tok.Tokenize(text) {
		t := strings.TrimSpace(sent.Text)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
