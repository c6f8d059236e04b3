package chunker

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"interview-ingest-go/internal/transcript"
)

// A metaStrategy tries one way of recovering a metadata value; ok=false hands
// over to the next strategy in the list. Keeping the precedence as an ordered
// slice makes the fallback rule auditable in isolation.
type metaStrategy func(doc *transcript.Document, stem string) (string, bool)

var candidateStrategies = []metaStrategy{
	candidateFromDocument,
	candidateFromRolePrefix,
	candidateFromFileName,
}

var videoIDStrategies = []metaStrategy{
	videoIDFromDocument,
	videoIDFromFileName,
}

// InferMeta resolves the document-level metadata every chunk inherits,
// trying each strategy in order.
func InferMeta(doc *transcript.Document, stem string) Meta {
	m := Meta{URL: doc.URL}
	for _, s := range candidateStrategies {
		if v, ok := s(doc, stem); ok {
			m.Candidate = v
			break
		}
	}
	for _, s := range videoIDStrategies {
		if v, ok := s(doc, stem); ok {
			m.VideoID = v
			break
		}
	}
	return m
}

func candidateFromDocument(doc *transcript.Document, _ string) (string, bool) {
	return doc.Candidate, doc.Candidate != ""
}

func candidateFromRolePrefix(doc *transcript.Document, _ string) (string, bool) {
	if len(doc.Segments) == 0 {
		return "", false
	}
	role := doc.Segments[0].Role
	if !strings.HasPrefix(role, "candidate_") {
		return "", false
	}
	return titleFromSlug(strings.TrimPrefix(role, "candidate_")), true
}

func candidateFromFileName(_ *transcript.Document, stem string) (string, bool) {
	first := strings.SplitN(stem, "__", 2)[0]
	if first == "" {
		return "", false
	}
	return titleFromSlug(first), true
}

func videoIDFromDocument(doc *transcript.Document, _ string) (string, bool) {
	return doc.VideoID, doc.VideoID != ""
}

func videoIDFromFileName(_ *transcript.Document, stem string) (string, bool) {
	parts := strings.Split(stem, "__")
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

var titleCaser = cases.Title(language.Und)

func titleFromSlug(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "_", " "))
}
