// Package labeler rewrites raw diarization speaker IDs into semantic roles
// (candidate_<slug>, interviewer_<n>, other) using the role assignment table,
// and writes the labeled transcript beside the raw one as <stem>_cleaned.json.
package labeler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/logger"
	"interview-ingest-go/internal/metadata"
	"interview-ingest-go/internal/transcript"
)

// RoleOther is assigned to every speaker ID absent from the mapping.
const RoleOther = "other"

// BuildMapping turns one assignment row into a speaker-ID-to-role mapping.
// The candidate role is candidate_<slug> where the slug comes from the prefix
// of the document key (the part before the first "__"); each interviewer
// column maps its speaker ID to the literal column name.
func BuildMapping(row metadata.AssignmentRow) map[string]string {
	mapping := make(map[string]string, len(row.Interviewers)+1)

	if row.CandidateSpeaker != "" {
		prefix := strings.SplitN(row.DocumentKey, "__", 2)[0]
		mapping[row.CandidateSpeaker] = "candidate_" + metadata.Slugify(prefix)
	}
	for name, id := range row.Interviewers {
		mapping[id] = name
	}
	return mapping
}

// Apply returns a new document with every segment's role assigned from the
// mapping, defaulting to RoleOther. The input document is left untouched, so
// the raw and labeled artifacts never alias.
func Apply(doc *transcript.Document, mapping map[string]string) *transcript.Document {
	out := *doc
	out.Segments = make([]transcript.Segment, len(doc.Segments))
	for i, seg := range doc.Segments {
		role, ok := mapping[seg.Speaker]
		if !ok {
			role = RoleOther
		}
		seg.Role = role
		out.Segments[i] = seg
	}
	return &out
}

type Cleaner struct {
	rawDir   string
	cleanDir string
	log      *logger.Logger
}

func NewCleaner(rawDir, cleanDir string, log *logger.Logger) *Cleaner {
	return &Cleaner{rawDir: rawDir, cleanDir: cleanDir, log: log}
}

// Run labels one transcript per assignment row. A missing or invalid
// transcript skips that row with a warning; labeling continues for the rest.
// The returned count is the number of documents written.
func (c *Cleaner) Run(rows []metadata.AssignmentRow) (int, error) {
	slog := c.log.WithStage("label")
	if err := os.MkdirAll(c.cleanDir, 0o755); err != nil {
		return 0, fmt.Errorf("create clean dir: %w", err)
	}

	written := 0
	for _, row := range rows {
		if err := c.cleanOne(row); err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) || apperr.IsKind(err, apperr.KindDataValidation) {
				slog.WithField("document", row.DocumentKey).
					WithField("error", err.Error()).Warn("skipping row")
				continue
			}
			return written, err
		}
		written++
	}
	return written, nil
}

func (c *Cleaner) cleanOne(row metadata.AssignmentRow) error {
	rawPath := filepath.Join(c.rawDir, row.DocumentKey)
	doc, err := transcript.ReadDocument(rawPath)
	if err != nil {
		return err
	}

	labeled := Apply(doc, BuildMapping(row))

	outPath := filepath.Join(c.cleanDir, transcript.CleanedName(row.DocumentKey))
	if err := labeled.Write(outPath); err != nil {
		return err
	}
	c.log.WithStage("label").WithField("output", outPath).Info("cleaned transcript written")
	return nil
}
