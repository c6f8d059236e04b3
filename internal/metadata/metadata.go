// Package metadata loads the two tables that drive a pipeline run: the
// interview source list (one row per recording to fetch) and the diarization
// role assignments (one row per transcript, mapping speaker IDs to roles).
// Both accept CSV or XLSX by extension.
package metadata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"interview-ingest-go/internal/apperr"
)

// SourceRow drives one fetch iteration.
type SourceRow struct {
	Candidate     string
	InterviewDate string
	SourceName    string
	URL           string
	FileBase      string
}

// AssignmentRow maps a transcript document to its speaker roles.
// Interviewers maps a normalized column name (interviewer_1, interviewer_2,
// ...) to the speaker ID found in that column.
type AssignmentRow struct {
	DocumentKey      string
	CandidateSpeaker string
	Interviewers     map[string]string
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes free text into a lowercase underscore-delimited
// identifier, e.g. "Exitosa Radio" -> "exitosa_radio".
func Slugify(text string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(text), "_"), "_")
}

// fileBase derives the deterministic artifact stem for one source row:
// <candidate>__<date>__<source>.
func (r SourceRow) fileBase() string {
	return fmt.Sprintf("%s__%s__%s",
		Slugify(r.Candidate), Slugify(r.InterviewDate), Slugify(r.SourceName))
}

// LoadSources reads the interview source table. Rows without a usable URL are
// skipped quietly, matching the loader behavior for malformed spreadsheet rows.
func LoadSources(path string) ([]SourceRow, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, apperr.DataValidation(nil, "no data rows in %s", path)
	}

	header := rows[0]
	candIdx, dateIdx, sourceIdx, urlIdx, baseIdx := -1, -1, -1, -1, -1
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		// the bare "name" match is a fallback for candidate columns, so
		// headers like source_name or channel_name must bind before it
		switch {
		case strings.Contains(l, "file_base") || strings.Contains(l, "file base"):
			baseIdx = i
		case strings.Contains(l, "link") || strings.Contains(l, "url") || strings.Contains(l, "youtube"):
			if urlIdx == -1 {
				urlIdx = i
			}
		case strings.Contains(l, "source") || strings.Contains(l, "channel"):
			if sourceIdx == -1 {
				sourceIdx = i
			}
		case strings.Contains(l, "date"):
			if dateIdx == -1 {
				dateIdx = i
			}
		case strings.Contains(l, "candidate") || strings.Contains(l, "name"):
			if candIdx == -1 {
				candIdx = i
			}
		}
	}
	if urlIdx == -1 {
		return nil, apperr.DataValidation(nil, "no URL column found in %s", path)
	}

	var out []SourceRow
	for i, r := range rows {
		if i == 0 {
			continue
		}
		row := SourceRow{
			Candidate:     cell(r, candIdx),
			InterviewDate: cell(r, dateIdx),
			SourceName:    cell(r, sourceIdx),
			URL:           cell(r, urlIdx),
			FileBase:      cell(r, baseIdx),
		}
		if !strings.HasPrefix(strings.ToLower(row.URL), "http://") &&
			!strings.HasPrefix(strings.ToLower(row.URL), "https://") {
			// skip invalid URL rows quietly
			continue
		}
		if row.FileBase == "" {
			row.FileBase = row.fileBase()
		}
		out = append(out, row)
	}
	return out, nil
}

// LoadAssignments reads the role assignment table. A row whose candidate
// speaker collides with one of its interviewer speakers is rejected with a
// validation error collected per row; valid rows are still returned.
func LoadAssignments(path string) ([]AssignmentRow, []error, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) <= 1 {
		return nil, nil, apperr.DataValidation(nil, "no data rows in %s", path)
	}

	header := rows[0]
	keyIdx, candIdx := -1, -1
	interviewerIdx := map[int]string{}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "file") || strings.Contains(l, "json"):
			if keyIdx == -1 {
				keyIdx = i
			}
		case strings.Contains(l, "candidate"):
			if candIdx == -1 {
				candIdx = i
			}
		case strings.HasPrefix(l, "interviewer"):
			interviewerIdx[i] = Slugify(l)
		}
	}
	if keyIdx == -1 {
		return nil, nil, apperr.DataValidation(nil, "no document key column found in %s", path)
	}

	var (
		out     []AssignmentRow
		rowErrs []error
	)
	for i, r := range rows {
		if i == 0 {
			continue
		}
		row := AssignmentRow{
			DocumentKey:      cell(r, keyIdx),
			CandidateSpeaker: cell(r, candIdx),
			Interviewers:     map[string]string{},
		}
		if row.DocumentKey == "" {
			continue
		}
		for idx, name := range interviewerIdx {
			if v := cell(r, idx); v != "" {
				row.Interviewers[name] = v
			}
		}
		if err := row.validate(); err != nil {
			rowErrs = append(rowErrs, err)
			continue
		}
		out = append(out, row)
	}
	return out, rowErrs, nil
}

// The metadata table is filled by hand upstream; a candidate sharing a speaker
// ID with an interviewer would silently mislabel every segment, so it is
// rejected here.
func (r AssignmentRow) validate() error {
	if r.CandidateSpeaker == "" {
		return nil
	}
	for name, id := range r.Interviewers {
		if id == r.CandidateSpeaker {
			return apperr.DataValidation(nil,
				"row %s: candidate speaker %q duplicated in %s", r.DocumentKey, id, name)
		}
	}
	return nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1
	rows, err := rd.ReadAll()
	if err != nil {
		return nil, apperr.DataValidation(err, "read CSV %s", path)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.DataValidation(nil, "no sheets in %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.DataValidation(err, "read rows from %s", path)
	}
	return rows, nil
}
