package pipeline

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary writes the per-row outcome table for one run. Row order is
// the insertion order of the metadata table.
func RenderSummary(w io.Writer, results []RowResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File Base", "Status", "Stage", "Error"})

	for _, r := range results {
		errMsg := ""
		if r.Err != nil {
			errMsg = r.Err.Error()
		}
		t.AppendRow(table.Row{r.FileBase, statusLabel(r.Status), r.Stage, errMsg})
	}

	done, skipped, failed := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusDone:
			done++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	t.AppendFooter(table.Row{"total", len(results), "",
		text.FgHiBlack.Sprintf("done=%d skipped=%d failed=%d", done, skipped, failed)})
	t.Render()
}

func statusLabel(s Status) string {
	switch s {
	case StatusDone:
		return text.FgGreen.Sprint(string(s))
	case StatusSkipped:
		return text.FgYellow.Sprint(string(s))
	case StatusFailed:
		return text.FgRed.Sprint(string(s))
	default:
		return string(s)
	}
}
