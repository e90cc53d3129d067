package report

import (
	"dat-matcher/core/reconcile"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Summary renders the run counters as a two-column table. The skipped row only
// appears when the run used skip-existing.
func Summary(c reconcile.Counters, skipExistingUsed bool) string {
	rows := []table.Row{
		{"Files handled", c.FilesHandled},
		{"Unique hashes", c.UniqueHashes},
		{"Duplicates", c.Duplicates},
		{"Matched", c.Matched},
		{"Missing", c.Missing},
		{"Unmatched", c.Unmatched},
	}
	if skipExistingUsed {
		rows = append(rows, table.Row{"Skipped (existing)", c.SkippedExisting})
	}
	return render([]string{"Metric", "Count"}, rows)
}

// DedupeSummary renders the counters relevant to a dedupe run.
func DedupeSummary(c reconcile.Counters) string {
	return render([]string{"Metric", "Count"}, []table.Row{
		{"Files handled", c.FilesHandled},
		{"Unique hashes", c.UniqueHashes},
		{"Duplicates", c.Duplicates},
	})
}

func render(headers []string, rows []table.Row) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		tw.AppendRow(row)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
