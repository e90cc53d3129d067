package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dat-matcher/core/reconcile"
	"dat-matcher/core/utils"
)

// MissingHeader is the first line of every missing report.
const MissingHeader = "ROM\tMD5\tSHA1"

// Report holds the rendered report bodies for a single run.
type Report struct {
	// Missing is the missing report: header line, then one tab-separated line per entry.
	Missing string
	// Unmatched is the unmatched report: one original file name per line.
	Unmatched string
	// Counters is the run totals the report was generated from.
	Counters reconcile.Counters
}

// Paths are the files a Report was written to.
type Paths struct {
	Missing   string
	Unmatched string
}

// All returns both paths in a stable order.
func (p Paths) All() []string {
	return []string{p.Missing, p.Unmatched}
}

// Generate renders the missing and unmatched reports for res.
func Generate(res *reconcile.Result) Report {
	var missing strings.Builder
	missing.WriteString(MissingHeader)
	missing.WriteByte('\n')
	for _, e := range res.Missing {
		fmt.Fprintf(&missing, "%s\t%s\t%s\n", e.Name, e.ReportedMD5(), e.SHA1)
	}

	var unmatched strings.Builder
	for _, name := range res.Unmatched {
		unmatched.WriteString(name)
		unmatched.WriteByte('\n')
	}

	return Report{
		Missing:   missing.String(),
		Unmatched: unmatched.String(),
		Counters:  res.Counters,
	}
}

// Names returns the report file names for the catalog at catalogPath.
func Names(catalogPath string) (missing, unmatched string) {
	base := utils.CatalogBaseName(catalogPath)
	return "Missing - " + base + ".txt", "Unmatched - " + base + ".txt"
}

// Write writes both reports into dir, replacing earlier reports for the same catalog.
func Write(dir, catalogPath string, r Report) (Paths, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, reconcile.Wrap(reconcile.ErrIO, "report", "create report dir "+dir, err)
	}

	missingName, unmatchedName := Names(catalogPath)
	paths := Paths{
		Missing:   filepath.Join(dir, missingName),
		Unmatched: filepath.Join(dir, unmatchedName),
	}

	if err := os.WriteFile(paths.Missing, []byte(r.Missing), 0o644); err != nil {
		return Paths{}, reconcile.Wrap(reconcile.ErrIO, "report", "write "+paths.Missing, err)
	}
	if err := os.WriteFile(paths.Unmatched, []byte(r.Unmatched), 0o644); err != nil {
		return Paths{}, reconcile.Wrap(reconcile.ErrIO, "report", "write "+paths.Unmatched, err)
	}
	return paths, nil
}
