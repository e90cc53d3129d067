package config

import "strings"

// MatchConfig holds defaults for the match and dedupe commands. Command-line flags
// override these values.
type MatchConfig struct {
	// Mode is the placement mode (hardlink, copy, move).
	Mode string `mapstructure:"mode" default:"hardlink"`
	// SkipExisting skips input files whose canonical name already exists in the output.
	SkipExisting bool `mapstructure:"skip_existing" default:"false"`
	// ReportDir is where the missing and unmatched reports are written.
	ReportDir string `mapstructure:"report_dir" default:"."`
	// Exclude is a comma-separated list of glob patterns relative to the input root.
	Exclude string `mapstructure:"exclude" default:""`
	// Progress enables the progress bar when stderr is a terminal.
	Progress bool `mapstructure:"progress" default:"true"`
}

// ExcludePatterns splits Exclude into trimmed, non-empty patterns.
func (c MatchConfig) ExcludePatterns() []string {
	var out []string
	for _, p := range strings.Split(c.Exclude, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
