// Package history records completed runs in a SQL database.
//
// Each run is stored in the runs table with its counters, and every handled file is
// stored in run_files with its fingerprint, outcome and destination. The store is
// optional: commands only open it when database.enabled is set.
package history
