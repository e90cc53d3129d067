// Package report renders and persists the reconciliation reports of a run.
//
// Two plain-text files are produced per catalog:
//
//   - "Missing - <catalog>.txt": a "ROM\tMD5\tSHA1" header followed by one line per
//     catalog entry whose hash was never seen, in catalog order.
//   - "Unmatched - <catalog>.txt": the original name of every file that matched
//     nothing, in walk order.
//
// Summary renders the run counters as a table for the terminal, and Uploader copies
// the written files to S3-compatible storage when that is configured.
package report
