// Package utils provides path and locking helpers shared by the commands.
//
// It resolves default output locations from the catalog name, compares and nests
// paths for input/output validation, and guards an output root with a flock so two
// runs never organize the same directory at once.
package utils
