// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to open the run-history database. SQLite is the
// default so a single user gets history with no setup; MySQL is available for shared
// installations.
//
// # Connect
//
// Connect builds the dialector for the configured driver, applies pool settings and
// pings the database within the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on either dialect. The history store
// uses it to confirm its tables match the expected models after migration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("History disabled", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "runs")
package database
