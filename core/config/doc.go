// Package config provides configuration management for dat-matcher.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Command-line flags take precedence over both.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Match: default placement mode, report directory, exclude patterns, progress
//   - Log: Logging level and format
//   - Storage: S3/MinIO credentials and bucket for report upload
//   - Database: run-history driver and connection details
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Match.Mode)
package config
