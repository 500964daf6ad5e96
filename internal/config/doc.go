// Package config loads the sqsnav configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/sqsnav/config.toml
//  3. If the file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/sqsnav/config.toml
//   - Default region: us-east-1
//   - Data directory: ~/.local/share/sqsnav
//   - Bookmark store: <data_dir>/store
//   - Log file: <data_dir>/sqsnav.log
//   - Attribute poll interval: 30 seconds (0 disables polling)
//
// # TOML Format
//
//	default_region = "eu-west-1"
//	regions = ["eu-west-1", "us-east-1"]
//	data_dir = "~/.local/share/sqsnav"
//	log_file = "~/.local/share/sqsnav/sqsnav.log"
//	poll_seconds = 30
//
// All fields are optional. Tilde expansion is performed on paths.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors. A missing config file is not an
// error.
package config
