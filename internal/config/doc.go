// Package config loads logstory's settings.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logstory/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. LOGSTORY_<KEY> environment variables override file values
//  5. Empty or non-positive values fall back to defaults
//
// # TOML Format
//
//	listen = "127.0.0.1:5000"
//	server_url = "http://127.0.0.1:5000"   # terminal client target
//	patterns_file = "~/.config/logstory/patterns.yaml"
//	log_dir = "~/.local/share/logstory/logs"  # <log_type>.log fallbacks
//	store = "memory"                        # or "sqlite"
//	db_path = "~/.local/share/logstory/uploads.db"
//	line_limit = 100
//	content_limit = 1000
//	max_upload_bytes = 33554432
//	regex_timeout = "2s"
//	log_level = "info"
//	log_format = "auto"                     # console, json or auto
//
// Every key is optional. Tilde expansion is applied to patterns_file,
// log_dir and db_path, and relative paths become absolute.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// syntax errors and an unknown store. A missing file is not an error, so
// logstory runs without any configuration.
package config
