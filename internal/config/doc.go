// Package config provides configuration management for the evdefteri CLI.
//
// # Configuration File
//
// The default configuration file location is ~/.config/evdefteri/config.yaml
// (XDG config home). The current directory and $EVDEFTERI_CONFIG_DIR are
// searched first. Every key can be overridden from the environment with the
// EVDEFTERI_ prefix, dots replaced by underscores:
//
//	version: 1
//	db_path: ~/.local/share/evdefteri/evdefteri.db
//	backup_dir: ~/.local/share/evdefteri/backups
//	store:
//	  namespace: ""          # physical key prefix, e.g. "@"
//	restore:
//	  atomic: false          # write all sections in one transaction
//	import:
//	  max_file_bytes: 10485760
//
// # Loading Configuration
//
// Call [Init] once, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//
// Load validates the result. [Validate] returns every problem at once for
// callers that want to list them.
//
// # Writing Configuration
//
// [Save] writes the current settings atomically with 0600 permissions.
package config
