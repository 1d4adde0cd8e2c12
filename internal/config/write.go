package config

import (
	"path/filepath"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/paths"
	"github.com/thoreinstein/evdefteri/pkg/fileutil"
)

func write(path string, cfg *Config) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, cfg, 0o600); err != nil {
		return errors.Wrap(err, "writing config")
	}
	return nil
}
