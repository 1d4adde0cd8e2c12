package config

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrUnsupportedVersion indicates a config written by a newer release.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidNamespace indicates a namespace containing whitespace or control characters.
	ErrInvalidNamespace = errors.New("invalid store namespace")

	// ErrInvalidMaxFileBytes indicates an import size cap outside (0, 10 MB].
	ErrInvalidMaxFileBytes = errors.Newf("import.max_file_bytes must be between 1 and %d", DefaultMaxFileBytes)
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	switch {
	case cfg.Version < 1:
		errs = append(errs, ErrVersionTooLow)
	case cfg.Version > 1:
		errs = append(errs, errors.Mark(errors.Newf("unsupported config version: %d", cfg.Version), ErrUnsupportedVersion))
	}

	for _, f := range []struct {
		field, path string
	}{
		{KeyDBPath, cfg.DBPath},
		{KeyBackupDir, cfg.BackupDir},
	} {
		if err := validatePath(f.path); err != nil {
			errs = append(errs, &PathError{Field: f.field, Path: f.path, Err: err})
		}
	}

	if strings.IndexFunc(cfg.Store.Namespace, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		errs = append(errs, errors.Mark(errors.Newf("invalid store namespace %q", cfg.Store.Namespace), ErrInvalidNamespace))
	}

	if cfg.Import.MaxFileBytes <= 0 || cfg.Import.MaxFileBytes > DefaultMaxFileBytes {
		errs = append(errs, ErrInvalidMaxFileBytes)
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}

	// Null bytes are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
