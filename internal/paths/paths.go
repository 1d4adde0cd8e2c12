package paths

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// AppName names the application directories and backup files.
const AppName = "evdefteri"

// BackupInfix separates the application name from the date in backup file names.
const BackupInfix = "_yedek_"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if path == "" {
		return errors.Wrap(ErrInvalidPath, "empty directory path")
	}
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns <ConfigHome>/evdefteri.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns <DataHome>/evdefteri.
func DataDir() string {
	return filepath.Join(DataHome(), AppName)
}

// DefaultDBPath returns the default location of the key-value database.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), AppName+".db")
}

// BackupDir returns the default directory exports are written to.
func BackupDir() string {
	return filepath.Join(DataDir(), "backups")
}

// BackupFileName returns the export file name for the day t falls on, e.g.
// evdefteri_yedek_2024-01-31.json. The date is taken in t's location.
func BackupFileName(t time.Time) string {
	return AppName + BackupInfix + t.Format(time.DateOnly) + ".json"
}

// BackupGlob matches export file names from any application build.
const BackupGlob = "*" + BackupInfix + "*.json"

// Expand resolves a leading ~ to the user's home directory and cleans the path.
func Expand(path string) (string, error) {
	if path == "" {
		return "", errors.Wrap(ErrInvalidPath, "empty path")
	}
	if path == "~" || len(path) > 1 && path[0] == '~' && os.IsPathSeparator(path[1]) {
		home, err := ResolveHome()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Clean(path), nil
}
