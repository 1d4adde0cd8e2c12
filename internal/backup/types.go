package backup

import (
	"time"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// Limits applied while scanning a document.
const (
	// MaxStringLength is the longest string value or object key, in characters.
	MaxStringLength = 10000
	// MaxArrayLength is the largest array anywhere in a document.
	MaxArrayLength = 5000
)

// DefaultMaxFileBytes is the largest backup file Import reads (10 MB).
const DefaultMaxFileBytes int64 = 10 * 1024 * 1024

// Version is the application version stamped into exports. The CLI sets it
// from the build version.
var Version = "dev"

// Sentinel errors. Every rejection is marked with ErrRejected and with the
// sentinel of the check that failed.
var (
	// ErrRejected marks any document the validator refused.
	ErrRejected = errors.New("backup rejected")

	ErrInvalidFormat    = errors.New("invalid format")
	ErrMissingMetadata  = errors.New("missing metadata")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrUnexpectedKeys   = errors.New("unexpected keys")
	ErrInvalidStructure = errors.New("invalid structure")
	ErrContentTooLong   = errors.New("content too long")
	ErrMaliciousContent = errors.New("malicious content")
	ErrArrayTooLong     = errors.New("array too long")

	// ErrNoBackupsFound indicates the backup directory holds no backup files.
	ErrNoBackupsFound = errors.New("no backups found")
)

// RestoreReport lists the storage keys a restore wrote, in write order.
// After a failed sequential restore it holds the keys written before the
// failure.
type RestoreReport struct {
	Written []string `json:"written"`
	Atomic  bool     `json:"atomic"`
}

// ExportResult describes a written backup file.
type ExportResult struct {
	Path     string    `json:"path"`
	Bytes    int       `json:"bytes"`
	Sections []string  `json:"sections"`
	Date     time.Time `json:"backup_date"`
}

// ImportResult describes a completed import.
type ImportResult struct {
	Path       string        `json:"path"`
	BackupDate string        `json:"backup_date"`
	AppVersion string        `json:"app_version,omitempty"`
	Restore    RestoreReport `json:"restore"`
}

// FileInfo describes one backup file on disk.
type FileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}
