package backup

import (
	"log/slog"
	"time"

	"github.com/thoreinstein/evdefteri/internal/logging"
	"github.com/thoreinstein/evdefteri/internal/paths"
)

// Manager runs exports and imports against a key-value store.
type Manager struct {
	dir          string
	keys         []string
	version      string
	maxFileBytes int64
	atomic       bool
	now          func() time.Time
	logger       *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the directory exports are written to and listed from.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.dir = dir
	}
}

// WithKeys replaces the storage keys an export collects.
func WithKeys(keys ...string) Option {
	return func(m *Manager) {
		m.keys = append([]string(nil), keys...)
	}
}

// WithVersion sets the _app_version stamped into exports.
func WithVersion(v string) Option {
	return func(m *Manager) {
		m.version = v
	}
}

// WithMaxFileBytes lowers the import size cap. Values outside
// (0, DefaultMaxFileBytes] are ignored.
func WithMaxFileBytes(n int64) Option {
	return func(m *Manager) {
		if n > 0 && n <= DefaultMaxFileBytes {
			m.maxFileBytes = n
		}
	}
}

// WithAtomic makes restores write all sections in one transaction when the
// store supports it.
func WithAtomic(atomic bool) Option {
	return func(m *Manager) {
		m.atomic = atomic
	}
}

// WithClock sets the time source for _backup_date and file names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		dir:          paths.BackupDir(),
		keys:         DefaultKeys(),
		version:      Version,
		maxFileBytes: DefaultMaxFileBytes,
		now:          time.Now,
		logger:       logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.dir }
