// Package config provides configuration management for evdefteri using Viper.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/paths"
)

// EnvPrefix prefixes every environment variable override, e.g.
// EVDEFTERI_RESTORE_ATOMIC=true.
const EnvPrefix = "EVDEFTERI"

// DefaultMaxFileBytes is the largest backup file an import will read (10 MB).
const DefaultMaxFileBytes int64 = 10 * 1024 * 1024

// Config keys.
const (
	KeyVersion      = "version"
	KeyDBPath       = "db_path"
	KeyBackupDir    = "backup_dir"
	KeyNamespace    = "store.namespace"
	KeyAtomic       = "restore.atomic"
	KeyMaxFileBytes = "import.max_file_bytes"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version   int           `mapstructure:"version" yaml:"version" toml:"version" json:"version"`
	DBPath    string        `mapstructure:"db_path" yaml:"db_path" toml:"db_path" json:"db_path"`
	BackupDir string        `mapstructure:"backup_dir" yaml:"backup_dir" toml:"backup_dir" json:"backup_dir"`
	Store     StoreConfig   `mapstructure:"store" yaml:"store" toml:"store" json:"store"`
	Restore   RestoreConfig `mapstructure:"restore" yaml:"restore" toml:"restore" json:"restore"`
	Import    ImportConfig  `mapstructure:"import" yaml:"import" toml:"import" json:"import"`
}

// StoreConfig configures the key-value store.
type StoreConfig struct {
	// Namespace is prepended to every physical storage key.
	Namespace string `mapstructure:"namespace" yaml:"namespace" toml:"namespace" json:"namespace"`
}

// RestoreConfig configures how imports write to the store.
type RestoreConfig struct {
	// Atomic writes all restored sections in one transaction.
	Atomic bool `mapstructure:"atomic" yaml:"atomic" toml:"atomic" json:"atomic"`
}

// ImportConfig bounds backup file imports.
type ImportConfig struct {
	MaxFileBytes int64 `mapstructure:"max_file_bytes" yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:   1,
		DBPath:    paths.DefaultDBPath(),
		BackupDir: paths.BackupDir(),
		Import:    ImportConfig{MaxFileBytes: DefaultMaxFileBytes},
	}
}

// Init initializes Viper with default configuration, discarding any state
// left by an earlier Init or Load.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault(KeyVersion, d.Version)
	viper.SetDefault(KeyDBPath, d.DBPath)
	viper.SetDefault(KeyBackupDir, d.BackupDir)
	viper.SetDefault(KeyNamespace, d.Store.Namespace)
	viper.SetDefault(KeyAtomic, d.Restore.Atomic)
	viper.SetDefault(KeyMaxFileBytes, d.Import.MaxFileBytes)
}

// DefaultFile returns the config file path init and config set write to:
// config.yaml in $EVDEFTERI_CONFIG_DIR when set, otherwise in the XDG config
// directory.
func DefaultFile() string {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	return paths.ConfigFile()
}

// Keys returns every recognized configuration key.
func Keys() []string {
	return []string{KeyVersion, KeyDBPath, KeyBackupDir, KeyNamespace, KeyAtomic, KeyMaxFileBytes}
}

// IsKnownKey reports whether key is a recognized configuration key.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found. The result is validated; the first problem
// is returned as the error.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// implicit load, defaults apply
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrNotFound)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}

	var err error
	if cfg.DBPath, err = paths.Expand(cfg.DBPath); err != nil {
		return nil, errors.Wrap(err, "resolving db_path")
	}
	if cfg.BackupDir, err = paths.Expand(cfg.BackupDir); err != nil {
		return nil, errors.Wrap(err, "resolving backup_dir")
	}

	return &cfg, nil
}

// Save writes the current Viper settings to path as YAML with 0600 permissions.
// The parent directory is created if needed.
func Save(path string) error {
	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return errors.Wrap(err, "unmarshaling config")
	}
	if errs := Validate(&cfg); len(errs) > 0 {
		return errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}
	return write(path, &cfg)
}
