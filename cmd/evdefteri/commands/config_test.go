package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/thoreinstein/evdefteri/internal/config"
	"github.com/thoreinstein/evdefteri/internal/errors"
)

// setupViper resets Viper with defaults and points config writes at a
// temporary directory.
func setupViper(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("EVDEFTERI_CONFIG_DIR", dir)
	config.Init()
	viper.Set(config.KeyDBPath, filepath.Join(dir, "evdefteri.db"))
	viper.Set(config.KeyBackupDir, filepath.Join(dir, "backups"))
	t.Cleanup(viper.Reset)
	return dir
}

func TestConfigGet(t *testing.T) {
	setupViper(t)

	var buf bytes.Buffer
	if err := runConfigGetWithWriter(&buf, config.KeyMaxFileBytes); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "10485760" {
		t.Errorf("import.max_file_bytes = %q, want 10485760", got)
	}
}

func TestConfigGet_UnknownKey(t *testing.T) {
	setupViper(t)

	err := runConfigGetWithWriter(&bytes.Buffer{}, "backup_directory")
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want ExitError", err)
	}
	if !strings.Contains(exitErr.Suggestion, config.KeyBackupDir) {
		t.Errorf("suggestion %q should list valid keys", exitErr.Suggestion)
	}
}

func TestConfigSet(t *testing.T) {
	dir := setupViper(t)

	var buf bytes.Buffer
	if err := runConfigSetWithWriter(&buf, config.KeyAtomic, "true"); err != nil {
		t.Fatalf("set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "atomic: true") {
		t.Errorf("config file = %s", data)
	}
	if !viper.GetBool(config.KeyAtomic) {
		t.Error("viper value not updated")
	}
}

func TestConfigSet_InvalidValueReverts(t *testing.T) {
	dir := setupViper(t)

	err := runConfigSetWithWriter(&bytes.Buffer{}, config.KeyMaxFileBytes, "-1")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	if got := viper.GetInt64(config.KeyMaxFileBytes); got != config.DefaultMaxFileBytes {
		t.Errorf("max_file_bytes = %d after failed set, want default", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); !os.IsNotExist(err) {
		t.Error("invalid config should not be written")
	}
}

func TestConfigList(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"yaml", "max_file_bytes: 10485760"},
		{"toml", "max_file_bytes = 10485760"},
		{"json", `"max_file_bytes": 10485760`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			setupViper(t)

			var buf bytes.Buffer
			if err := runConfigListWithWriter(&buf, tt.format); err != nil {
				t.Fatalf("list: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output does not contain %q:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestConfigList_JSONIsValid(t *testing.T) {
	setupViper(t)

	var buf bytes.Buffer
	if err := runConfigListWithWriter(&buf, "json"); err != nil {
		t.Fatalf("list: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal(buf.Bytes(), &cfg); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
}

func TestConfigList_UnknownFormat(t *testing.T) {
	setupViper(t)
	if err := runConfigListWithWriter(&bytes.Buffer{}, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
