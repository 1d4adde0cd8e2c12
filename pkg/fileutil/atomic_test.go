package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const exportDoc = `{
  "_backup_date": "2024-05-01T09:30:00.000Z",
  "_app_version": "1.4.0",
  "home_xp": 40
}`

func TestAtomicWriteFile_BackupExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "evdefteri_yedek_2024-05-01.json")

	if err := AtomicWriteFile(path, []byte(exportDoc), 0o600); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if string(got) != exportDoc {
		t.Errorf("content = %q, want %q", got, exportDoc)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("backup permissions = %o, want 600", perm)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "evdefteri_yedek_2024-05-01.json" {
		t.Errorf("backup dir holds %v, want only the export", names(entries))
	}
}

func TestAtomicWriteFile_Permissions(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{"private backup", []byte(exportDoc), 0o600},
		{"shared report", []byte("summary\n"), 0o644},
		{"empty file", []byte{}, 0o600},
		{"binary payload", []byte{0x00, 0xFF, 0x7B}, 0o640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")
			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if perm := info.Mode().Perm(); perm != tt.perm {
				t.Errorf("permissions = %o, want %o", perm, tt.perm)
			}
		})
	}
}

// A second export on the same day replaces the first, and a loosely
// permissioned old file ends up private.
func TestAtomicWriteFile_SameDayExportReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evdefteri_yedek_2024-05-01.json")
	if err := os.WriteFile(path, []byte(`{"_backup_date":"2024-05-01"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteFile(path, []byte(exportDoc), 0o600); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != exportDoc {
		t.Errorf("content = %q, want the newer export", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
}

func TestAtomicWriteFile_MissingBackupDir(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "backups", "evdefteri_yedek_2024-05-01.json")

	if err := AtomicWriteFile(path, []byte(exportDoc), 0o600); err == nil {
		t.Fatal("expected error when the backup directory does not exist")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".evdefteri-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

type testStoreConfig struct {
	Namespace string `yaml:"namespace"`
}

type testConfig struct {
	Version int             `yaml:"version"`
	DBPath  string          `yaml:"db_path"`
	Store   testStoreConfig `yaml:"store"`
}

func TestAtomicWriteYAML_Config(t *testing.T) {
	cfg := testConfig{Version: 1, DBPath: "/data/evdefteri.db", Store: testStoreConfig{Namespace: "@"}}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := AtomicWriteYAML(path, cfg, 0o600); err != nil {
		t.Fatalf("AtomicWriteYAML() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "version: 1\ndb_path: /data/evdefteri.db\nstore:\n    namespace: '@'\n"
	if string(got) != want {
		t.Errorf("config = %q, want %q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
}

func TestAtomicWriteYAML_TrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "value.yaml")
	if err := AtomicWriteYAML(path, "evdefteri", 0o600); err != nil {
		t.Fatalf("AtomicWriteYAML() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Errorf("YAML output %q has no trailing newline", data)
	}
}

func TestAtomicWriteYAML_Unmarshalable(t *testing.T) {
	for name, v := range map[string]any{
		"channel": make(chan int),
		"func":    func() {},
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := AtomicWriteYAML(path, v, 0o600); err == nil {
				t.Fatal("expected marshal error")
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("no file should be written after a marshal error")
			}
		})
	}
}

func names(entries []os.DirEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}
