package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/kv"
	"github.com/thoreinstein/evdefteri/internal/paths"
	"github.com/thoreinstein/evdefteri/pkg/fileutil"
)

// backupFilePerm keeps exported household data private to the user.
const backupFilePerm = 0o600

// Encode renders doc the way export files are written: indented with two
// spaces and ending in a newline.
func Encode(doc *jsonvalue.Object) ([]byte, error) {
	data, err := jsonvalue.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding backup")
	}
	return append(data, '\n'), nil
}

// Export collects r and writes the document to
// <dir>/evdefteri_yedek_<date>.json. An export on the same day replaces the
// earlier file.
func (m *Manager) Export(ctx context.Context, r kv.Reader) (*ExportResult, error) {
	now := m.now()
	doc := m.withDate(ctx, r, now)

	data, err := Encode(doc)
	if err != nil {
		return nil, err
	}

	if err := paths.EnsureDir(m.dir, 0); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	path := filepath.Join(m.dir, paths.BackupFileName(now))
	if err := fileutil.AtomicWriteFile(path, data, backupFilePerm); err != nil {
		return nil, errors.Wrap(err, "writing backup file")
	}

	m.logger.Info("exported backup", "path", path, "bytes", len(data))
	return &ExportResult{
		Path:     path,
		Bytes:    len(data),
		Sections: sectionKeys(doc),
		Date:     now.UTC(),
	}, nil
}

// ExportTo collects r and writes the document to out instead of a file.
func (m *Manager) ExportTo(ctx context.Context, r kv.Reader, out io.Writer) error {
	data, err := Encode(m.withDate(ctx, r, m.now()))
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return errors.Wrap(err, "writing backup")
	}
	return nil
}

// withDate collects with the clock pinned to now so the document date and
// the file name agree.
func (m *Manager) withDate(ctx context.Context, r kv.Reader, now time.Time) *jsonvalue.Object {
	pinned := *m
	pinned.now = func() time.Time { return now }
	return pinned.Collect(ctx, r)
}

// Load reads and parses a backup file without validating it. A file larger
// than the size cap fails with errors.ErrFileTooLarge before it is read, and
// malformed JSON fails with errors.ErrInvalidJSON.
func (m *Manager) Load(path string) (jsonvalue.Value, error) {
	if _, err := fileutil.CheckSize(path, m.maxFileBytes); err != nil {
		return nil, err
	}

	data, err := fileutil.ReadFileWithLimit(path, m.maxFileBytes)
	if err != nil {
		return nil, err
	}

	v, err := jsonvalue.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filepath.Base(path))
	}
	return v, nil
}

// Check loads and validates a backup file without writing anything. The error
// is non-nil only when the file cannot be loaded; a rejection is reported
// through the Result.
func (m *Manager) Check(path string) (jsonvalue.Value, Result, error) {
	v, err := m.Load(path)
	if err != nil {
		return nil, Result{}, err
	}
	res := Validate(v)
	if !res.Accepted() {
		m.logger.Info("backup rejected", "path", path, "reason", res.Reason())
	}
	return v, res, nil
}

// Import loads, validates and restores a backup file into w. Nothing is
// written unless the document is accepted; a rejection is returned as the
// error from Result.Err.
func (m *Manager) Import(ctx context.Context, path string, w kv.Writer) (*ImportResult, error) {
	v, res, err := m.Check(path)
	if err != nil {
		return nil, err
	}
	if !res.Accepted() {
		return nil, res.Err()
	}

	doc := v.(*jsonvalue.Object)
	result := &ImportResult{Path: path}
	if d, ok := doc.Get(KeyBackupDate); ok {
		result.BackupDate = string(d.(jsonvalue.String))
	}
	if av, ok := doc.Get(KeyAppVersion); ok {
		if s, isStr := av.(jsonvalue.String); isStr {
			result.AppVersion = string(s)
		}
	}

	report, err := m.Restore(ctx, doc, w)
	result.Restore = report
	if err != nil {
		return result, err
	}
	return result, nil
}

// List returns the backup files in the backup directory, newest first.
func (m *Manager) List() ([]FileInfo, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, paths.BackupGlob))
	if err != nil {
		return nil, errors.Wrap(err, "listing backups")
	}

	files := make([]FileInfo, 0, len(matches))
	for _, p := range matches {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, FileInfo{
			Name:    info.Name(),
			Path:    p,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	if len(files) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(files, func(a, b FileInfo) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		// Same mtime: the date in the name decides.
		return strings.Compare(b.Name, a.Name)
	})
	return files, nil
}

func sectionKeys(doc *jsonvalue.Object) []string {
	var keys []string
	for _, k := range doc.Keys() {
		if k != KeyBackupDate && k != KeyAppVersion {
			keys = append(keys, k)
		}
	}
	return keys
}
