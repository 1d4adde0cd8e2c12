package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/config"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/kv"
	"github.com/thoreinstein/evdefteri/internal/paths"
	"github.com/thoreinstein/evdefteri/internal/records"
)

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	cfg *config.Config
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check of cfg.
func NewConfigCheck(cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{cfg: cfg}
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return "config" }

// Run executes the configuration check.
func (c *ConfigCheck) Run(_ context.Context) *CheckResult {
	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		return &CheckResult{Status: SeverityPass, Message: "configuration is valid"}
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return &CheckResult{
		Status:  SeverityError,
		Message: fmt.Sprintf("%d configuration problem(s)", len(errs)),
		Details: map[string]any{"errors": msgs},
		FixHint: "Run: evdefteri config list",
	}
}

// BackupDirCheck verifies that the backup directory exists and that it and
// the backup files in it are private to the user.
type BackupDirCheck struct {
	PermissionFixer

	dir string
}

var (
	_ Check = (*BackupDirCheck)(nil)
	_ Fixer = (*BackupDirCheck)(nil)
)

// NewBackupDirCheck creates a check of dir.
func NewBackupDirCheck(dir string) *BackupDirCheck {
	return &BackupDirCheck{dir: dir}
}

func (c *BackupDirCheck) Name() string     { return "backup-dir" }
func (c *BackupDirCheck) Category() string { return "filesystem" }

// Run executes the backup directory check.
func (c *BackupDirCheck) Run(_ context.Context) *CheckResult {
	issues := c.scan()
	c.setIssues(issues)

	if len(issues) == 0 {
		return &CheckResult{
			Status:  SeverityPass,
			Message: "backup directory is private",
			Details: map[string]any{"path": c.dir},
		}
	}

	status := SeverityWarning
	fixable := true
	problems := make([]string, len(issues))
	for i, issue := range issues {
		problems[i] = issue.Path + ": " + issue.Problem
		if issue.Severity > status {
			status = issue.Severity
		}
		fixable = fixable && issue.Fixable
	}

	result := &CheckResult{
		Status:  status,
		Message: issues[0].Problem,
		Details: map[string]any{"path": c.dir, "issues": problems},
		Fixable: fixable,
	}
	if len(issues) > 1 {
		result.Message = fmt.Sprintf("%d permission issue(s)", len(issues))
	}
	if fixable {
		result.FixHint = "Run: evdefteri doctor --fix"
	} else {
		result.FixHint = "Set backup_dir to a directory"
	}
	return result
}

func (c *BackupDirCheck) scan() []pathIssue {
	info, err := os.Stat(c.dir)
	switch {
	case os.IsNotExist(err):
		return []pathIssue{{
			Path: c.dir, Type: issueMissing, Problem: "backup directory does not exist",
			Severity: SeverityWarning, Fixable: true,
		}}
	case err != nil:
		return []pathIssue{{Path: c.dir, Problem: err.Error(), Severity: SeverityError}}
	case !info.IsDir():
		return []pathIssue{{Path: c.dir, Problem: "backup_dir is not a directory", Severity: SeverityError}}
	}

	var issues []pathIssue
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		issues = append(issues, pathIssue{
			Path: c.dir, Type: issueDirectory, Severity: SeverityWarning, Fixable: true,
			Problem: fmt.Sprintf("directory is accessible by other users (%04o)", perm),
		})
	}

	matches, _ := filepath.Glob(filepath.Join(c.dir, paths.BackupGlob))
	for _, p := range matches {
		fi, err := os.Stat(p)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		if perm := fi.Mode().Perm(); perm&0o077 != 0 {
			issues = append(issues, pathIssue{
				Path: p, Type: issueFile, Severity: SeverityWarning, Fixable: true,
				Problem: fmt.Sprintf("backup file is readable by other users (%04o)", perm),
			})
		}
	}
	return issues
}

// SectionsCheck decodes every stored section the way summaries and exports
// read them.
type SectionsCheck struct {
	store kv.Reader
}

var _ Check = (*SectionsCheck)(nil)

// NewSectionsCheck creates a check of the sections stored in r.
func NewSectionsCheck(r kv.Reader) *SectionsCheck {
	return &SectionsCheck{store: r}
}

func (c *SectionsCheck) Name() string     { return "sections" }
func (c *SectionsCheck) Category() string { return "store" }

// Run executes the stored sections check.
func (c *SectionsCheck) Run(ctx context.Context) *CheckResult {
	var (
		stored  []string
		invalid []string
		legacy  []string
	)
	for _, s := range backup.Sections {
		for i, key := range s.Sources {
			raw, ok, err := c.store.Get(ctx, key)
			if err != nil {
				return &CheckResult{Status: SeverityError, Message: "reading " + key + ": " + err.Error()}
			}
			if !ok || strings.TrimSpace(raw) == "" {
				continue
			}
			if _, err := jsonvalue.ParseString(raw); err != nil {
				invalid = append(invalid, key)
				continue
			}
			stored = append(stored, key)
			if i > 0 {
				legacy = append(legacy, key)
			}
		}
	}

	details := map[string]any{"stored": stored}
	if len(invalid) > 0 {
		details["invalid"] = invalid
		return &CheckResult{
			Status:  SeverityError,
			Message: "stored JSON is invalid: " + strings.Join(invalid, ", "),
			Details: details,
			FixHint: "Inspect with 'evdefteri store get <key>' and rewrite it with 'evdefteri store edit <key>'",
		}
	}

	if _, err := records.Read(ctx, c.store); err != nil {
		return &CheckResult{
			Status:  SeverityError,
			Message: err.Error(),
			Details: details,
			FixHint: "Inspect with 'evdefteri store get <key>'",
		}
	}

	if len(legacy) > 0 {
		details["legacy"] = legacy
		return &CheckResult{
			Status:  SeverityInfo,
			Message: "legacy keys in use: " + strings.Join(legacy, ", "),
			Details: details,
			FixHint: "An export followed by an import moves them to the current names",
		}
	}

	return &CheckResult{
		Status:  SeverityPass,
		Message: fmt.Sprintf("%d section(s) decode cleanly", len(stored)),
		Details: details,
	}
}

// ExportCheck builds the document an export would write right now and runs
// the import validation on it.
type ExportCheck struct {
	mgr   *backup.Manager
	store kv.Reader
}

var _ Check = (*ExportCheck)(nil)

// NewExportCheck creates a check exporting r through mgr.
func NewExportCheck(mgr *backup.Manager, r kv.Reader) *ExportCheck {
	return &ExportCheck{mgr: mgr, store: r}
}

func (c *ExportCheck) Name() string     { return "export-roundtrip" }
func (c *ExportCheck) Category() string { return "backup" }

// Run executes the export validation check.
func (c *ExportCheck) Run(ctx context.Context) *CheckResult {
	doc := c.mgr.Collect(ctx, c.store)
	res := backup.Validate(doc)
	if !res.Accepted() {
		details := map[string]any{"reason": res.Reason()}
		if res.Field() != "" {
			details["field"] = res.Field()
		}
		return &CheckResult{
			Status:  SeverityError,
			Message: "an export would be rejected on import: " + res.Reason(),
			Details: details,
			FixHint: "Correct the stored value with 'evdefteri store edit <key>'",
		}
	}
	return &CheckResult{
		Status:  SeverityPass,
		Message: fmt.Sprintf("an export of %d section(s) would be accepted", doc.Len()-2),
	}
}

// DefaultMaxBackupAge is how old the newest backup may get before
// LatestBackupCheck warns.
const DefaultMaxBackupAge = 30 * 24 * time.Hour

// LatestBackupCheck validates the newest backup file and warns when it is
// old.
type LatestBackupCheck struct {
	mgr    *backup.Manager
	maxAge time.Duration
	now    func() time.Time
}

var _ Check = (*LatestBackupCheck)(nil)

// NewLatestBackupCheck creates a check of the newest file in mgr's backup
// directory.
func NewLatestBackupCheck(mgr *backup.Manager, maxAge time.Duration) *LatestBackupCheck {
	if maxAge <= 0 {
		maxAge = DefaultMaxBackupAge
	}
	return &LatestBackupCheck{mgr: mgr, maxAge: maxAge, now: time.Now}
}

func (c *LatestBackupCheck) Name() string     { return "latest-backup" }
func (c *LatestBackupCheck) Category() string { return "backup" }

// Run executes the latest backup check.
func (c *LatestBackupCheck) Run(_ context.Context) *CheckResult {
	files, err := c.mgr.List()
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return &CheckResult{
				Status:  SeverityInfo,
				Message: "no backups yet",
				FixHint: "Run: evdefteri backup export",
			}
		}
		return &CheckResult{Status: SeverityError, Message: err.Error()}
	}

	latest := files[0]
	details := map[string]any{"path": latest.Path, "modified": latest.ModTime}

	_, res, err := c.mgr.Check(latest.Path)
	if err != nil {
		return &CheckResult{Status: SeverityError, Message: latest.Name + ": " + err.Error(), Details: details}
	}
	if !res.Accepted() {
		return &CheckResult{
			Status:  SeverityError,
			Message: latest.Name + " would be rejected: " + res.Reason(),
			Details: details,
			FixHint: "Run: evdefteri backup export",
		}
	}

	if age := c.now().Sub(latest.ModTime); age > c.maxAge {
		return &CheckResult{
			Status:  SeverityWarning,
			Message: fmt.Sprintf("newest backup is %d days old", int(age.Hours()/24)),
			Details: details,
			FixHint: "Run: evdefteri backup export",
		}
	}

	return &CheckResult{Status: SeverityPass, Message: latest.Name + " is valid", Details: details}
}

// SchemaVersioner reports the migration version of an open database.
type SchemaVersioner interface {
	SchemaVersion() (int64, error)
}

// DatabaseCheck reports whether the database could be opened and migrated.
type DatabaseCheck struct {
	path    string
	db      SchemaVersioner
	openErr error
}

var _ Check = (*DatabaseCheck)(nil)

// NewDatabaseCheck creates a check of the database at path. openErr is the
// error from opening it, if any; db is ignored when openErr is set.
func NewDatabaseCheck(path string, db SchemaVersioner, openErr error) *DatabaseCheck {
	return &DatabaseCheck{path: path, db: db, openErr: openErr}
}

func (c *DatabaseCheck) Name() string     { return "database" }
func (c *DatabaseCheck) Category() string { return "store" }

// Run executes the database check.
func (c *DatabaseCheck) Run(_ context.Context) *CheckResult {
	details := map[string]any{"path": c.path}
	if c.openErr != nil {
		return &CheckResult{
			Status:  SeverityError,
			Message: "cannot open database: " + c.openErr.Error(),
			Details: details,
			FixHint: "Run: evdefteri init, or pass --db",
		}
	}

	version, err := c.db.SchemaVersion()
	if err != nil {
		return &CheckResult{Status: SeverityError, Message: "reading schema version: " + err.Error(), Details: details}
	}
	details["schema_version"] = version
	return &CheckResult{
		Status:  SeverityPass,
		Message: fmt.Sprintf("database is at schema version %d", version),
		Details: details,
	}
}
