package doctor

import (
	"fmt"
	"os"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/paths"
)

// Fixer is an optional interface that checks can implement to support auto-remediation.
// Checks that implement Fixer can fix issues they detect when the --fix flag is used.
type Fixer interface {
	// CanFix returns true if this check has fixable issues.
	// Must be called after Run() to check if there are issues that can be fixed.
	CanFix() bool

	// Fix attempts to remediate the issues found by Run().
	// Must be called after Run().
	Fix() []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file or directory that was targeted for fixing.
	Path string `json:"path"`

	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Error       error  `json:"-"`
}

// Issue types a PermissionFixer knows how to repair.
const (
	issueMissing   = "missing"
	issueDirectory = "directory"
	issueFile      = "file"
)

// Target permissions for the backup directory and its files.
const (
	privateFilePerm os.FileMode = 0o600
	privateDirPerm  os.FileMode = 0o700
)

// pathIssue is a single path or permission problem.
type pathIssue struct {
	Path     string
	Type     string
	Problem  string
	Severity Severity
	Fixable  bool
}

// PermissionFixer fixes missing directories and loose permissions.
// It is embedded in BackupDirCheck.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix returns true if there are any fixable issues.
func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// Fix attempts to fix all fixable issues, returning one FixResult each.
func (f *PermissionFixer) Fix() []FixResult {
	results := make([]FixResult, 0, f.CountFixable())
	for _, issue := range f.issues {
		if issue.Fixable {
			results = append(results, f.fixIssue(issue))
		}
	}
	return results
}

func (f *PermissionFixer) fixIssue(issue pathIssue) FixResult {
	result := FixResult{Path: issue.Path}

	var perm os.FileMode
	switch issue.Type {
	case issueMissing:
		if err := paths.EnsureDir(issue.Path, privateDirPerm); err != nil {
			result.Description = "failed to create directory"
			result.Error = errors.Wrapf(err, "creating %s", issue.Path)
			return result
		}
		result.Fixed = true
		result.Description = fmt.Sprintf("created with %04o", privateDirPerm)
		return result
	case issueDirectory:
		perm = privateDirPerm
	case issueFile:
		perm = privateFilePerm
	default:
		result.Description = "unknown type: " + issue.Type
		result.Error = errors.Newf("cannot fix unknown type: %s", issue.Type)
		return result
	}

	if err := os.Chmod(issue.Path, perm); err != nil {
		result.Description = fmt.Sprintf("failed to chmod %04o: %v", perm, err)
		result.Error = errors.Wrapf(err, "chmod %04o %s", perm, issue.Path)
		return result
	}

	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o", perm)
	return result
}

// setIssues stores the issues found by the check for later fixing.
func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}

// CountFixable returns the number of fixable issues.
func (f *PermissionFixer) CountFixable() int {
	count := 0
	for _, issue := range f.issues {
		if issue.Fixable {
			count++
		}
	}
	return count
}
