package validator

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError indicates a blocking validation failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a non-blocking issue worth showing.
	SeverityWarning
	// SeverityInfo indicates an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return errors.Newf("unknown severity %q", string(b))
	}
	return nil
}

// Issue represents a single validation problem.
type Issue struct {
	Severity Severity `json:"severity"`
	// Field is the document path of the offending value, e.g.
	// root.home_history[0].description (optional).
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Value is the offending value (optional).
	Value   any               `json:"value,omitempty"`
	Context map[string]string `json:"context,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		sb.WriteString("field \"")
		sb.WriteString(i.Field)
		sb.WriteString("\": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result aggregates validation issues for one source.
type Result struct {
	// Source names what was validated, usually a file path.
	Source string  `json:"source,omitempty"`
	Issues []Issue `json:"issues"`
}

// Valid reports whether the result has no errors.
func (r *Result) Valid() bool {
	return !r.HasErrors()
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	return len(r.bySeverity(SeverityError)) > 0
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	return len(r.bySeverity(SeverityWarning)) > 0
}

// AddError adds an error issue to the result.
func (r *Result) AddError(field, message string, value any) {
	r.add(SeverityError, field, message, value)
}

// AddWarning adds a warning issue to the result.
func (r *Result) AddWarning(field, message string, value any) {
	r.add(SeverityWarning, field, message, value)
}

// AddInfo adds an info issue to the result.
func (r *Result) AddInfo(field, message string, value any) {
	r.add(SeverityInfo, field, message, value)
}

// Errors returns all issues with SeverityError.
func (r *Result) Errors() []Issue { return r.bySeverity(SeverityError) }

// Warnings returns all issues with SeverityWarning.
func (r *Result) Warnings() []Issue { return r.bySeverity(SeverityWarning) }

// Infos returns all issues with SeverityInfo.
func (r *Result) Infos() []Issue { return r.bySeverity(SeverityInfo) }

func (r *Result) add(s Severity, field, message string, value any) {
	r.Issues = append(r.Issues, Issue{
		Severity: s,
		Field:    field,
		Message:  message,
		Value:    value,
	})
}

func (r *Result) bySeverity(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}
