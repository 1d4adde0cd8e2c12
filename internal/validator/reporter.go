package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/logging"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// maxValueLen bounds how much of an offending value the text report shows.
const maxValueLen = 50

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// jsonReport is the JSON shape: the result plus its verdict.
type jsonReport struct {
	*Result
	Valid bool `json:"valid"`
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

func (r *Reporter) reportJSON(result *Result) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return errors.Wrap(encoder.Encode(jsonReport{Result: result, Valid: result.Valid()}), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) error {
	if result.Source != "" {
		fmt.Fprintln(r.out, color.New(color.Bold).Sprint(result.Source))
	}

	errs := result.Errors()
	warnings := result.Warnings()

	if len(errs) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ Validation passed"))
	} else {
		summary := []string{color.RedString("%d error(s)", len(errs))}
		if len(warnings) > 0 {
			summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
		}
		fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))

		fmt.Fprintln(r.out, "Errors:")
		for _, i := range errs {
			r.printIssue(i, color.FgRed)
		}
		fmt.Fprintln(r.out)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(r.out, "Warnings:")
		for _, i := range warnings {
			r.printIssue(i, color.FgYellow)
		}
		fmt.Fprintln(r.out)
	}

	// Details only make sense for a document that can be restored.
	if infos := result.Infos(); len(errs) == 0 && len(infos) > 0 {
		for _, i := range infos {
			r.printIssue(i, color.FgCyan)
		}
	}

	return nil
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()

	// Format:  • field: message (context) [value]
	var sb strings.Builder
	sb.WriteString("  • ")

	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	if len(i.Context) > 0 {
		ctxParts := make([]string, 0, len(i.Context))
		for k, v := range i.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%s", k, v))
		}
		sort.Strings(ctxParts)

		sb.WriteString(" ")
		sb.WriteString(color.New(color.FgHiBlack).Sprintf("(%s)", strings.Join(ctxParts, ", ")))
	}

	if i.Value != nil {
		valStr := logging.Truncate(fmt.Sprintf("%v", i.Value), maxValueLen)
		sb.WriteString(color.New(color.FgHiBlack).Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())
}
