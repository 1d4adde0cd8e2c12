package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/thoreinstein/evdefteri/internal/records"
)

// Successf writes a line prefixed with a green check mark.
func Successf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// Warnf writes a line prefixed with a yellow exclamation mark.
func Warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("!"), fmt.Sprintf(format, args...))
}

// Heading writes a bold line.
func Heading(w io.Writer, text string) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(text))
}

// PrintSummary writes s as an aligned two-column table.
func PrintSummary(w io.Writer, s records.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if s.Profile != "" {
		fmt.Fprintf(tw, "Profile\t%s\n", s.Profile)
	}
	fmt.Fprintf(tw, "Homes\t%d\n", s.Homes)
	fmt.Fprintf(tw, "XP\t%d\n", s.XP)

	total := 0
	for _, n := range s.Records {
		total += n
	}
	fmt.Fprintf(tw, "Records\t%d\n", total)
	for _, kind := range s.RecordKinds() {
		fmt.Fprintf(tw, "  %s\t%d\n", kind, s.Records[kind])
	}
	fmt.Fprintf(tw, "Bills total\t%s\n", s.BillTotal.StringFixed(2))
	fmt.Fprintf(tw, "Repairs total\t%s\n", s.RepairTotal.StringFixed(2))

	fmt.Fprintf(tw, "Transactions\t%d\n", s.Transactions)
	fmt.Fprintf(tw, "  income\t%s\n", s.Income.StringFixed(2))
	fmt.Fprintf(tw, "  expense\t%s\n", s.Expense.StringFixed(2))
	fmt.Fprintf(tw, "  net\t%s\n", s.Net.StringFixed(2))

	fmt.Fprintf(tw, "Savings goals\t%d\n", s.SavingsGoals)
	if s.SavingsGoals > 0 {
		fmt.Fprintf(tw, "  saved\t%s / %s (%s%%)\n",
			s.SavedTotal.StringFixed(2), s.TargetTotal.StringFixed(2), s.SavingsProgress.StringFixed(1))
	}

	return tw.Flush()
}
