// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/errors"
)

// Sentinel errors for backup selection.
var (
	ErrNoBackups          = errors.New("no backup files to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive prompts.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// SelectBackup prompts the user to choose one of files, which are expected
// newest first.
//
// Returns:
//   - ErrNoBackups if the list is empty
//   - The file if only one exists (auto-selects without prompting)
//   - The selected file based on user input; empty input picks the newest
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectBackup(files []backup.FileInfo) (*backup.FileInfo, error) {
	if len(files) == 0 {
		return nil, ErrNoBackups
	}

	if len(files) == 1 {
		return &files[0], nil
	}

	fmt.Fprintln(s.writer, "Backup files:")
	for i, f := range files {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, describe(f))
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := s.readLine()
	if err != nil {
		return nil, err
	}

	if input == "" {
		return &files[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}

	if selection < 1 || selection > len(files) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(files))
	}

	return &files[selection-1], nil
}

// Confirm asks a yes/no question. Only "y" or "yes" (case-insensitive)
// confirm; EOF yields ErrSelectionCancelled.
func (s *Selector) Confirm(question string) (bool, error) {
	fmt.Fprintf(s.writer, "%s [y/N] ", question)

	input, err := s.readLine()
	if err != nil {
		return false, err
	}

	input = strings.ToLower(input)
	return input == "y" || input == "yes", nil
}

func (s *Selector) readLine() (string, error) {
	input, err := s.reader.ReadString('\n')
	if err != nil {
		// A final line without newline still counts.
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) != "" {
			return strings.TrimSpace(input), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(input), nil
}

// FindBackup opens a fuzzy finder over files with a preview of each file.
// Aborting the finder yields ErrSelectionCancelled.
func FindBackup(files []backup.FileInfo) (*backup.FileInfo, error) {
	if len(files) == 0 {
		return nil, ErrNoBackups
	}

	idx, err := fuzzyfinder.Find(
		files,
		func(i int) string {
			return files[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			f := files[i]
			return fmt.Sprintf("Path: %s\nSize: %s\nModified: %s",
				f.Path, FormatSize(f.Size), f.ModTime.Local().Format("2006-01-02 15:04:05"))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}
	return &files[idx], nil
}

func describe(f backup.FileInfo) string {
	return fmt.Sprintf("%s (%s, %s)", f.Name, FormatSize(f.Size), f.ModTime.Local().Format("2006-01-02 15:04"))
}

// FormatSize renders a byte count for humans, e.g. 512 B or 1.5 KB.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}
