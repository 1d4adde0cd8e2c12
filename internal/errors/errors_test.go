package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrInvalidJSON, ExitUser),
			want: "invalid JSON format",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(Wrap(ErrFileTooLarge, "reading backup"), ExitUser),
			want: "reading backup: file too large",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	tests := []struct {
		name       string
		err        *ExitError
		wantTarget error
		wantIs     bool
	}{
		{
			name:       "unwrap to sentinel error",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     true,
		},
		{
			name:       "unwrap through cockroach wrap",
			err:        NewExitError(Wrapf(ErrInvalidJSON, "parsing %s", "backup.json"), ExitUser),
			wantTarget: ErrInvalidJSON,
			wantIs:     true,
		},
		{
			name:       "unwrap through fmt wrap",
			err:        NewExitError(fmt.Errorf("import: %w", ErrFileTooLarge), ExitUser),
			wantTarget: ErrFileTooLarge,
			wantIs:     true,
		},
		{
			name:       "no match for different sentinel",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrInvalidConfig,
			wantIs:     false,
		},
		{
			name:       "nil underlying error",
			err:        NewExitError(nil, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.wantTarget); got != tt.wantIs {
				t.Errorf("errors.Is() = %v, want %v", got, tt.wantIs)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("disk on fire"), ExitSystem},
		{"user error", NewUserError(ErrInvalidJSON, ""), ExitUser},
		{"wrapped user error", Wrap(NewUserError(ErrFileTooLarge, ""), "import"), ExitUser},
		{"system error", NewSystemError(errors.New("io"), "check disk"), ExitSystem},
		{"explicit success", NewExitError(nil, ExitSuccess), ExitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{ErrNotFound, "resource not found"},
		{ErrInvalidConfig, "invalid configuration"},
		{ErrInvalidJSON, "invalid JSON format"},
		{ErrFileTooLarge, "file too large"},
	}
	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestNewConstructors(t *testing.T) {
	t.Run("NewUserError", func(t *testing.T) {
		e := NewUserError(errors.New("user error"), "check input")
		if e.Code != ExitUser {
			t.Errorf("Code = %d, want %d", e.Code, ExitUser)
		}
		if e.Suggestion != "check input" {
			t.Errorf("Suggestion = %q, want 'check input'", e.Suggestion)
		}
	})

	t.Run("NewSystemError", func(t *testing.T) {
		e := NewSystemError(errors.New("system error"), "check logs")
		if e.Code != ExitSystem {
			t.Errorf("Code = %d, want %d", e.Code, ExitSystem)
		}
	})

	t.Run("NewConfigError", func(t *testing.T) {
		e := NewConfigError(errors.New("config error"))
		if e.Code != ExitUser {
			t.Errorf("Code = %d, want %d", e.Code, ExitUser)
		}
		if e.Suggestion != "Run: evdefteri config list" {
			t.Errorf("Suggestion = %q", e.Suggestion)
		}
	})
}
