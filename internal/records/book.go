package records

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/thoreinstein/evdefteri/internal/backup"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

// HomeProfile describes the user's profile or one of their homes.
type HomeProfile struct {
	ID      ID     `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Book is the typed view of every restorable section. Sections missing from
// the store are left at their zero value.
type Book struct {
	Profile      *HomeProfile
	History      HomeRecords
	Homes        []HomeProfile
	SelectedHome ID
	XP           int64
	Transactions Transactions
	Savings      []SavingsGoal
}

// Read decodes the sections stored in r. Renamed sections fall back to their
// legacy key when the current one is absent. A section that cannot be decoded
// fails the whole read.
func Read(ctx context.Context, r kv.Reader) (*Book, error) {
	b := &Book{}

	var xp decimal.Decimal
	targets := map[string]any{
		backup.KeyHomeProfile:         &b.Profile,
		backup.KeyHomeHistory:         &b.History,
		backup.KeyHomes:               &b.Homes,
		backup.KeySelectedHome:        &b.SelectedHome,
		backup.KeyXP:                  &xp,
		backup.KeyFinanceTransactions: &b.Transactions,
		backup.KeyFinanceSavings:      &b.Savings,
	}

	for _, s := range backup.Sections {
		raw, key, err := readSection(ctx, r, s)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), targets[s.Key]); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", key)
		}
	}

	b.XP = xp.IntPart()
	return b, nil
}

// readSection returns the stored value of s and the key it was found under.
func readSection(ctx context.Context, r kv.Reader, s backup.Section) (string, string, error) {
	for _, key := range s.Sources {
		v, ok, err := r.Get(ctx, key)
		if err != nil {
			return "", "", errors.Wrapf(err, "reading %s", key)
		}
		if trimmed := strings.TrimSpace(v); ok && trimmed != "" && trimmed != "null" {
			return v, key, nil
		}
	}
	return "", "", nil
}
