package records

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Summary aggregates a Book. Money totals are decimals and marshal to JSON
// as strings.
type Summary struct {
	Profile      string          `json:"profile,omitempty"`
	Homes        int             `json:"homes"`
	XP           int64           `json:"xp"`
	Records      map[string]int  `json:"records"`
	BillTotal    decimal.Decimal `json:"bill_total"`
	RepairTotal  decimal.Decimal `json:"repair_total"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	Net          decimal.Decimal `json:"net"`
	Transactions int             `json:"transactions"`
	SavingsGoals int             `json:"savings_goals"`
	SavedTotal   decimal.Decimal `json:"saved_total"`
	TargetTotal  decimal.Decimal `json:"target_total"`
	// SavingsProgress is SavedTotal as a percentage of TargetTotal.
	SavingsProgress decimal.Decimal `json:"savings_progress"`
}

// Summarize computes the Summary of b.
func Summarize(b *Book) Summary {
	s := Summary{
		Homes:        len(b.Homes),
		XP:           b.XP,
		Records:      make(map[string]int),
		Transactions: len(b.Transactions),
		SavingsGoals: len(b.Savings),
	}
	if b.Profile != nil {
		s.Profile = b.Profile.Name
	}

	for _, rec := range b.History {
		s.Records[rec.Kind()]++
		switch r := rec.(type) {
		case *Bill:
			s.BillTotal = s.BillTotal.Add(r.Cost)
		case *Repair:
			s.RepairTotal = s.RepairTotal.Add(r.Cost)
		}
	}

	for _, tx := range b.Transactions {
		switch tx.(type) {
		case *Income:
			s.Income = s.Income.Add(tx.Amount())
		case *Expense:
			s.Expense = s.Expense.Add(tx.Amount())
		}
	}
	s.Net = s.Income.Sub(s.Expense)

	for _, g := range b.Savings {
		s.SavedTotal = s.SavedTotal.Add(g.Saved)
		s.TargetTotal = s.TargetTotal.Add(g.Target)
	}
	s.SavingsProgress = SavingsGoal{Target: s.TargetTotal, Saved: s.SavedTotal}.Progress()
	return s
}

// RecordKinds returns the kinds counted in s, sorted.
func (s Summary) RecordKinds() []string {
	kinds := make([]string, 0, len(s.Records))
	for k := range s.Records {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
