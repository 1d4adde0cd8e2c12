package records

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// Transaction kinds.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Transaction is one entry of finance_transactions: an *Income or an
// *Expense. Amount is always non-negative; the kind gives the direction.
type Transaction interface {
	Kind() string
	Header() Base
	Amount() decimal.Decimal
	transaction()
}

// Entry holds the members shared by both transaction kinds.
type Entry struct {
	Base
	Value    decimal.Decimal `json:"amount"`
	Category string          `json:"category,omitempty"`
	Note     string          `json:"note,omitempty"`
}

// Income is money received.
type Income struct{ Entry }

// Expense is money spent.
type Expense struct{ Entry }

func (*Income) Kind() string  { return KindIncome }
func (*Expense) Kind() string { return KindExpense }

func (e *Entry) Header() Base            { return e.Base }
func (e *Entry) Amount() decimal.Decimal { return e.Value }

func (*Income) transaction()  {}
func (*Expense) transaction() {}

// DecodeTransaction decodes one finance_transactions element. A transaction
// without a type is an expense when its amount is negative and an income
// otherwise.
func DecodeTransaction(data []byte) (Transaction, error) {
	var d discriminant
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "decoding transaction type")
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrap(err, "decoding transaction")
	}

	kind := d.Type
	if kind == "" {
		kind = KindIncome
		if e.Value.IsNegative() {
			kind = KindExpense
		}
	}
	e.Value = e.Value.Abs()

	switch kind {
	case KindIncome:
		return &Income{e}, nil
	case KindExpense:
		return &Expense{e}, nil
	default:
		return nil, errors.Newf("unknown transaction type %q", d.Type)
	}
}

// Transactions is the decoded finance_transactions section.
type Transactions []Transaction

func (t *Transactions) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Transactions, 0, len(raw))
	for i, r := range raw {
		tx, err := DecodeTransaction(r)
		if err != nil {
			return errors.Wrapf(err, "transaction #%d", i+1)
		}
		out = append(out, tx)
	}
	*t = out
	return nil
}

// SavingsGoal is one entry of finance_savings.
type SavingsGoal struct {
	ID       ID              `json:"id"`
	Name     string          `json:"name,omitempty"`
	Target   decimal.Decimal `json:"target"`
	Saved    decimal.Decimal `json:"saved"`
	Deadline string          `json:"deadline,omitempty"`
}

// Progress returns Saved as a percentage of Target, rounded to one decimal
// place. A goal without a target has no progress.
func (g SavingsGoal) Progress() decimal.Decimal {
	if !g.Target.IsPositive() {
		return decimal.Zero
	}
	return g.Saved.Div(g.Target).Mul(decimal.NewFromInt(100)).Round(1)
}
