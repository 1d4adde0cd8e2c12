package records

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestID_Unmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{`1700000000000`, "1700000000000", false},
		{`"t-1"`, "t-1", false},
		{`null`, "", false},
		{`12.5`, "12.5", false},
		{`true`, "", true},
		{`{}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.in), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestDecodeHomeRecord(t *testing.T) {
	t.Run("bill", func(t *testing.T) {
		rec, err := DecodeHomeRecord([]byte(`{"id":1,"type":"bill","subType":"electricity","cost":450.75,"period":"2024-01","description":"Ocak","date":"2024-01-15"}`))
		require.NoError(t, err)
		bill, ok := rec.(*Bill)
		require.True(t, ok, "got %T", rec)
		assert.Equal(t, KindBill, bill.Kind())
		assert.Equal(t, ID("1"), bill.Header().ID)
		assert.Equal(t, "2024-01-15", bill.Date)
		assert.Equal(t, "electricity", bill.SubType)
		assert.Equal(t, "Ocak", bill.Description)
		assert.True(t, dec("450.75").Equal(bill.Cost))
	})

	t.Run("warranty", func(t *testing.T) {
		rec, err := DecodeHomeRecord([]byte(`{"id":"w1","type":"warranty","product":"Buzdolabı","brand":"Arçelik","expiresAt":"2026-05-01","image":"data:image/png;base64,AAAA"}`))
		require.NoError(t, err)
		w := rec.(*Warranty)
		assert.Equal(t, "Buzdolabı", w.Product)
		assert.Equal(t, "2026-05-01", w.ExpiresAt)
		assert.NotEmpty(t, w.Image)
	})

	t.Run("document and repair", func(t *testing.T) {
		doc, err := DecodeHomeRecord([]byte(`{"id":2,"type":"document","title":"DASK","issuer":"Sigorta"}`))
		require.NoError(t, err)
		assert.Equal(t, "DASK", doc.(*Document).Title)

		rep, err := DecodeHomeRecord([]byte(`{"id":3,"type":"repair","cost":"1200","vendor":"Usta"}`))
		require.NoError(t, err)
		assert.True(t, dec("1200").Equal(rep.(*Repair).Cost))
	})

	t.Run("unknown kind keeps raw JSON", func(t *testing.T) {
		in := `{"id":4,"type":"inspection","grade":"A"}`
		rec, err := DecodeHomeRecord([]byte(in))
		require.NoError(t, err)
		other := rec.(*OtherRecord)
		assert.Equal(t, "inspection", other.Kind())
		assert.Equal(t, ID("4"), other.ID)

		out, err := json.Marshal(other)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(out))
	})

	t.Run("missing type", func(t *testing.T) {
		rec, err := DecodeHomeRecord([]byte(`{"id":5}`))
		require.NoError(t, err)
		assert.Equal(t, "other", rec.Kind())
	})

	t.Run("bad member", func(t *testing.T) {
		_, err := DecodeHomeRecord([]byte(`{"id":6,"type":"bill","cost":"lots"}`))
		assert.Error(t, err)
	})
}

func TestDecodeTransaction(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		kind   string
		amount string
	}{
		{"income", `{"id":1,"type":"income","amount":30000,"category":"maaş"}`, KindIncome, "30000"},
		{"expense", `{"id":2,"type":"expense","amount":10.50}`, KindExpense, "10.5"},
		{"negative untyped", `{"id":3,"amount":-99.90}`, KindExpense, "99.9"},
		{"positive untyped", `{"id":4,"amount":5}`, KindIncome, "5"},
		{"no amount", `{"id":5,"type":"expense"}`, KindExpense, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := DecodeTransaction([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, tx.Kind())
			assert.True(t, dec(tt.amount).Equal(tx.Amount()), "amount %s", tx.Amount())
		})
	}

	_, err := DecodeTransaction([]byte(`{"id":9,"type":"transfer","amount":1}`))
	assert.Error(t, err)
}

func TestSavingsGoal_Progress(t *testing.T) {
	assert.True(t, dec("25").Equal(SavingsGoal{Target: dec("20000"), Saved: dec("5000")}.Progress()))
	assert.True(t, dec("33.3").Equal(SavingsGoal{Target: dec("3"), Saved: dec("1")}.Progress()))
	assert.True(t, SavingsGoal{Saved: dec("10")}.Progress().IsZero())
}

func bookStore() *kv.Memory {
	return kv.NewMemory(map[string]string{
		"home_profile": `{"name":"Ahmet","address":"Kadıköy","level":3}`,
		"home_history": `[
			{"id":1,"type":"bill","cost":450.75},
			{"id":2,"type":"bill","cost":"120.10"},
			{"id":3,"type":"repair","cost":1000},
			{"id":4,"type":"warranty","product":"Fırın"},
			{"id":5,"type":"inspection"}
		]`,
		"homes_list":           `[{"id":1,"name":"Ev"},{"id":2,"name":"Yazlık"}]`,
		"home_selected_id":     `2`,
		"home_xp":              `1250`,
		"finance_transactions": `[{"id":"a","type":"income","amount":0.1},{"id":"b","type":"income","amount":0.2},{"id":"c","type":"expense","amount":0.25}]`,
		"finance_savings":      `[{"id":1,"name":"Tatil","target":20000,"saved":5000},{"id":2,"target":10000,"saved":2500}]`,
	})
}

func TestRead(t *testing.T) {
	b, err := Read(context.Background(), bookStore())
	require.NoError(t, err)

	require.NotNil(t, b.Profile)
	assert.Equal(t, "Kadıköy", b.Profile.Address)
	assert.Len(t, b.History, 5)
	assert.Equal(t, []HomeProfile{{ID: "1", Name: "Ev"}, {ID: "2", Name: "Yazlık"}}, b.Homes, "legacy homes key is read")
	assert.Equal(t, ID("2"), b.SelectedHome)
	assert.Equal(t, int64(1250), b.XP)
	assert.Len(t, b.Transactions, 3)
	assert.Len(t, b.Savings, 2)
}

func TestRead_EmptyStore(t *testing.T) {
	b, err := Read(context.Background(), kv.NewMemory(map[string]string{"home_xp": "null"}))
	require.NoError(t, err)
	assert.Nil(t, b.Profile)
	assert.Empty(t, b.History)
	assert.Zero(t, b.XP)
}

func TestRead_UndecodableSection(t *testing.T) {
	_, err := Read(context.Background(), kv.NewMemory(map[string]string{"finance_savings": `{"not":"a list"}`}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finance_savings")
}

type failingReader struct{}

func (failingReader) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("database is locked")
}

func TestRead_StorageError(t *testing.T) {
	_, err := Read(context.Background(), failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestSummarize(t *testing.T) {
	b, err := Read(context.Background(), bookStore())
	require.NoError(t, err)

	s := Summarize(b)
	assert.Equal(t, "Ahmet", s.Profile)
	assert.Equal(t, 2, s.Homes)
	assert.Equal(t, int64(1250), s.XP)
	assert.Equal(t, map[string]int{"bill": 2, "repair": 1, "warranty": 1, "inspection": 1}, s.Records)
	assert.Equal(t, []string{"bill", "inspection", "repair", "warranty"}, s.RecordKinds())

	assert.Equal(t, "570.85", s.BillTotal.String())
	assert.Equal(t, "1000", s.RepairTotal.String())
	assert.Equal(t, "0.3", s.Income.String(), "decimal sums must be exact")
	assert.Equal(t, "0.25", s.Expense.String())
	assert.Equal(t, "0.05", s.Net.String())
	assert.Equal(t, 3, s.Transactions)
	assert.Equal(t, "7500", s.SavedTotal.String())
	assert.Equal(t, "30000", s.TargetTotal.String())
	assert.Equal(t, "25", s.SavingsProgress.String())
}

func TestSummarize_EmptyBook(t *testing.T) {
	s := Summarize(&Book{})
	assert.Empty(t, s.Records)
	assert.True(t, s.Net.IsZero())
	assert.True(t, s.SavingsProgress.IsZero())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"net":"0"`)
}
