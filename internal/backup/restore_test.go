package backup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/evdefteri/internal/database"
	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/jsonvalue"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

func mustObject(t *testing.T, s string) *jsonvalue.Object {
	t.Helper()
	v := mustParse(t, s)
	obj, ok := v.(*jsonvalue.Object)
	require.True(t, ok, "expected object, got %T", v)
	return obj
}

// exported returns the subset of state an export carries.
func exported(state map[string]string) map[string]string {
	out := make(map[string]string)
	for _, k := range DefaultKeys() {
		if v, ok := state[k]; ok {
			out[k] = v
		}
	}
	return out
}

func roundTrip(t *testing.T, from kv.Reader, to kv.Writer) {
	t.Helper()
	ctx := context.Background()
	m := NewManager(WithClock(fixedClock))

	data, err := Encode(m.Collect(ctx, from))
	require.NoError(t, err)

	v, err := jsonvalue.Parse(data)
	require.NoError(t, err)
	res := Validate(v)
	require.True(t, res.Accepted(), res.Reason())

	_, err = m.Restore(ctx, v.(*jsonvalue.Object), to)
	require.NoError(t, err)
}

func TestRestore_RoundTripMemory(t *testing.T) {
	src := kv.NewMemory(sampleState())
	dst := kv.NewMemory(nil)

	roundTrip(t, src, dst)

	assert.Equal(t, exported(sampleState()), dst.Snapshot())
}

func TestRestore_RoundTripSQLite(t *testing.T) {
	open := func(name, ns string) *kv.SQLiteStore {
		db, err := database.Open(filepath.Join(t.TempDir(), name))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return kv.NewSQLiteStore(db, ns)
	}
	ctx := context.Background()

	src := open("src.db", "@")
	for k, v := range sampleState() {
		require.NoError(t, src.Set(ctx, k, v))
	}
	dst := open("dst.db", "")

	roundTrip(t, src, dst)

	for k, want := range exported(sampleState()) {
		got, ok, err := dst.Get(ctx, k)
		require.NoError(t, err)
		require.True(t, ok, k)
		assert.Equal(t, want, got, k)
	}
	keys, err := dst.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, len(DefaultKeys()))
}

func TestRestore_IntoSameStoreIsNoOp(t *testing.T) {
	store := kv.NewMemory(sampleState())
	roundTrip(t, store, store)
	assert.Equal(t, sampleState(), store.Snapshot())
}

func TestRestore_LegacyAliases(t *testing.T) {
	ctx := context.Background()
	legacy := mustObject(t, `{"_backup_date":"2024-01-01","homes_list":[{"id":1}],"current_home_id":1}`)
	canonical := mustObject(t, `{"_backup_date":"2024-01-01","home_homes":[{"id":1}],"home_selected_id":1}`)

	a, b := kv.NewMemory(nil), kv.NewMemory(nil)
	_, err := Restore(ctx, legacy, a)
	require.NoError(t, err)
	_, err = Restore(ctx, canonical, b)
	require.NoError(t, err)

	assert.Equal(t, b.Snapshot(), a.Snapshot())
	assert.Equal(t, map[string]string{KeyHomes: `[{"id":1}]`, KeySelectedHome: `1`}, a.Snapshot())
}

func TestRestore_CanonicalPreferredOverLegacy(t *testing.T) {
	doc := mustObject(t, `{"_backup_date":"2024-01-01","homes_list":[{"id":9}],"home_homes":[{"id":1}]}`)
	store := kv.NewMemory(nil)

	report, err := Restore(context.Background(), doc, store)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyHomes}, report.Written)
	assert.Equal(t, map[string]string{KeyHomes: `[{"id":1}]`}, store.Snapshot())
}

func TestRestore_TransactionsOnly(t *testing.T) {
	doc := mustObject(t, `{"_backup_date": "2024-01-01T00:00:00Z", "finance_transactions": [{"id": 1, "amount": 50}]}`)
	store := kv.NewMemory(map[string]string{KeyXP: "10"})

	report, err := Restore(context.Background(), doc, store)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyFinanceTransactions}, report.Written)
	assert.False(t, report.Atomic)
	assert.Equal(t, map[string]string{
		KeyXP:                  "10",
		KeyFinanceTransactions: `[{"id":1,"amount":50}]`,
	}, store.Snapshot())
}

func TestRestore_PartialFailure(t *testing.T) {
	doc := mustObject(t, `{"_backup_date":"2024-01-01","home_xp":5,"home_profile":{"a":1},"home_history":[],"finance_savings":[]}`)
	store := kv.NewMemory(map[string]string{KeyFinanceSavings: `["old"]`})
	store.Fail = func(key string) error {
		if key == KeyXP {
			return errors.New("quota exceeded")
		}
		return nil
	}

	report, err := Restore(context.Background(), doc, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyXP)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, []string{KeyHomeProfile, KeyHomeHistory}, report.Written)

	assert.Equal(t, map[string]string{
		KeyHomeProfile:    `{"a":1}`,
		KeyHomeHistory:    `[]`,
		KeyFinanceSavings: `["old"]`,
	}, store.Snapshot())
}

func TestRestore_Atomic(t *testing.T) {
	doc := mustObject(t, `{"_backup_date":"2024-01-01","home_profile":{"a":1},"home_xp":5}`)

	t.Run("all or nothing", func(t *testing.T) {
		store := kv.NewMemory(map[string]string{KeyXP: "1"})
		store.Fail = func(key string) error {
			if key == KeyXP {
				return errors.New("quota exceeded")
			}
			return nil
		}

		report, err := NewManager(WithAtomic(true)).Restore(context.Background(), doc, store)
		require.Error(t, err)
		assert.True(t, report.Atomic)
		assert.Empty(t, report.Written)
		assert.Equal(t, map[string]string{KeyXP: "1"}, store.Snapshot())
	})

	t.Run("success", func(t *testing.T) {
		store := kv.NewMemory(nil)
		report, err := NewManager(WithAtomic(true)).Restore(context.Background(), doc, store)
		require.NoError(t, err)
		assert.True(t, report.Atomic)
		assert.Equal(t, []string{KeyHomeProfile, KeyXP}, report.Written)
		assert.Len(t, store.Snapshot(), 2)
	})

	t.Run("writer without batch support", func(t *testing.T) {
		store := kv.NewMemory(nil)
		report, err := NewManager(WithAtomic(true)).Restore(context.Background(), doc, setOnly{store})
		require.NoError(t, err)
		assert.False(t, report.Atomic)
		assert.Equal(t, []string{KeyHomeProfile, KeyXP}, report.Written)
	})
}

// setOnly hides every method but Set.
type setOnly struct{ w kv.Writer }

func (s setOnly) Set(ctx context.Context, key, value string) error {
	return s.w.Set(ctx, key, value)
}
