package premium

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/kv"
)

// StorageKey holds the locally cached entitlement list as a JSON array.
const StorageKey = "premium_entitlements"

// StoreProvider reads entitlements cached in a key-value store.
type StoreProvider struct {
	r kv.Reader
}

// NewStoreProvider returns a Provider reading StorageKey from r.
func NewStoreProvider(r kv.Reader) *StoreProvider {
	return &StoreProvider{r: r}
}

// Entitlements returns the cached list. A missing or empty key means no
// purchases.
func (p *StoreProvider) Entitlements(ctx context.Context) ([]Entitlement, error) {
	raw, ok, err := p.r.Get(ctx, StorageKey)
	if err != nil {
		return nil, errors.Wrap(err, "reading entitlements")
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ents []Entitlement
	if err := json.Unmarshal([]byte(raw), &ents); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding entitlements"), errors.ErrInvalidJSON)
	}
	for i, e := range ents {
		if e.Product == "" {
			return nil, errors.Newf("entitlement #%d has no product", i+1)
		}
	}
	return ents, nil
}
