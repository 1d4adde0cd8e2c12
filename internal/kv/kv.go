// Package kv defines the key-value storage the application persists its
// sections in, with SQLite and in-memory implementations.
//
// Values are opaque strings; callers store JSON text. A missing key is not an
// error: Get reports it through the ok result.
package kv

import (
	"context"
)

// Reader reads single keys.
type Reader interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// Writer writes single keys, overwriting any existing value.
type Writer interface {
	Set(ctx context.Context, key, value string) error
}

// Remover deletes keys. Removing a missing key is not an error.
type Remover interface {
	Remove(ctx context.Context, key string) error
}

// Entry is one key/value pair of a batch write.
type Entry struct {
	Key   string
	Value string
}

// Batcher is implemented by stores that can write several keys atomically.
// Either every entry is stored or none is.
type Batcher interface {
	SetBatch(ctx context.Context, entries []Entry) error
}

// Store is a complete key-value store.
type Store interface {
	Reader
	Writer
	Remover
	// Keys returns all keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
}
