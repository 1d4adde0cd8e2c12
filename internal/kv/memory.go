package kv

import (
	"context"
	"slices"
	"sync"

	"github.com/thoreinstein/evdefteri/internal/errors"
)

// Memory is an in-process Store. The zero value is ready to use.
//
// Fail can be set to inject write failures: when it returns a non-nil error
// for a key, Set and SetBatch return it without storing anything.
type Memory struct {
	mu   sync.Mutex
	data map[string]string

	Fail func(key string) error
}

var (
	_ Store   = (*Memory)(nil)
	_ Batcher = (*Memory)(nil)
)

// NewMemory returns a Memory store seeded with a copy of data.
func NewMemory(data map[string]string) *Memory {
	m := &Memory{data: make(map[string]string, len(data))}
	for k, v := range data {
		m.data[k] = v
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(key); err != nil {
		return err
	}
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}

func (m *Memory) SetBatch(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if err := m.fail(e.Key); err != nil {
			return errors.Wrapf(err, "batch write of %q", e.Key)
		}
	}
	if m.data == nil {
		m.data = make(map[string]string)
	}
	for _, e := range entries {
		m.data[e.Key] = e.Value
	}
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Snapshot returns a copy of the stored data.
func (m *Memory) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

func (m *Memory) fail(key string) error {
	if m.Fail == nil {
		return nil
	}
	return m.Fail(key)
}
