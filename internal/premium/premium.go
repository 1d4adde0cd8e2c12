// Package premium tracks the user's purchased entitlements.
//
// A Service is created with a Provider, initialized once per process with
// Init and released with Teardown. Commands receive the Service they use;
// there is no package-level instance.
package premium

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/thoreinstein/evdefteri/internal/errors"
	"github.com/thoreinstein/evdefteri/internal/logging"
)

// State is the lifecycle state of a Service.
type State string

const (
	// StateUninitialized is the state before Init and after Teardown.
	StateUninitialized State = "uninitialized"
	// StateReady means entitlements were loaded.
	StateReady State = "ready"
	// StateUnavailable means the provider failed; the app runs without
	// premium features.
	StateUnavailable State = "unavailable"
)

// ErrNotReady is returned by queries on a Service that is not ready.
var ErrNotReady = errors.New("premium service not ready")

// Entitlement is one purchased product.
type Entitlement struct {
	Product string `json:"product"`
	// ExpiresAt is nil for lifetime purchases.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Receipt   string     `json:"receipt,omitempty"`
}

// ActiveAt reports whether e is valid at t.
func (e Entitlement) ActiveAt(t time.Time) bool {
	return e.ExpiresAt == nil || t.Before(*e.ExpiresAt)
}

// Provider loads entitlements from wherever purchases are recorded.
type Provider interface {
	Entitlements(ctx context.Context) ([]Entitlement, error)
}

// Service holds the entitlements loaded from a Provider.
type Service struct {
	provider Provider
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.RWMutex
	state        State
	entitlements []Entitlement
	lastErr      error
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used to decide which entitlements are active.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an uninitialized Service backed by p.
func NewService(p Provider, opts ...Option) *Service {
	s := &Service{
		provider: p,
		logger:   logging.NewDiscard(),
		now:      time.Now,
		state:    StateUninitialized,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads entitlements and returns the resulting state. A provider error
// leaves the service unavailable instead of failing; Err returns the cause.
// Calling Init on a ready service does nothing.
func (s *Service) Init(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateReady {
		return s.state
	}

	ents, err := s.provider.Entitlements(ctx)
	if err != nil {
		s.logger.Warn("premium unavailable", "error", err)
		s.state, s.entitlements, s.lastErr = StateUnavailable, nil, err
		return s.state
	}

	s.state, s.entitlements, s.lastErr = StateReady, ents, nil
	s.logger.Debug("premium ready", "entitlements", len(ents))
	return s.state
}

// Teardown drops loaded entitlements and returns the service to the
// uninitialized state.
func (s *Service) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.entitlements, s.lastErr = StateUninitialized, nil, nil
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the provider error that made the service unavailable.
func (s *Service) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Active returns the entitlements valid now, sorted by product.
func (s *Service) Active() ([]Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateReady {
		return nil, ErrNotReady
	}

	now := s.now()
	var active []Entitlement
	for _, e := range s.entitlements {
		if e.ActiveAt(now) {
			active = append(active, e)
		}
	}
	slices.SortFunc(active, func(a, b Entitlement) int {
		return strings.Compare(a.Product, b.Product)
	})
	return active, nil
}

// Has reports whether product is currently entitled. It is false whenever
// the service is not ready.
func (s *Service) Has(product string) bool {
	active, err := s.Active()
	if err != nil {
		return false
	}
	return slices.ContainsFunc(active, func(e Entitlement) bool { return e.Product == product })
}
