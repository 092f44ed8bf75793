package famclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// SyncState is the lifecycle of the standing connection to the family
// namespace.
type SyncState int

const (
	// StateDisconnected means no listener is active. The initial state, and
	// the terminal one after Stop or a failed Start.
	StateDisconnected SyncState = iota
	// StateLoading means the initial document read is in flight.
	StateLoading
	// StateSubscribed means the listener is active and pushes flow into the
	// state store.
	StateSubscribed
)

func (s SyncState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSubscribed:
		return "subscribed"
	default:
		return "disconnected"
	}
}

// Syncer runs the load-then-listen startup sequence and owns the standing
// subscription. A failed startup is terminal: the syncer reports the error
// and stays disconnected, it never retries on its own.
type Syncer struct {
	mu      sync.Mutex
	gateway Gateway
	store   *StateStore
	code    string
	state   SyncState
	sub     Subscription
}

func NewSyncer(gateway Gateway, store *StateStore, code string) *Syncer {
	return &Syncer{
		gateway: gateway,
		store:   store,
		code:    code,
		state:   StateDisconnected,
	}
}

// State returns the current lifecycle state.
func (s *Syncer) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start loads the remote document into the state store, then subscribes to
// pushes. Calling Start while already subscribed is an error.
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateDisconnected {
		s.mu.Unlock()
		return fmt.Errorf("sync already started (state %s)", s.state)
	}
	s.state = StateLoading
	s.mu.Unlock()

	if err := s.store.InitializeFromRemote(ctx); err != nil {
		s.mu.Lock()
		s.state = StateDisconnected
		s.mu.Unlock()
		return fmt.Errorf("load family document: %w", err)
	}

	sub, err := s.gateway.Subscribe(ctx, s.code, s.store.ApplyRemotePush)
	if err != nil {
		s.mu.Lock()
		s.state = StateDisconnected
		s.mu.Unlock()
		return fmt.Errorf("subscribe to family: %w", err)
	}

	s.mu.Lock()
	s.sub = sub
	s.state = StateSubscribed
	s.mu.Unlock()

	slog.Debug("sync started", "family", s.code)
	return nil
}

// Stop tears down the subscription. Safe to call in any state.
func (s *Syncer) Stop() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.state = StateDisconnected
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
		slog.Debug("sync stopped", "family", s.code)
	}
}
