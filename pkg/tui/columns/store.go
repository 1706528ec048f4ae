// Package columns persists, per named grid, the set of columns a user
// has hidden, and projects that set into a visibility model consumable
// by a table widget. Updates are optimistic: the in-memory set changes
// immediately and persistence happens in the background.
package columns

import (
	"context"
	"sync"

	"github.com/hallgrim/parapet/pkg/apctx"
	"github.com/hallgrim/parapet/pkg/logging"
)

// PreferenceClient is the persistence collaborator for column
// preferences, addressed by an opaque grid identifier.
type PreferenceClient interface {
	GetColumnPreference(ctx context.Context, gridID string) (hidden []string, found bool, err error)
	PutColumnPreference(ctx context.Context, gridID string, hidden []string) error
	DeleteColumnPreference(ctx context.Context, gridID string) error
}

// State tracks the store lifecycle. Only in StateReady does the
// projection reflect persisted truth.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// Field names that must never become keys of the visibility projection.
// They are dropped at load time and again at projection time.
var unsafeFields = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// Store holds the hidden-column set for one grid identifier.
type Store struct {
	gridID string
	client PreferenceClient
	logger logging.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	state  State
	hidden []string // ordered, unique

	// Persistence queue: one worker per store serializes writes in
	// toggle order, coalescing a backlog into the newest snapshot so a
	// stale write can never overwrite a newer local state.
	pending  []string
	dirty    bool
	inFlight bool
	closed   bool
	started  bool
}

// NewStore creates a Store for one grid identifier.
func NewStore(gridID string, client PreferenceClient) *Store {
	s := &Store{
		gridID: gridID,
		client: client,
		logger: logging.GetDefaultLogger().WithComponent("columns"),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// GridID returns the grid identifier this store persists under.
func (s *Store) GridID() string {
	return s.gridID
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load fetches the persisted hidden-column set. Any retrieval failure,
// including an authorization failure, falls back silently to an empty
// set - a missing preference is never a fatal condition.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	ctx, cancel := apctx.WithPreferenceTimeout(ctx)
	defer cancel()

	hidden, found, err := s.client.GetColumnPreference(ctx, s.gridID)
	if err != nil {
		s.logger.Debug("column preference load failed, defaulting to all visible: gridId=%s err=%v", s.gridID, err)
		hidden = nil
	} else if !found {
		hidden = nil
	}

	s.mu.Lock()
	s.hidden = sanitizeFields(hidden)
	s.state = StateReady
	s.mu.Unlock()
}

// SetHidden replaces the hidden-column set. The in-memory set changes
// immediately; persistence is queued in the background. A persistence
// failure is logged but never rolls back the in-memory change.
func (s *Store) SetHidden(fields []string) {
	clean := sanitizeFields(fields)

	s.mu.Lock()
	s.hidden = clean
	s.pending = append([]string(nil), clean...)
	s.dirty = true
	if !s.started {
		s.started = true
		go s.persistLoop()
	}
	s.cond.Broadcast()
	s.mu.Unlock()
}

// persistLoop drains queued writes one at a time, always taking the
// newest snapshot. Runs until Close.
func (s *Store) persistLoop() {
	for {
		s.mu.Lock()
		for !s.dirty && !s.closed {
			s.cond.Wait()
		}
		if s.closed && !s.dirty {
			s.mu.Unlock()
			return
		}
		snapshot := s.pending
		s.dirty = false
		s.inFlight = true
		s.mu.Unlock()

		ctx, cancel := apctx.WithPreferenceTimeout(context.Background())
		err := s.client.PutColumnPreference(ctx, s.gridID, snapshot)
		cancel()
		if err != nil {
			// Optimistic UI wins: the local set already reflects intent
			s.logger.Warn("column preference persist failed: gridId=%s err=%v", s.gridID, err)
		}

		s.mu.Lock()
		s.inFlight = false
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

// Wait blocks until every queued persistence call has completed.
func (s *Store) Wait() {
	s.mu.Lock()
	for s.dirty || s.inFlight {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// Close stops the background persistence worker after the queue drains.
// A write still in flight completes or fails on its own; it never
// reports into a torn-down screen.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Reset deletes the persisted preference and clears the in-memory set.
// Unlike SetHidden this is not optimistic: the in-memory clear happens
// only if the delete succeeds, so a persisted customization is never
// silently discarded.
func (s *Store) Reset(ctx context.Context) error {
	// Discard any queued snapshot and let an in-flight write drain, so
	// a stale Put cannot land after the delete and resurrect the
	// preference.
	s.mu.Lock()
	s.pending = nil
	s.dirty = false
	for s.inFlight {
		s.cond.Wait()
	}
	s.mu.Unlock()

	ctx, cancel := apctx.WithPreferenceTimeout(ctx)
	defer cancel()

	if err := s.client.DeleteColumnPreference(ctx, s.gridID); err != nil {
		s.logger.Warn("column preference reset failed: gridId=%s err=%v", s.gridID, err)
		return err
	}

	s.mu.Lock()
	s.hidden = nil
	s.mu.Unlock()
	return nil
}

// Hidden returns a copy of the current hidden-column set.
func (s *Store) Hidden() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.hidden...)
}

// VisibilityModel maps every hidden field to false; all other fields
// are implicitly visible. Before the store is Ready it returns an empty
// (all-visible) projection rather than blocking rendering. Unsafe field
// names are skipped entirely, regardless of their source.
func (s *Store) VisibilityModel() map[string]bool {
	model := make(map[string]bool)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return model
	}
	for _, field := range s.hidden {
		if unsafeFields[field] {
			continue
		}
		model[field] = false
	}
	return model
}

// sanitizeFields deduplicates in order and drops unsafe field names.
func sanitizeFields(fields []string) []string {
	var clean []string
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f == "" || seen[f] || unsafeFields[f] {
			continue
		}
		seen[f] = true
		clean = append(clean, f)
	}
	return clean
}
