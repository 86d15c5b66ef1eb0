// internal/store/memory.go
//
// Session persistence for the HTTP API.
// A Session is the server-side envelope around a game.State: who plays it,
// when it started, and whether its daily result was already recorded.
//
// Besides sessions a Store keeps two pieces of cross-request state:
//   - owners: which session a player is playing for a given date.
//   - locks:  a non-blocking per-session lock that serializes writers.
//
// Implementations:
//   - memory (this file): maps in one process, lost on restart.
//   - redis (redis.go):   keys with a TTL, shared between instances.
//
// Get returns ErrNotFound for unknown ids. Returned values are copies; callers
// must Save to persist changes.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/rayonlar/internal/game"
)

var (
	// ErrNotFound is returned by Get and Owner for unknown keys.
	ErrNotFound = errors.New("session not found")
	// ErrLocked is returned by TryLock when another request holds the session.
	ErrLocked = errors.New("session locked")
)

// DefaultTTL keeps a session around for two days, long enough to outlive its puzzle.
const DefaultTTL = 48 * time.Hour

// LockTTL bounds how long a crashed holder can keep a session locked.
const LockTTL = 15 * time.Second

// Session is one stored game.
type Session struct {
	ID        string     `json:"id"`
	PlayerID  string     `json:"player_id"`
	StartedAt time.Time  `json:"started_at"`
	Recorded  bool       `json:"recorded"` // daily result written
	State     game.State `json:"state"`
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (Session, error)

	// Owner returns the session id player is playing on date, or ErrNotFound.
	Owner(ctx context.Context, player, date string) (string, error)

	// SetOwner records id as player's session on date.
	SetOwner(ctx context.Context, player, date, id string) error

	// ClearOwner forgets player's session on date.
	ClearOwner(ctx context.Context, player, date string) error

	// TryLock takes the lock on session id without waiting. It returns
	// ErrLocked while someone else holds it.
	TryLock(ctx context.Context, id string) (release func(), err error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex       // guards sessions and owners
	sessions map[string]Session // keyed by Session.ID
	owners   map[string]owned   // keyed by ownerKey
	ttl      time.Duration
	now      func() time.Time

	locks *keyedLocks
}

type owned struct {
	id      string
	expires time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		sessions: make(map[string]Session),
		owners:   make(map[string]owned),
		ttl:      DefaultTTL,
		now:      time.Now,
		locks:    newKeyedLocks(),
	}
}

func ownerKey(player, date string) string { return "owner:" + date + ":" + player }

func (m *memory) Save(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.State = cloneState(s.State)
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	s.State = cloneState(s.State)
	return s, nil
}

func (m *memory) Owner(ctx context.Context, player, date string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.owners[ownerKey(player, date)]
	if !ok || !m.now().Before(o.expires) {
		return "", ErrNotFound
	}
	return o.id, nil
}

// SetOwner also drops expired owner entries so the map stays bounded by the
// players of the last TTL window.
func (m *memory) SetOwner(ctx context.Context, player, date, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, o := range m.owners {
		if !now.Before(o.expires) {
			delete(m.owners, k)
		}
	}
	m.owners[ownerKey(player, date)] = owned{id: id, expires: now.Add(m.ttl)}
	return nil
}

func (m *memory) ClearOwner(ctx context.Context, player, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.owners, ownerKey(player, date))
	return nil
}

func (m *memory) TryLock(ctx context.Context, id string) (func(), error) {
	release := m.locks.TryLock(id)
	if release == nil {
		return nil, ErrLocked
	}
	return release, nil
}

// cloneState detaches st from slices and the puzzle pointer it shares with the caller.
func cloneState(st game.State) game.State {
	st.Guesses = append([]game.Guess(nil), st.Guesses...)
	st.HintIDs = append([]string(nil), st.HintIDs...)
	if st.Puzzle != nil {
		p := *st.Puzzle
		st.Puzzle = &p
	}
	return st
}
