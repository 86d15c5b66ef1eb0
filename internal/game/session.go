// internal/game/session.go
//
// Session drives a State against the outside world.
// Responsibilities:
//   - Fetch the day's puzzle once; failures are fatal to the session.
//   - Send raw guesses to the evaluator and fold verdicts into the state.
//   - Serialize guesses: a guess submitted while another is pending is rejected
//     with ErrBusy instead of racing on a stale snapshot.
//   - Translate transport failures into transient errors.
//
// The mutex is never held across a network call.

package game

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// PuzzleSource supplies the day's puzzle.
type PuzzleSource interface {
	Today(ctx context.Context) (Puzzle, error)
}

// Evaluator resolves a raw guess and reports path membership.
type Evaluator interface {
	Evaluate(ctx context.Context, raw string) (Verdict, error)
}

// Session is one player's game. Safe for concurrent use.
type Session struct {
	ID string

	mu      sync.Mutex
	state   State
	pending bool
	eval    Evaluator
	catalog []string
	rng     Rand
}

// NewSession creates a loading session. catalog lists every region id hints may reveal.
func NewSession(id string, eval Evaluator, catalog []string, rng Rand) *Session {
	return Resume(id, New(), eval, catalog, rng)
}

// Resume wraps a previously saved state.
func Resume(id string, st State, eval Evaluator, catalog []string, rng Rand) *Session {
	return &Session{ID: id, state: st, eval: eval, catalog: catalog, rng: rng}
}

// Start fetches the puzzle. On failure the session moves to StatusError with
// ErrLoad as its persistent message and the source's error is returned.
func (s *Session) Start(ctx context.Context, src PuzzleSource) error {
	p, err := src.Today(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("session", s.ID).Msg("puzzle fetch failed")
		s.state = s.state.Fail(ErrLoad)
		return err
	}
	s.state = s.state.Load(p)
	return nil
}

// Guess submits raw input. Empty input is rejected without calling the evaluator.
func (s *Session) Guess(ctx context.Context, raw string) Outcome {
	raw = strings.TrimSpace(raw)

	s.mu.Lock()
	if s.state.Status != StatusActive {
		s.mu.Unlock()
		return Outcome{Ignored: true}
	}
	if s.pending {
		s.mu.Unlock()
		return Outcome{Err: ErrBusy}
	}
	if raw == "" {
		s.mu.Unlock()
		return Outcome{Err: ErrNotFound}
	}
	s.pending = true
	s.mu.Unlock()

	v, err := s.eval.Evaluate(ctx, raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if err != nil {
		log.Warn().Err(err).Str("session", s.ID).Str("guess", raw).Msg("evaluate guess")
		return Outcome{Err: ErrUnavailable}
	}
	var out Outcome
	s.state, out = s.state.ApplyGuess(v)
	return out
}

// NextHint reveals one more region. Returns "" when nothing was revealed.
func (s *Session) NextHint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id string
	s.state, id = s.state.NextHint(s.catalog, s.rng)
	return id
}

// AllHints reveals every remaining region.
func (s *Session) AllHints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.AllHints(s.catalog)
}

// State returns the current state. Callers must treat its slices as read-only.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
