// internal/game/engine.go
//
// Pure state transitions for a single session.
// Responsibilities:
//   - Enter the active state once the puzzle is known, or the error state if it is not.
//   - Validate evaluator verdicts and append guesses.
//   - Track state transitions: active → won/lost, win checked before loss.
//   - Derive the visible region set.
//
// Every transition takes a State value and returns a new one; slices are
// copied before being appended to, so earlier States stay valid.

package game

import (
	"slices"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// New returns a fresh session waiting for its puzzle.
func New() State {
	return State{Status: StatusLoading, Guesses: []Guess{}, HintIDs: []string{}}
}

// Load moves a loading session to active.
func (s State) Load(p Puzzle) State {
	if s.Status != StatusLoading {
		return s
	}
	next := New()
	next.Status = StatusActive
	next.Puzzle = &p
	return next
}

// Fail moves a loading session to the terminal error state.
func (s State) Fail(err error) State {
	if s.Status != StatusLoading {
		return s
	}
	next := New()
	next.Status = StatusError
	next.Error = err.Error()
	return next
}

// Won and Lost are mutually exclusive and terminal.
func (s State) Won() bool  { return s.Status == StatusWon }
func (s State) Lost() bool { return s.Status == StatusLost }

// CorrectCount returns the number of on-path guesses.
func (s State) CorrectCount() int {
	n := 0
	for _, g := range s.Guesses {
		if g.OnPath {
			n++
		}
	}
	return n
}

// HasGuessed reports whether id is already in the guess sequence.
func (s State) HasGuessed(id string) bool {
	for _, g := range s.Guesses {
		if g.RegionID == id {
			return true
		}
	}
	return false
}

// ApplyGuess validates v against s and, when every check passes, appends it.
//
// Checks, in order:
//   - session not active → ignored
//   - invalid verdict → ErrNotFound
//   - region already guessed → ErrDuplicate
//   - region is the start or end → ErrForbidden
//
// After appending, reaching par wins; otherwise exhausting the budget loses.
func (s State) ApplyGuess(v Verdict) (State, Outcome) {
	if s.Status != StatusActive || s.Puzzle == nil {
		return s, Outcome{Ignored: true}
	}
	if !v.Valid || v.RegionID == "" {
		return s, Outcome{Err: ErrNotFound, Message: v.Message}
	}
	if s.HasGuessed(v.RegionID) {
		return s, Outcome{Err: ErrDuplicate}
	}
	if v.RegionID == s.Puzzle.StartID || v.RegionID == s.Puzzle.EndID {
		return s, Outcome{Err: ErrForbidden}
	}

	g := Guess{RegionID: v.RegionID, RegionName: v.RegionName, OnPath: v.OnPath}
	if g.RegionName == "" {
		g.RegionName = v.RegionID
	}

	next := s
	next.Guesses = append(slices.Clone(s.Guesses), g)
	next.HintIDs = slices.Clone(s.HintIDs)

	if next.CorrectCount() >= s.Puzzle.Par {
		next.Status = StatusWon
	} else if len(next.Guesses) >= s.Puzzle.MaxGuesses {
		next.Status = StatusLost
	}
	return next, Outcome{Accepted: true, Guess: g}
}

// visible is the set {start, end} ∪ guesses ∪ hints.
func (s State) visible() mapset.Set[string] {
	set := mapset.New[string]()
	if s.Puzzle != nil {
		set.Put(s.Puzzle.StartID)
		set.Put(s.Puzzle.EndID)
	}
	for _, g := range s.Guesses {
		set.Put(g.RegionID)
	}
	for _, id := range s.HintIDs {
		set.Put(id)
	}
	return set
}

// VisibleRegionIDs returns the sorted ids that should currently be drawn.
func (s State) VisibleRegionIDs() []string {
	set := s.visible()
	out := make([]string, 0, set.Size())
	set.Each(func(id string) { out = append(out, id) })
	sort.Strings(out)
	return out
}

// IsVisible reports whether id is in the visible set.
func (s State) IsVisible(id string) bool {
	return s.visible().Has(id)
}
