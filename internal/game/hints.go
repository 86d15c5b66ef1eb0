// internal/game/hints.go
//
// Hint transitions. NextHint reveals one random hidden region while the game
// is active, at most MaxHints times; AllHints reveals the whole map.

package game

import "slices"

// Rand is the random source used to pick hints. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// remaining returns catalog ids that are not yet visible, in catalog order.
func (s State) remaining(catalog []string) []string {
	shown := s.visible()
	out := []string{}
	for _, id := range catalog {
		if !shown.Has(id) {
			shown.Put(id) // catalog duplicates count once
			out = append(out, id)
		}
	}
	return out
}

// NextHint reveals one not-yet-visible region chosen uniformly with rng.
// It is a no-op at the hint ceiling, outside the active state, or when every
// region is already visible. Returns the revealed id, or "" if nothing changed.
func (s State) NextHint(catalog []string, rng Rand) (State, string) {
	if s.Status != StatusActive || s.HintsUsed >= MaxHints {
		return s, ""
	}
	rest := s.remaining(catalog)
	if len(rest) == 0 {
		return s, ""
	}
	id := rest[rng.Intn(len(rest))]

	next := s
	next.Guesses = slices.Clone(s.Guesses)
	next.HintIDs = append(slices.Clone(s.HintIDs), id)
	next.HintsUsed = s.HintsUsed + 1
	return next, id
}

// AllHints reveals every remaining region and jumps the hint count to the
// ceiling. Finished sessions may still reveal the whole map; sessions without
// a puzzle are left alone.
func (s State) AllHints(catalog []string) State {
	if s.Puzzle == nil || s.Status == StatusLoading || s.Status == StatusError {
		return s
	}
	next := s
	next.Guesses = slices.Clone(s.Guesses)
	next.HintIDs = append(slices.Clone(s.HintIDs), s.remaining(catalog)...)
	next.HintsUsed = MaxHints
	return next
}
