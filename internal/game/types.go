// internal/game/types.go
//
// Core type definitions for the path-guessing game.
// Defines:
//   - Status:  lifecycle of a session (loading → active → won/lost, or error).
//   - Puzzle:  the day's start/end districts, par and guess budget.
//   - Verdict: what the external evaluator says about one raw guess.
//   - Guess:   an accepted guess in submission order.
//   - State:   everything a session knows; transitions return a new State.
//   - Outcome: result of one guess submission, including transient errors.

package game

import (
	"errors"
	"time"
)

// MaxHints is the hint ceiling per session.
const MaxHints = 3

// TransientTTL is how long presenters should show a transient error.
const TransientTTL = 2 * time.Second

// Status is the coarse session state.
type Status string

const (
	StatusLoading Status = "loading"
	StatusActive  Status = "active"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
	StatusError   Status = "error"
)

// Terminal reports whether no further guesses can be accepted.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost || s == StatusError
}

// Transient guess errors. None of them change State.
var (
	ErrNotFound    = errors.New("region not found")
	ErrDuplicate   = errors.New("region already guessed")
	ErrForbidden   = errors.New("start and end regions cannot be guessed")
	ErrUnavailable = errors.New("guess could not be checked")
	ErrBusy        = errors.New("previous guess still pending")
)

// ErrLoad is the persistent error of a session whose puzzle never arrived.
var ErrLoad = errors.New("puzzle could not be loaded")

// Puzzle is the day's challenge. Immutable once loaded.
type Puzzle struct {
	StartID    string `json:"start_id"`
	StartName  string `json:"start_name"`
	EndID      string `json:"end_id"`
	EndName    string `json:"end_name"`
	Par        int    `json:"par"`
	Date       string `json:"date"`
	MaxGuesses int    `json:"max_guesses"`
}

// Verdict is the evaluator's answer for a raw guess.
type Verdict struct {
	Valid      bool   `json:"valid"`
	RegionID   string `json:"region_id,omitempty"`
	RegionName string `json:"region_name,omitempty"`
	OnPath     bool   `json:"is_on_shortest_path"`
	Message    string `json:"message"`
}

// Guess is an accepted guess.
type Guess struct {
	RegionID   string `json:"region_id"`
	RegionName string `json:"region_name"`
	OnPath     bool   `json:"is_on_shortest_path"`
}

// State is a session's canonical data. Visible regions are derived from it,
// never stored.
type State struct {
	Status    Status   `json:"status"`
	Puzzle    *Puzzle  `json:"puzzle,omitempty"`
	Guesses   []Guess  `json:"guesses"`
	HintsUsed int      `json:"hints_used"`
	HintIDs   []string `json:"hint_ids"`
	Error     string   `json:"error,omitempty"` // persistent, set only in StatusError
}

// Outcome describes what one guess submission did.
type Outcome struct {
	Accepted bool   // a Guess was appended
	Ignored  bool   // session not accepting guesses; nothing happened
	Guess    Guess  // set when Accepted
	Err      error  // transient error, nil when Accepted or Ignored
	Message  string // evaluator message accompanying ErrNotFound
}
