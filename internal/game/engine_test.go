package game

import (
	"errors"
	"reflect"
	"testing"
)

func active(par, maxGuesses int) State {
	return New().Load(Puzzle{
		StartID: "A", StartName: "Alpha",
		EndID: "Z", EndName: "Zulu",
		Par: par, MaxGuesses: maxGuesses, Date: "2026-10-14",
	})
}

func hit(id string) Verdict  { return Verdict{Valid: true, RegionID: id, RegionName: id, OnPath: true} }
func miss(id string) Verdict { return Verdict{Valid: true, RegionID: id, RegionName: id} }

func mustAccept(t *testing.T, s State, v Verdict) State {
	t.Helper()
	next, out := s.ApplyGuess(v)
	if !out.Accepted {
		t.Fatalf("guess %s not accepted: %+v", v.RegionID, out)
	}
	return next
}

func TestLoadAndFail(t *testing.T) {
	s := New()
	if s.Status != StatusLoading {
		t.Fatalf("expected loading, got %s", s.Status)
	}
	a := s.Load(Puzzle{StartID: "A", EndID: "Z", Par: 1, MaxGuesses: 2})
	if a.Status != StatusActive || a.Puzzle == nil {
		t.Errorf("expected active with puzzle, got %+v", a)
	}
	if again := a.Load(Puzzle{StartID: "B"}); again.Puzzle.StartID != "A" {
		t.Error("puzzle must not be replaced once loaded")
	}

	f := s.Fail(ErrLoad)
	if f.Status != StatusError || f.Error != ErrLoad.Error() {
		t.Errorf("expected error state, got %+v", f)
	}
	if !f.Status.Terminal() {
		t.Error("error state should be terminal")
	}
	if _, out := f.ApplyGuess(hit("B")); !out.Ignored {
		t.Error("guess in error state should be ignored")
	}
}

func TestEndToEndScenario(t *testing.T) {
	s := active(2, 3)

	s = mustAccept(t, s, hit("B"))
	if s.Won() || s.Lost() || len(s.Guesses) != 1 {
		t.Fatalf("after B: %+v", s)
	}
	s = mustAccept(t, s, miss("C"))
	if s.Won() || s.Lost() || len(s.Guesses) != 2 {
		t.Fatalf("after C: %+v", s)
	}
	s = mustAccept(t, s, hit("D"))
	if !s.Won() || s.Lost() {
		t.Fatalf("after D: expected won, got %s", s.Status)
	}
	want := []Guess{
		{RegionID: "B", RegionName: "B", OnPath: true},
		{RegionID: "C", RegionName: "C"},
		{RegionID: "D", RegionName: "D", OnPath: true},
	}
	if !reflect.DeepEqual(s.Guesses, want) {
		t.Errorf("expected %+v, got %+v", want, s.Guesses)
	}
	if s.CorrectCount() != 2 {
		t.Errorf("expected 2 correct, got %d", s.CorrectCount())
	}
}

func TestWinBeforeLoss(t *testing.T) {
	s := active(2, 5)
	for _, v := range []Verdict{hit("B"), miss("C"), miss("D"), miss("E")} {
		s = mustAccept(t, s, v)
	}
	if s.Status != StatusActive {
		t.Fatalf("expected active after 4 guesses, got %s", s.Status)
	}
	s = mustAccept(t, s, hit("F"))
	if !s.Won() {
		t.Errorf("expected won, got %s", s.Status)
	}
	if s.Lost() {
		t.Error("won and lost must be exclusive")
	}
}

func TestLoss(t *testing.T) {
	s := active(2, 3)
	for _, v := range []Verdict{miss("B"), hit("C"), miss("D")} {
		s = mustAccept(t, s, v)
	}
	if !s.Lost() || s.Won() {
		t.Fatalf("expected lost, got %s", s.Status)
	}
	next, out := s.ApplyGuess(hit("E"))
	if !out.Ignored {
		t.Error("terminal session must ignore guesses")
	}
	if len(next.Guesses) != 3 {
		t.Errorf("expected 3 guesses, got %d", len(next.Guesses))
	}
}

func TestApplyGuessRejections(t *testing.T) {
	s := mustAccept(t, active(3, 6), hit("B"))

	tests := []struct {
		name string
		v    Verdict
		want error
	}{
		{"invalid", Verdict{Valid: false, Message: "nope"}, ErrNotFound},
		{"valid without id", Verdict{Valid: true}, ErrNotFound},
		{"duplicate", miss("B"), ErrDuplicate},
		{"start", hit("A"), ErrForbidden},
		{"end", hit("Z"), ErrForbidden},
	}
	for _, tt := range tests {
		next, out := s.ApplyGuess(tt.v)
		if out.Accepted || !errors.Is(out.Err, tt.want) {
			t.Errorf("%s: expected %v, got %+v", tt.name, tt.want, out)
		}
		if len(next.Guesses) != 1 {
			t.Errorf("%s: guess sequence changed to %d", tt.name, len(next.Guesses))
		}
	}

	_, out := s.ApplyGuess(Verdict{Valid: false, Message: "Rayon tapılmadı"})
	if out.Message != "Rayon tapılmadı" {
		t.Errorf("expected evaluator message passed through, got %q", out.Message)
	}
}

func TestGuessInvariantsOverSequence(t *testing.T) {
	s := active(10, 20)
	seq := []Verdict{hit("B"), hit("A"), miss("C"), miss("B"), hit("Z"), miss("D"), hit("C"), miss("E")}
	for _, v := range seq {
		s, _ = s.ApplyGuess(v)
	}
	seen := map[string]bool{}
	for _, g := range s.Guesses {
		if seen[g.RegionID] {
			t.Errorf("duplicate guess %s", g.RegionID)
		}
		if g.RegionID == "A" || g.RegionID == "Z" {
			t.Errorf("start/end guessed: %s", g.RegionID)
		}
		seen[g.RegionID] = true
	}
	if len(s.Guesses) != 4 {
		t.Errorf("expected 4 accepted guesses, got %d", len(s.Guesses))
	}
}

func TestApplyGuessDoesNotMutateReceiver(t *testing.T) {
	base := mustAccept(t, active(3, 6), hit("B"))
	a := mustAccept(t, base, miss("C"))
	b := mustAccept(t, base, miss("D"))
	if len(base.Guesses) != 1 {
		t.Fatalf("base mutated: %+v", base.Guesses)
	}
	if a.Guesses[1].RegionID != "C" || b.Guesses[1].RegionID != "D" {
		t.Errorf("branches share storage: %+v / %+v", a.Guesses, b.Guesses)
	}
}

func TestRegionNameFallsBackToID(t *testing.T) {
	s, out := active(3, 6).ApplyGuess(Verdict{Valid: true, RegionID: "Baku"})
	if !out.Accepted || s.Guesses[0].RegionName != "Baku" {
		t.Errorf("expected name fallback, got %+v", s.Guesses)
	}
}

func TestVisibleRegionIDs(t *testing.T) {
	if got := New().VisibleRegionIDs(); len(got) != 0 {
		t.Errorf("loading session should show nothing, got %v", got)
	}
	s := active(3, 6)
	s = mustAccept(t, s, miss("C"))
	s.HintIDs = append(s.HintIDs, "H", "C")

	want := []string{"A", "C", "H", "Z"}
	if got := s.VisibleRegionIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !s.IsVisible("H") || s.IsVisible("Q") {
		t.Error("IsVisible disagrees with VisibleRegionIDs")
	}

	// A new puzzle starts from a clean slate.
	fresh := New().Load(Puzzle{StartID: "M", EndID: "N", Par: 1, MaxGuesses: 2})
	if got := fresh.VisibleRegionIDs(); !reflect.DeepEqual(got, []string{"M", "N"}) {
		t.Errorf("stale ids leaked: %v", got)
	}
}
