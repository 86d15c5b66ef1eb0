package game

import (
	"math/rand"
	"reflect"
	"testing"
)

// firstRand always picks index 0.
type firstRand struct{ calls []int }

func (f *firstRand) Intn(n int) int {
	f.calls = append(f.calls, n)
	return 0
}

var catalog = []string{"A", "B", "C", "D", "E", "F", "Z"}

func TestNextHintRevealsRemaining(t *testing.T) {
	s := mustAccept(t, active(3, 6), miss("B"))
	rng := &firstRand{}

	s, id := s.NextHint(catalog, rng)
	if id != "C" {
		t.Errorf("expected C (first non-visible), got %q", id)
	}
	if s.HintsUsed != 1 {
		t.Errorf("expected 1 hint used, got %d", s.HintsUsed)
	}
	// Remaining set excluded A, B, Z.
	if !reflect.DeepEqual(rng.calls, []int{4}) {
		t.Errorf("expected pick among 4 regions, got %v", rng.calls)
	}
}

func TestNextHintCeiling(t *testing.T) {
	s := active(3, 6)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < MaxHints; i++ {
		var id string
		s, id = s.NextHint(catalog, rng)
		if id == "" {
			t.Fatalf("hint %d revealed nothing", i+1)
		}
	}
	next, id := s.NextHint(catalog, rng)
	if id != "" || next.HintsUsed != MaxHints || len(next.HintIDs) != MaxHints {
		t.Errorf("4th hint should be a no-op, got id=%q state=%+v", id, next)
	}
}

func TestNextHintDistinct(t *testing.T) {
	s := active(3, 6)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < MaxHints; i++ {
		s, _ = s.NextHint(catalog, rng)
	}
	seen := map[string]bool{}
	for _, id := range s.HintIDs {
		if seen[id] || id == "A" || id == "Z" {
			t.Errorf("bad hint %s in %v", id, s.HintIDs)
		}
		seen[id] = true
	}
}

func TestNextHintExhausted(t *testing.T) {
	s := active(3, 6)
	s = mustAccept(t, s, miss("B"))
	s.HintIDs = []string{"C", "D", "E", "F"}

	next, id := s.NextHint(catalog, &firstRand{})
	if id != "" || next.HintsUsed != 0 {
		t.Errorf("expected no-op when nothing remains, got id=%q used=%d", id, next.HintsUsed)
	}
}

func TestNextHintInactive(t *testing.T) {
	if _, id := New().NextHint(catalog, &firstRand{}); id != "" {
		t.Error("loading session must not reveal hints")
	}
	won := mustAccept(t, active(1, 3), hit("B"))
	if _, id := won.NextHint(catalog, &firstRand{}); id != "" {
		t.Error("finished session must not reveal hints")
	}
}

func TestAllHints(t *testing.T) {
	s := active(3, 6)
	s, _ = s.NextHint(catalog, &firstRand{})
	s = mustAccept(t, s, miss("D"))

	all := s.AllHints(catalog)
	if all.HintsUsed != MaxHints {
		t.Errorf("expected hints used %d, got %d", MaxHints, all.HintsUsed)
	}
	if got := all.VisibleRegionIDs(); !reflect.DeepEqual(got, catalog) {
		t.Errorf("expected every region visible, got %v", got)
	}
	if _, id := all.NextHint(catalog, &firstRand{}); id != "" {
		t.Error("hint after AllHints should be a no-op")
	}
	if len(s.HintIDs) != 1 {
		t.Error("AllHints mutated its receiver")
	}
	if got := New().AllHints(catalog); got.HintsUsed != 0 {
		t.Error("AllHints without a puzzle should be a no-op")
	}
}

func TestAllHintsAfterFinish(t *testing.T) {
	won := mustAccept(t, active(1, 3), hit("B"))
	all := won.AllHints(catalog)
	if !all.Won() {
		t.Fatal("revealing the map must not leave the won state")
	}
	if len(all.VisibleRegionIDs()) != len(catalog) {
		t.Errorf("expected full map, got %v", all.VisibleRegionIDs())
	}
}
