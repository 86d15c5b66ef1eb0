package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gookit/color"

	"github.com/robalobadob/rayonlar/internal/game"
	"github.com/robalobadob/rayonlar/internal/i18n"
	"github.com/robalobadob/rayonlar/internal/regions"
)

type fakeBackend struct {
	puzzle  game.Puzzle
	loadErr error
	path    map[string]bool
}

func (f *fakeBackend) Today(context.Context) (game.Puzzle, error) { return f.puzzle, f.loadErr }

func (f *fakeBackend) Evaluate(_ context.Context, raw string) (game.Verdict, error) {
	switch raw {
	case "A", "B", "C", "D", "Z":
		return game.Verdict{Valid: true, RegionID: raw, RegionName: raw, OnPath: f.path[raw]}, nil
	}
	return game.Verdict{Valid: false, Message: "Rayon tapılmadı"}, nil
}

func (f *fakeBackend) Search(_ context.Context, q string) []regions.Hit {
	return []regions.Hit{{ID: "B", Name: "Bravo " + q}}
}

type firstRand struct{}

func (firstRand) Intn(int) int { return 0 }

func newTestApp(t *testing.T, be *fakeBackend) (*app, *bytes.Buffer) {
	t.Helper()
	color.Enable = false
	msgs, err := i18n.Load("en")
	if err != nil {
		t.Fatalf("load messages: %v", err)
	}
	var out bytes.Buffer
	return newApp(&out, be, []string{"A", "B", "C", "D", "Z"}, msgs, firstRand{}), &out
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		puzzle: game.Puzzle{StartID: "A", StartName: "A", EndID: "Z", EndName: "Z", Par: 2, Date: "2026-10-14", MaxGuesses: 5},
		path:   map[string]bool{"A": true, "B": true, "D": true, "Z": true},
	}
}

func TestPlayToWin(t *testing.T) {
	a, out := newTestApp(t, newFakeBackend())
	in := strings.NewReader("B\nC\nC\nX\nD\n/q\n")
	if err := a.run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"A → Z (par 2, max 5)",
		"You already guessed this region",
		"Rayon tapılmadı",
		"Congratulations! You found the path",
		"🟩🟥🟩",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output:\n%s", want, text)
		}
	}
	if st := a.sess.State(); st.Status != game.StatusWon || len(st.Guesses) != 3 {
		t.Errorf("expected won with 3 guesses, got %+v", st)
	}
}

func TestPlayCommands(t *testing.T) {
	a, out := newTestApp(t, newFakeBackend())
	in := strings.NewReader("A\n?\n/s br\n??\n")
	if err := a.run(context.Background(), in); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "You cannot guess the start or end region") {
		t.Errorf("expected forbidden message in:\n%s", text)
	}
	if !strings.Contains(text, "💡 B") {
		t.Errorf("expected first hint B in:\n%s", text)
	}
	if !strings.Contains(text, "Bravo br") {
		t.Errorf("expected search result in:\n%s", text)
	}
	if st := a.sess.State(); st.HintsUsed != game.MaxHints || len(st.VisibleRegionIDs()) != 5 {
		t.Errorf("expected every region revealed, got %+v", st)
	}
}

func TestPlayLoadFailure(t *testing.T) {
	be := newFakeBackend()
	be.loadErr = errors.New("offline")
	a, out := newTestApp(t, be)
	if err := a.run(context.Background(), strings.NewReader("")); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(out.String(), "The game could not be loaded") {
		t.Errorf("expected load failure message, got %s", out.String())
	}
}
