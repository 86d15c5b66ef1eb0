package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/robalobadob/rayonlar/internal/client"
	"github.com/robalobadob/rayonlar/internal/game"
	"github.com/robalobadob/rayonlar/internal/i18n"
	"github.com/robalobadob/rayonlar/internal/regions"
)

var (
	colorTitle  = color.Style{color.FgCyan, color.OpBold}
	colorHit    = color.Style{color.FgGreen, color.OpBold}
	colorMiss   = color.Style{color.FgRed}
	colorHint   = color.Style{color.FgYellow}
	colorDenied = color.Style{color.FgRed, color.OpBold}
	colorSubtle = color.Style{color.FgGray}
)

// backend is what the terminal needs from the server.
type backend interface {
	game.PuzzleSource
	game.Evaluator
	Search(ctx context.Context, q string) []regions.Hit
}

type app struct {
	out    io.Writer
	be     backend
	sess   *game.Session
	search *client.Searcher
	msgs   *i18n.Messages
}

func newApp(out io.Writer, be backend, catalog []string, msgs *i18n.Messages, rng game.Rand) *app {
	return &app{
		out:    out,
		be:     be,
		sess:   game.NewSession("terminal", be, catalog, rng),
		search: client.NewSearcher(be.Search),
		msgs:   msgs,
	}
}

// run loads the puzzle and reads commands until /q or EOF.
func (a *app) run(ctx context.Context, in io.Reader) error {
	if err := a.sess.Start(ctx, a.be); err != nil {
		fmt.Fprintln(a.out, colorDenied.Sprint(a.msgs.Get(i18n.MsgLoadFailed)))
		return err
	}
	p := a.sess.State().Puzzle
	fmt.Fprintln(a.out, colorTitle.Sprintf("Rayonlar %s: %s → %s (par %d, max %d)",
		p.Date, p.StartName, p.EndName, p.Par, p.MaxGuesses))

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if a.handle(ctx, sc.Text()) {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return sc.Err()
}

// handle executes one input line and reports whether to quit.
func (a *app) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case line == "/q":
		return true
	case line == "??":
		a.sess.AllHints()
		fmt.Fprintln(a.out, colorHint.Sprintf("💡 %s", strings.Join(a.sess.State().HintIDs, ", ")))
	case line == "?":
		if id := a.sess.NextHint(); id != "" {
			fmt.Fprintln(a.out, colorHint.Sprintf("💡 %s", id))
		} else {
			fmt.Fprintln(a.out, colorSubtle.Sprint("💡 -"))
		}
	case strings.HasPrefix(line, "/s "):
		hits, ok := a.search.Query(ctx, strings.TrimPrefix(line, "/s "))
		if !ok {
			return false
		}
		names := make([]string, len(hits))
		for i, h := range hits {
			names[i] = h.Name
		}
		fmt.Fprintln(a.out, colorSubtle.Sprint(strings.Join(names, ", ")))
	default:
		a.guess(ctx, line)
	}
	return false
}

func (a *app) guess(ctx context.Context, raw string) {
	out := a.sess.Guess(ctx, raw)
	switch {
	case out.Ignored:
		return
	case out.Err != nil:
		msg := a.msgs.Error(out.Err)
		if out.Message != "" {
			msg = out.Message
		}
		fmt.Fprintln(a.out, colorDenied.Sprint(msg))
		return
	}

	st := a.sess.State()
	style := colorMiss
	if out.Guess.OnPath {
		style = colorHit
	}
	fmt.Fprintf(a.out, "%s  %s\n", style.Sprint(out.Guess.RegionName),
		colorSubtle.Sprintf("%d/%d · %d/%d", len(st.Guesses), st.Puzzle.MaxGuesses, st.CorrectCount(), st.Puzzle.Par))

	switch st.Status {
	case game.StatusWon:
		fmt.Fprintln(a.out, colorHit.Sprint(a.msgs.Get(i18n.MsgWon)))
		fmt.Fprintln(a.out, game.ShareText(st))
	case game.StatusLost:
		fmt.Fprintln(a.out, colorDenied.Sprint(a.msgs.Get(i18n.MsgLost)))
		fmt.Fprintln(a.out, game.ShareText(st))
	}
}
