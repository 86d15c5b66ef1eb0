// internal/game/share.go

package game

import (
	"fmt"
	"strings"
)

// ShareText renders a spoiler-free summary: result line, one square per guess
// in order (green on the path, red off it), and hints used.
func ShareText(s State) string {
	if s.Puzzle == nil {
		return ""
	}
	var sb strings.Builder
	result := fmt.Sprintf("%d/%d", len(s.Guesses), s.Puzzle.MaxGuesses)
	switch s.Status {
	case StatusWon:
		result = "✅ " + result
	case StatusLost:
		result = "❌ X/" + fmt.Sprint(s.Puzzle.MaxGuesses)
	}
	fmt.Fprintf(&sb, "Rayonlar %s %s\n", s.Puzzle.Date, result)
	fmt.Fprintf(&sb, "%s → %s (par %d)\n", s.Puzzle.StartName, s.Puzzle.EndName, s.Puzzle.Par)
	for _, g := range s.Guesses {
		if g.OnPath {
			sb.WriteString("🟩")
		} else {
			sb.WriteString("🟥")
		}
	}
	if s.HintsUsed > 0 {
		fmt.Fprintf(&sb, "\n💡 %d", s.HintsUsed)
	}
	return sb.String()
}
