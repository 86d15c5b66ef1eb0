// internal/httpserver/routes_daily.go
//
// Daily results.
//   - GET /api/daily/leaderboard?date= → top 20 winners for a date (default today)
//   - GET /api/daily/status            → whether the current player has finished today
//
// Results are written by the session routes when a game ends; a player has at
// most one row per date (enforced by the daily_results unique key).

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rayonlar/internal/daily"
)

const leaderboardSize = 20

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/api/daily", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/status", s.handleDailyStatus)
	})
}

// lbRes is returned by /api/daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.puzzles.Now())
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, leaderboardSize)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

type statusRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

func (s *Server) handleDailyStatus(w http.ResponseWriter, r *http.Request) {
	date := daily.DateKey(s.puzzles.Now())
	played, err := s.daily.AlreadyPlayed(r.Context(), s.playerID(w, r), date)
	if err != nil {
		log.Error().Err(err).Msg("daily status")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, statusRes{Date: date, Played: played})
}
