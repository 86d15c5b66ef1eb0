// internal/httpserver/routes_game.go
//
// Puzzle service surface. These are the endpoints internal/client consumes:
//   - GET /api/regions                 → every district with geometry and centroid
//   - GET /api/game/today              → today's start/end, par and guess budget
//   - GET /api/game/guess?name=        → resolve a raw guess, report path membership
//   - GET /api/game/search?q=          → autocomplete (max 8)
//   - GET /api/game/adjacents/{id}     → sorted neighbours of a district

package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rayonlar/internal/i18n"
	"github.com/robalobadob/rayonlar/internal/puzzle"
	"github.com/robalobadob/rayonlar/internal/regions"
)

func (s *Server) mountGame(r chi.Router) {
	r.Get("/api/regions", s.handleRegions)
	r.Route("/api/game", func(r chi.Router) {
		r.Get("/today", s.handleToday)
		r.Get("/guess", s.handleEvaluate)
		r.Get("/search", s.handleSearch)
		r.Get("/adjacents/{id}", s.handleAdjacents)
	})
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.puzzles.Catalog().All())
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	p, err := s.puzzles.Today(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("generate puzzle")
		writeError(w, http.StatusServiceUnavailable, s.msgs.Get(i18n.MsgLoadFailed))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	v, err := s.puzzles.Evaluate(r.Context(), name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("evaluate guess")
		writeError(w, http.StatusServiceUnavailable, s.msgs.Get(i18n.MsgUnavailable))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, "q required")
		return
	}
	writeJSON(w, http.StatusOK, s.puzzles.Search(q, regions.DefaultSearchLimit))
}

type adjacentsRes struct {
	RegionID  string   `json:"region_id"`
	Adjacents []string `json:"adjacents"`
}

func (s *Server) handleAdjacents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := s.puzzles.Adjacents(id)
	if errors.Is(err, puzzle.ErrUnknown) {
		writeError(w, http.StatusNotFound, "Region '"+id+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, adjacentsRes{RegionID: id, Adjacents: n})
}
