// internal/httpserver/routes_session.go
//
// Server-driven game sessions.
//   - POST /api/session             → start (or resume) today's game for the player
//   - GET  /api/session/{id}         → snapshot
//   - POST /api/session/{id}/guess   → submit {"guess": "..."}
//   - POST /api/session/{id}/hint    → reveal one region
//   - POST /api/session/{id}/hints   → reveal every region
//   - GET  /api/session/{id}/map.svg → visible regions drawn on one shared bbox
//
// Each request resumes the stored game.State in a game.Session, applies one
// operation and saves the result. A per-session lock is taken without waiting;
// a request that finds it held is answered 409 "busy".
// A session that finishes records the player's daily result exactly once.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rayonlar/internal/daily"
	"github.com/robalobadob/rayonlar/internal/game"
	"github.com/robalobadob/rayonlar/internal/geo"
	"github.com/robalobadob/rayonlar/internal/i18n"
	"github.com/robalobadob/rayonlar/internal/logger"
	"github.com/robalobadob/rayonlar/internal/store"
)

func (s *Server) mountSessions(r chi.Router) {
	r.Route("/api/session", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}", s.handleGetSession)
		r.Post("/{id}/guess", s.handleSessionGuess)
		r.Post("/{id}/hint", s.handleSessionHint)
		r.Post("/{id}/hints", s.handleSessionAllHints)
		r.Get("/{id}/map.svg", s.handleSessionMap)
	})
}

// sessionView is the client-facing snapshot of a stored session.
type sessionView struct {
	ID        string       `json:"id"`
	Status    game.Status  `json:"status"`
	Puzzle    *game.Puzzle `json:"puzzle,omitempty"`
	Guesses   []game.Guess `json:"guesses"`
	Correct   int          `json:"correct"`
	HintsUsed int          `json:"hints_used"`
	HintIDs   []string     `json:"hint_ids"`
	Visible   []string     `json:"visible_region_ids"`
	Share     string       `json:"share,omitempty"`
	Message   string       `json:"message,omitempty"` // result or persistent error, localized
}

func (s *Server) view(rec store.Session) sessionView {
	st := rec.State
	v := sessionView{
		ID:        rec.ID,
		Status:    st.Status,
		Puzzle:    st.Puzzle,
		Guesses:   st.Guesses,
		Correct:   st.CorrectCount(),
		HintsUsed: st.HintsUsed,
		HintIDs:   st.HintIDs,
		Visible:   st.VisibleRegionIDs(),
		Share:     game.ShareText(st),
	}
	if v.Guesses == nil {
		v.Guesses = []game.Guess{}
	}
	if v.HintIDs == nil {
		v.HintIDs = []string{}
	}
	switch st.Status {
	case game.StatusWon:
		v.Message = s.msgs.Get(i18n.MsgWon)
	case game.StatusLost:
		v.Message = s.msgs.Get(i18n.MsgLost)
	case game.StatusError:
		v.Message = s.msgs.Get(i18n.MsgLoadFailed)
	}
	return v
}

// -----------------------------------------------------------------------------
// POST /api/session

type createSessionRes struct {
	Date    string       `json:"date"`
	Played  bool         `json:"played"`
	Session *sessionView `json:"session,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pid := s.playerID(w, r)
	date := daily.DateKey(s.puzzles.Now())

	if played, err := s.daily.AlreadyPlayed(ctx, pid, date); err == nil && played {
		writeJSON(w, http.StatusOK, createSessionRes{Date: date, Played: true})
		return
	}

	// Reuse today's session if this player already has one.
	if existing, err := s.store.Owner(ctx, pid, date); err == nil {
		if rec, err := s.store.Get(ctx, existing); err == nil && rec.PlayerID == pid {
			sessionsTotal.WithLabelValues("resumed").Inc()
			v := s.view(rec)
			writeJSON(w, http.StatusOK, createSessionRes{Date: date, Session: &v})
			return
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Str("player", pid).Msg("session owner lookup")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}

	sess := game.NewSession(genID(), s.puzzles, s.puzzles.Catalog().IDs(), s.rng)
	startErr := sess.Start(ctx, s.puzzles)
	rec := store.Session{ID: sess.ID, PlayerID: pid, StartedAt: time.Now().UTC(), State: sess.State()}
	if err := s.store.Save(ctx, rec); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	v := s.view(rec)
	if startErr != nil {
		sessionsTotal.WithLabelValues("load_failed").Inc()
		writeJSON(w, http.StatusServiceUnavailable, createSessionRes{Date: date, Session: &v})
		return
	}
	if err := s.store.SetOwner(ctx, pid, date, rec.ID); err != nil {
		log.Warn().Err(err).Str("session", rec.ID).Msg("set session owner")
	}
	sessionsTotal.WithLabelValues("created").Inc()
	writeJSON(w, http.StatusOK, createSessionRes{Date: date, Session: &v})
}

// -----------------------------------------------------------------------------
// GET /api/session/{id}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadOwned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.view(rec))
}

// -----------------------------------------------------------------------------
// POST /api/session/{id}/guess

type guessReq struct {
	Guess string `json:"guess"`
}

type guessRes struct {
	Accepted  bool        `json:"accepted"`
	Ignored   bool        `json:"ignored,omitempty"`
	Code      string      `json:"code,omitempty"`    // transient error id
	Message   string      `json:"message,omitempty"` // transient error text
	ExpiresMs int64       `json:"expires_ms,omitempty"`
	Guess     *game.Guess `json:"guess,omitempty"`
	Session   sessionView `json:"session"`
}

func (s *Server) handleSessionGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	release, ok := s.lockSession(w, r)
	if !ok {
		return
	}
	defer release()

	rec, ok := s.loadOwned(w, r)
	if !ok {
		return
	}
	sess := game.Resume(rec.ID, rec.State, s.evaluatorFor(rec.State), s.puzzles.Catalog().IDs(), s.rng)
	out := sess.Guess(r.Context(), req.Guess)
	rec.State = sess.State()

	res := guessRes{Accepted: out.Accepted, Ignored: out.Ignored}
	switch {
	case out.Accepted:
		guessesTotal.WithLabelValues("accepted").Inc()
		g := out.Guess
		res.Guess = &g
		s.recordIfFinished(r.Context(), &rec)
		if !s.save(w, r, rec) {
			return
		}
	case out.Ignored:
		guessesTotal.WithLabelValues("ignored").Inc()
	default:
		res.Code = i18n.CodeFor(out.Err)
		res.Message = s.msgs.Error(out.Err)
		if out.Message != "" {
			res.Message = out.Message
		}
		res.ExpiresMs = game.TransientTTL.Milliseconds()
		guessesTotal.WithLabelValues(res.Code).Inc()
	}
	res.Session = s.view(rec)
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// POST /api/session/{id}/hint, /hints

type hintRes struct {
	Revealed string      `json:"revealed,omitempty"`
	Session  sessionView `json:"session"`
}

func (s *Server) handleSessionHint(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *game.Session) string {
		hintsTotal.WithLabelValues("next").Inc()
		return sess.NextHint()
	})
}

func (s *Server) handleSessionAllHints(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *game.Session) string {
		hintsTotal.WithLabelValues("all").Inc()
		sess.AllHints()
		return ""
	})
}

// withSession locks, loads and resumes the session, runs op, saves and replies.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, op func(*game.Session) string) {
	release, ok := s.lockSession(w, r)
	if !ok {
		return
	}
	defer release()

	rec, ok := s.loadOwned(w, r)
	if !ok {
		return
	}
	sess := game.Resume(rec.ID, rec.State, s.evaluatorFor(rec.State), s.puzzles.Catalog().IDs(), s.rng)
	revealed := op(sess)
	rec.State = sess.State()
	if !s.save(w, r, rec) {
		return
	}
	writeJSON(w, http.StatusOK, hintRes{Revealed: revealed, Session: s.view(rec)})
}

// -----------------------------------------------------------------------------
// GET /api/session/{id}/map.svg

func (s *Server) handleSessionMap(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadOwned(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := geo.WriteSVG(w, s.bbox, geo.DefaultViewport, mapLayers(s.puzzles.Catalog().All(), rec.State)); err != nil {
		l := logger.ForRequest(r.Context())
		l.Warn().Err(err).Str("session", rec.ID).Msg("write svg")
	}
}

// mapLayers draws hidden regions first so visible ones sit on top.
func mapLayers(all []geo.Region, st game.State) []geo.Layer {
	guessed := make(map[string]bool, len(st.Guesses))
	for _, g := range st.Guesses {
		guessed[g.RegionID] = g.OnPath
	}
	var hidden, shown []geo.Layer
	for _, reg := range all {
		if !st.IsVisible(reg.ID) {
			hidden = append(hidden, geo.Layer{Region: reg, Class: "hidden"})
			continue
		}
		class := "hint"
		switch onPath, ok := guessed[reg.ID]; {
		case st.Puzzle != nil && reg.ID == st.Puzzle.StartID:
			class = "start"
		case st.Puzzle != nil && reg.ID == st.Puzzle.EndID:
			class = "end"
		case ok && onPath:
			class = "hit"
		case ok:
			class = "miss"
		}
		shown = append(shown, geo.Layer{Region: reg, Class: class, Label: true})
	}
	return append(hidden, shown...)
}

// ------------------------------- helpers -----------------------------------

// evaluatorFor judges guesses against the puzzle stored in st, not whatever
// day the clock says it is now.
func (s *Server) evaluatorFor(st game.State) game.Evaluator {
	if st.Puzzle == nil || st.Puzzle.Date == "" {
		return s.puzzles
	}
	return s.puzzles.On(st.Puzzle.Date)
}

// lockSession takes the per-session lock or answers 409.
func (s *Server) lockSession(w http.ResponseWriter, r *http.Request) (func(), bool) {
	id := chi.URLParam(r, "id")
	release, err := s.store.TryLock(r.Context(), id)
	if errors.Is(err, store.ErrLocked) {
		guessesTotal.WithLabelValues(i18n.MsgBusy).Inc()
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      i18n.MsgBusy,
			"message":    s.msgs.Get(i18n.MsgBusy),
			"expires_ms": game.TransientTTL.Milliseconds(),
		})
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("lock session")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	return release, true
}

// loadOwned fetches the session named in the URL. Sessions of other players
// are reported as missing.
func (s *Server) loadOwned(w http.ResponseWriter, r *http.Request) (store.Session, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return rec, false
	}
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("load session")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return rec, false
	}
	if rec.PlayerID != s.playerID(w, r) {
		writeError(w, http.StatusNotFound, "not_found")
		return rec, false
	}
	return rec, true
}

func (s *Server) save(w http.ResponseWriter, r *http.Request, rec store.Session) bool {
	if err := s.store.Save(r.Context(), rec); err != nil {
		log.Error().Err(err).Str("session", rec.ID).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return false
	}
	return true
}

// recordIfFinished writes the daily result and user stats for a session that
// just reached won or lost. Failures are logged; the game result stands.
func (s *Server) recordIfFinished(ctx context.Context, rec *store.Session) {
	st := rec.State
	if rec.Recorded || (st.Status != game.StatusWon && st.Status != game.StatusLost) || st.Puzzle == nil {
		return
	}
	rec.Recorded = true
	sessionsTotal.WithLabelValues(string(st.Status)).Inc()

	res := daily.Result{
		PlayerID:  rec.PlayerID,
		Date:      st.Puzzle.Date,
		Won:       st.Won(),
		Guesses:   len(st.Guesses),
		Correct:   st.CorrectCount(),
		Hints:     st.HintsUsed,
		ElapsedMs: int(time.Since(rec.StartedAt).Milliseconds()),
	}
	if err := s.daily.InsertResult(ctx, res); err != nil {
		log.Warn().Err(err).Str("session", rec.ID).Msg("insert daily result")
	}
	if me := currentUser(ctx); me != nil && me.ID == rec.PlayerID {
		if err := s.bumpStats(ctx, me.ID, st.Won()); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
}
