// internal/httpserver/server.go
//
// HTTP server wiring for the Rayonlar backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Puzzle service surface (no auth): /api/regions, /api/game/*.
//   - Server-driven sessions (optional auth): /api/session/*.
//   - Daily leaderboard: /api/daily/leaderboard.
//   - Auth endpoints: /auth/signup, /auth/login, /auth/logout, /auth/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     guests play under an anonymous cookie id.

package httpserver

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robalobadob/rayonlar/internal/config"
	"github.com/robalobadob/rayonlar/internal/daily"
	"github.com/robalobadob/rayonlar/internal/game"
	"github.com/robalobadob/rayonlar/internal/geo"
	"github.com/robalobadob/rayonlar/internal/i18n"
	"github.com/robalobadob/rayonlar/internal/logger"
	"github.com/robalobadob/rayonlar/internal/puzzle"
	"github.com/robalobadob/rayonlar/internal/store"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config   *config.Config
	Store    store.Store
	DB       *sql.DB
	Puzzles  *puzzle.Service
	Messages *i18n.Messages
	Rand     game.Rand // hint picks; nil uses crypto/rand
}

// Server bundles router, session store, DB handle and the puzzle service.
type Server struct {
	r       *chi.Mux
	cfg     *config.Config
	store   store.Store
	db      *sql.DB
	daily   *daily.Store
	puzzles *puzzle.Service
	msgs    *i18n.Messages
	rng     game.Rand
	jwt     *jwtManager
	bbox    geo.BBox
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) (*Server, error) {
	cfg := d.Config
	if cfg == nil {
		cfg = config.FromEnv()
	}
	msgs := d.Messages
	if msgs == nil {
		m, err := i18n.Load(cfg.Lang)
		if err != nil {
			return nil, err
		}
		msgs = m
	}
	rng := d.Rand
	if rng == nil {
		rng = cryptoRand{}
	}
	bbox, err := geo.ComputeBoundingBox(d.Puzzles.Catalog().All())
	if err != nil {
		return nil, err
	}
	d.Puzzles.NotFound = msgs.Get(i18n.MsgNotFound)

	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   d.Store,
		db:      d.DB,
		daily:   daily.NewStore(d.DB),
		puzzles: d.Puzzles,
		msgs:    msgs,
		rng:     rng,
		jwt:     newJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiresDays)*24*time.Hour),
		bbox:    bbox,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "rayonlar",
			"endpoints": []string{"/health", "/api/regions", "/api/game/today", "POST /api/session", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Handle("/metrics", promhttp.Handler())

	// Puzzle service: public
	s.mountGame(s.r)

	// Sessions + daily: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountSessions(r)
		s.mountDaily(r)
	})

	// Auth
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s, nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured CLIENT_ORIGIN.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs method, path, status and duration with the request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		l := logger.ForRequest(r.Context())
		l.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}

// cryptoRand is the default hint picker.
type cryptoRand struct{}

func (cryptoRand) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
