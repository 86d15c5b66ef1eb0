// internal/puzzle/puzzle.go
//
// In-process puzzle service: the authority for "today's" start/end pair and
// for judging guesses against the shortest path.
// Responsibilities:
//   - Pick a deterministic daily pair inside the largest connected component.
//   - Cache the puzzle and its shortest path per date.
//   - Resolve raw guesses (catalog match) and report path membership.
//   - Serve autocomplete and adjacency lookups.
//
// Service satisfies game.PuzzleSource and game.Evaluator, so a game.Session can
// run against it directly or through the HTTP API (internal/client).

package puzzle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/rayonlar/internal/daily"
	"github.com/robalobadob/rayonlar/internal/game"
	"github.com/robalobadob/rayonlar/internal/graph"
	"github.com/robalobadob/rayonlar/internal/regions"
)

// Par bounds for a playable puzzle. Par counts the districts strictly between start and end.
const (
	MinPar = 3
	MaxPar = 8

	// ExtraGuesses is added to par to get the guess budget.
	ExtraGuesses = 4

	maxAttempts = 10000
)

var (
	ErrNoPuzzle = errors.New("no playable start/end pair")
	ErrUnknown  = errors.New("unknown region")
)

type entry struct {
	puzzle game.Puzzle
	path   []string
	onPath mapset.Set[string]
}

// Service generates and judges daily puzzles.
type Service struct {
	// Now is the clock used for "today". Defaults to time.Now.
	Now func() time.Time
	// NotFound is the message attached to invalid verdicts.
	NotFound string

	catalog *regions.Catalog
	graph   *graph.Graph
	salt    string

	mu    sync.Mutex
	cache map[string]*entry
}

// New builds a Service over catalog and its adjacency graph.
func New(catalog *regions.Catalog, g *graph.Graph, salt string) *Service {
	return &Service{
		Now:      time.Now,
		NotFound: "Rayon tapılmadı",
		catalog:  catalog,
		graph:    g,
		salt:     salt,
		cache:    make(map[string]*entry),
	}
}

// Catalog returns the district catalog the service plays on.
func (s *Service) Catalog() *regions.Catalog { return s.catalog }

// Today returns the puzzle for the current UTC date.
func (s *Service) Today(ctx context.Context) (game.Puzzle, error) {
	e, err := s.forDate(s.Now())
	if err != nil {
		return game.Puzzle{}, err
	}
	return e.puzzle, nil
}

// ForDate returns the puzzle and shortest path (start and end included) for t's UTC date.
func (s *Service) ForDate(t time.Time) (game.Puzzle, []string, error) {
	e, err := s.forDate(t)
	if err != nil {
		return game.Puzzle{}, nil, err
	}
	return e.puzzle, append([]string(nil), e.path...), nil
}

func (s *Service) forDate(t time.Time) (*entry, error) {
	date := daily.DateKey(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.cache[date]; ok {
		return e, nil
	}
	e, err := s.generate(t)
	if err != nil {
		return nil, err
	}
	s.cache[date] = e
	return e, nil
}

// generate walks candidate pairs derived from the date seed until one has a
// shortest path with par in [MinPar, MaxPar].
func (s *Service) generate(t time.Time) (*entry, error) {
	mainland := s.graph.Largest()
	n := len(mainland)
	if n < 2 {
		return nil, ErrNoPuzzle
	}
	seed := daily.Seed(t, s.salt)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		i, j := daily.Pair(seed, attempt, n)
		if i == j {
			continue
		}
		start, end := mainland[i], mainland[j]
		path := s.graph.ShortestPath(start, end)
		if path == nil {
			continue
		}
		par := len(path) - 2
		if par < MinPar || par > MaxPar {
			continue
		}

		onPath := mapset.New[string]()
		for _, id := range path {
			onPath.Put(id)
		}
		return &entry{
			puzzle: game.Puzzle{
				StartID:    start,
				StartName:  s.catalog.Name(start),
				EndID:      end,
				EndName:    s.catalog.Name(end),
				Par:        par,
				Date:       daily.DateKey(t),
				MaxGuesses: par + ExtraGuesses,
			},
			path:   path,
			onPath: onPath,
		}, nil
	}
	return nil, ErrNoPuzzle
}

// Evaluate resolves raw against the catalog and reports whether the match lies
// on today's shortest path. An unmatched guess is a valid answer with Valid=false.
func (s *Service) Evaluate(ctx context.Context, raw string) (game.Verdict, error) {
	return s.evaluate(ctx, s.Now(), raw)
}

// EvaluateFor judges raw against the puzzle of date (YYYY-MM-DD) instead of today's.
func (s *Service) EvaluateFor(ctx context.Context, date, raw string) (game.Verdict, error) {
	t, err := time.Parse(daily.DateLayout, date)
	if err != nil {
		return game.Verdict{}, fmt.Errorf("puzzle date %q: %w", date, err)
	}
	return s.evaluate(ctx, t, raw)
}

// On returns an Evaluator pinned to date. A session started on one day keeps
// being judged against that day's path after UTC midnight.
func (s *Service) On(date string) game.Evaluator {
	return datedEvaluator{s: s, date: date}
}

type datedEvaluator struct {
	s    *Service
	date string
}

func (d datedEvaluator) Evaluate(ctx context.Context, raw string) (game.Verdict, error) {
	return d.s.EvaluateFor(ctx, d.date, raw)
}

func (s *Service) evaluate(ctx context.Context, day time.Time, raw string) (game.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return game.Verdict{}, err
	}
	e, err := s.forDate(day)
	if err != nil {
		return game.Verdict{}, err
	}
	r, ok := s.catalog.Match(raw)
	if !ok {
		return game.Verdict{Valid: false, Message: s.NotFound}, nil
	}
	return game.Verdict{
		Valid:      true,
		RegionID:   r.ID,
		RegionName: r.Name,
		OnPath:     e.onPath.Has(r.ID),
	}, nil
}

// Search returns autocomplete hits for q.
func (s *Service) Search(q string, limit int) []regions.Hit {
	return s.catalog.Search(q, limit)
}

// Adjacents returns the sorted neighbours of id.
func (s *Service) Adjacents(id string) ([]string, error) {
	n, ok := s.graph.Neighbors(id)
	if !ok {
		return nil, ErrUnknown
	}
	out := make([]string, len(n))
	copy(out, n)
	return out, nil
}
