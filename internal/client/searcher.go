// internal/client/searcher.go
//
// Autocomplete with latest-wins semantics: a slow answer to an older query
// never replaces the results of a newer one.

package client

import (
	"context"
	"sync"

	"github.com/robalobadob/rayonlar/internal/regions"
)

// SearchFunc performs one autocomplete lookup.
type SearchFunc func(ctx context.Context, q string) []regions.Hit

// Searcher applies autocomplete responses latest-wins: a response that
// arrives after a newer query was issued is dropped.
type Searcher struct {
	search SearchFunc

	mu      sync.Mutex
	seq     uint64
	results []regions.Hit
}

// NewSearcher wraps fn.
func NewSearcher(fn SearchFunc) *Searcher {
	return &Searcher{search: fn, results: []regions.Hit{}}
}

// Query runs a search for q. It returns the hits and true when they were
// applied, or nil and false when a newer query superseded this one.
func (s *Searcher) Query(ctx context.Context, q string) ([]regions.Hit, bool) {
	s.mu.Lock()
	s.seq++
	mine := s.seq
	s.mu.Unlock()

	hits := s.search(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if mine != s.seq {
		return nil, false
	}
	s.results = hits
	return hits, true
}

// Results returns the most recently applied hits.
func (s *Searcher) Results() []regions.Hit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}
