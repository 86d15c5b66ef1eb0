// internal/client/client.go
//
// HTTP client for the puzzle service API (see internal/httpserver/routes_game.go).
// Client satisfies game.PuzzleSource and game.Evaluator, so a game.Session can
// run in a process that only talks to the server.
//
// Search is fail-soft: any error yields an empty list.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rayonlar/internal/game"
	"github.com/robalobadob/rayonlar/internal/geo"
	"github.com/robalobadob/rayonlar/internal/regions"
)

// Client talks to one Rayonlar server.
type Client struct {
	baseURL string
	httpC   *http.Client
}

// New creates a client targeting baseURL (e.g. http://localhost:8000).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpC:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Regions fetches every district with geometry.
func (c *Client) Regions(ctx context.Context) ([]geo.Region, error) {
	var out []geo.Region
	if err := c.getJSON(ctx, "/api/regions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Today fetches the day's puzzle.
func (c *Client) Today(ctx context.Context) (game.Puzzle, error) {
	var p game.Puzzle
	if err := c.getJSON(ctx, "/api/game/today", &p); err != nil {
		return game.Puzzle{}, err
	}
	return p, nil
}

// Evaluate asks the server to resolve raw and check it against the path.
func (c *Client) Evaluate(ctx context.Context, raw string) (game.Verdict, error) {
	var v game.Verdict
	if err := c.getJSON(ctx, "/api/game/guess?name="+url.QueryEscape(raw), &v); err != nil {
		return game.Verdict{}, err
	}
	return v, nil
}

// Search returns autocomplete hits for q, or an empty list on any failure.
func (c *Client) Search(ctx context.Context, q string) []regions.Hit {
	out := []regions.Hit{}
	if strings.TrimSpace(q) == "" {
		return out
	}
	if err := c.getJSON(ctx, "/api/game/search?q="+url.QueryEscape(q), &out); err != nil {
		log.Debug().Err(err).Str("q", q).Msg("search failed")
		return []regions.Hit{}
	}
	return out
}

// Adjacents fetches the sorted neighbours of id.
func (c *Client) Adjacents(ctx context.Context, id string) ([]string, error) {
	var res struct {
		Adjacents []string `json:"adjacents"`
	}
	if err := c.getJSON(ctx, "/api/game/adjacents/"+url.PathEscape(id), &res); err != nil {
		return nil, err
	}
	return res.Adjacents, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpC.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
