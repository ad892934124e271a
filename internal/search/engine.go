// Package search turns raw user queries into ranked, highlighted results
// against the index store.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/DanielTsay1/AMS/internal/classify"
	"github.com/DanielTsay1/AMS/internal/config"
	"github.com/DanielTsay1/AMS/internal/index"
	"github.com/google/uuid"
)

// Confidence scoring constants: a base value plus a fixed increment per
// matched occurrence, clamped to a maximum. A heuristic, not a probability.
const (
	confidenceBase     = 60
	confidencePerMatch = 10
	confidenceMax      = 95
)

// Store is the subset of the index store the query engine depends on.
type Store interface {
	FullTextAvailable() bool
	Search(ctx context.Context, req index.SearchRequest) ([]index.PageHit, int, error)
	SearchFallback(ctx context.Context, req index.SearchRequest) ([]index.PageHit, int, error)
	LogSearch(ctx context.Context, query string, resultCount int) error
}

// Request carries the caller's search parameters.
type Request struct {
	Query   string
	DocType string
	Mode    index.Mode
	Limit   int
	Offset  int
}

// Result is one matched page, shaped for the API response.
type Result struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Page        int              `json:"page"`
	Snippet     string           `json:"snippet"`
	Confidence  int              `json:"confidence"`
	Type        classify.DocType `json:"type"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

// Response is the complete search result payload.
type Response struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// Engine executes searches. Stateless per call; all state lives in the
// index store.
type Engine struct {
	store  Store
	logger *slog.Logger
	cfg    config.SearchConfig
}

// New creates a query engine.
func New(store Store, logger *slog.Logger, cfg config.SearchConfig) *Engine {
	return &Engine{
		store:  store,
		logger: logger.With("system", "search"),
		cfg:    cfg,
	}
}

// Search validates, tokenizes, and executes a query, producing ranked and
// highlighted results. When the full-text backend finds nothing for a
// non-empty term set, the substring backend is consulted once before an
// empty result is returned.
func (e *Engine) Search(ctx context.Context, req Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}
	if len(query) > e.cfg.MaxQueryLength {
		return nil, ErrQueryTooLong
	}

	limit, offset := e.clamp(req.Limit, req.Offset)

	resp := &Response{
		Query:   query,
		Results: []Result{},
		Limit:   limit,
		Offset:  offset,
	}

	terms := Tokenize(query)
	if len(terms) == 0 {
		return resp, nil
	}

	lookup := index.SearchRequest{
		Terms:  terms,
		Mode:   req.Mode,
		Limit:  limit,
		Offset: offset,
	}
	if t := strings.TrimSpace(req.DocType); t != "" && t != "all" {
		lookup.DocType = &t
	}

	hits, total, err := e.store.Search(ctx, lookup)
	if err != nil {
		return nil, err
	}

	// Full-text tokenization can miss matches plain containment finds;
	// re-check on the substring backend before reporting nothing.
	if total == 0 && e.store.FullTextAvailable() {
		hits, total, err = e.store.SearchFallback(ctx, lookup)
		if err != nil {
			return nil, err
		}
	}

	resp.Total = total
	for _, hit := range hits {
		resp.Results = append(resp.Results, e.buildResult(hit, terms))
	}

	// Search log writes never fail the search itself.
	if err := e.store.LogSearch(ctx, query, total); err != nil {
		e.logger.Warn("search log write failed", "query", query, "error", err)
	}

	return resp, nil
}

func (e *Engine) buildResult(hit index.PageHit, terms []string) Result {
	snippet, _ := BuildSnippet(hit.Content, terms, e.cfg.SnippetLength)

	return Result{
		ID:          hit.DocumentID,
		Title:       hit.Title,
		Page:        hit.PageNumber,
		Snippet:     snippet,
		Confidence:  Confidence(TermFrequency(hit.Content, terms)),
		Type:        hit.DocType,
		LastUpdated: hit.UploadedAt,
	}
}

// Confidence maps a match count to the bounded heuristic score.
func Confidence(matches int) int {
	score := confidenceBase + confidencePerMatch*matches
	if score > confidenceMax {
		return confidenceMax
	}
	if score < 0 {
		return 0
	}
	return score
}

func (e *Engine) clamp(limit, offset int) (int, int) {
	if limit < 1 {
		limit = e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
