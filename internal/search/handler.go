package search

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DanielTsay1/AMS/internal/index"
	"github.com/DanielTsay1/AMS/internal/routes"
	"github.com/DanielTsay1/AMS/pkg/handlers"
	"github.com/google/uuid"
)

// StatsSource reports index statistics and recent search activity.
type StatsSource interface {
	RecentSearches(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*index.Stats, error)
}

// ProcessingSource exposes the set of documents currently being indexed.
type ProcessingSource interface {
	Processing() []uuid.UUID
}

// Handler provides HTTP endpoints for search operations.
type Handler struct {
	engine   *Engine
	stats    StatsSource
	pipeline ProcessingSource
	logger   *slog.Logger
}

// NewHandler creates a search handler.
func NewHandler(engine *Engine, stats StatsSource, pipeline ProcessingSource, logger *slog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		stats:    stats,
		pipeline: pipeline,
		logger:   logger.With("handler", "search"),
	}
}

// Routes returns the search endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/search",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Search},
			{Method: "GET", Pattern: "/recent", Handler: h.Recent},
		},
	}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	limit, _ := strconv.Atoi(values.Get("limit"))
	offset, _ := strconv.Atoi(values.Get("offset"))

	req := Request{
		Query:   values.Get("q"),
		DocType: values.Get("type"),
		Mode:    index.ParseMode(values.Get("mode")),
		Limit:   limit,
		Offset:  offset,
	}

	resp, err := h.engine.Search(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	recent, err := h.stats.RecentSearches(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	if recent == nil {
		recent = []string{}
	}
	handlers.RespondJSON(w, http.StatusOK, recent)
}

// StatsHandler reports index statistics plus live pipeline state.
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"totalDocuments": stats.TotalDocuments,
		"totalPages":     stats.TotalPages,
		"recentSearches": stats.RecentSearches,
		"documentTypes":  stats.DocumentTypes,
		"processing":     len(h.pipeline.Processing()),
	})
}
