// Package index persists extracted page text and answers term-based lookups
// over it. Two backends are supported: PostgreSQL full-text search with
// relevance ranking, and a plain ILIKE containment fallback ranked by upload
// recency. The active backend is resolved once at startup by Probe.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielTsay1/AMS/internal/classify"
	"github.com/DanielTsay1/AMS/internal/documents"
	"github.com/DanielTsay1/AMS/internal/extract"
	"github.com/DanielTsay1/AMS/pkg/repository"
	"github.com/google/uuid"
)

// recentSearchLimit bounds the recentSearches result.
const recentSearchLimit = 5

// PageHit is a single page matched by a search, joined with its document
// metadata. Rank is only meaningful for the full-text backend.
type PageHit struct {
	DocumentID uuid.UUID
	Title      string
	Filename   string
	DocType    classify.DocType
	UploadedAt time.Time
	PageNumber int
	Content    string
	Rank       float64
}

// SearchRequest describes a term lookup against the index.
type SearchRequest struct {
	Terms   []string
	Mode    Mode
	DocType *string
	Limit   int
	Offset  int
}

// Stats summarizes index contents for health reporting.
type Stats struct {
	TotalDocuments int            `json:"totalDocuments"`
	TotalPages     int            `json:"totalPages"`
	RecentSearches int            `json:"recentSearches"`
	DocumentTypes  map[string]int `json:"documentTypes"`
}

// System defines the index store operations shared by the indexing pipeline
// and the query engine.
type System interface {
	// FullTextAvailable reports whether the full-text backend is active.
	FullTextAvailable() bool

	// WriteIndex inserts all page rows for a document and flips it from
	// processing to indexed in a single transaction. On failure no page
	// rows remain. Transient conflicts surface as ErrWriteContention.
	WriteIndex(ctx context.Context, docID uuid.UUID, docType classify.DocType, pageCount int, pages []extract.Page) error

	// MarkError flips a document to the error state, removing any page rows
	// left from the failed attempt in the same transaction.
	MarkError(ctx context.Context, docID uuid.UUID, detail string) error

	// Search executes a term lookup against the active backend. Results are
	// scoped to indexed documents only.
	Search(ctx context.Context, req SearchRequest) ([]PageHit, int, error)

	// SearchFallback executes a term lookup against the substring backend
	// regardless of capability, ranked by upload recency.
	SearchFallback(ctx context.Context, req SearchRequest) ([]PageHit, int, error)

	// LogSearch appends one search log entry.
	LogSearch(ctx context.Context, query string, resultCount int) error

	// RecentSearches returns up to 5 most recent distinct queries, newest first.
	RecentSearches(ctx context.Context) ([]string, error)

	// Stats summarizes the indexed corpus and recent search activity.
	Stats(ctx context.Context) (*Stats, error)
}

type store struct {
	db       *sql.DB
	logger   *slog.Logger
	fullText bool
}

// New creates an index store. fullText selects the backend and is resolved
// once at startup via Probe.
func New(db *sql.DB, logger *slog.Logger, fullText bool) System {
	return &store{
		db:       db,
		logger:   logger.With("system", "index"),
		fullText: fullText,
	}
}

// Probe checks whether the database engine supports full-text query
// primitives. The result is injected into the store as a capability flag;
// nothing probes per call.
func Probe(ctx context.Context, db *sql.DB) bool {
	var ok bool
	err := db.QueryRowContext(ctx,
		`SELECT to_tsvector('simple', 'probe') @@ to_tsquery('simple', 'probe:*')`,
	).Scan(&ok)
	return err == nil && ok
}

func (s *store) FullTextAvailable() bool {
	return s.fullText
}

func (s *store) WriteIndex(ctx context.Context, docID uuid.UUID, docType classify.DocType, pageCount int, pages []extract.Page) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		for _, page := range pages {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO document_pages(document_id, page_number, content) VALUES($1, $2, $3)`,
				docID, page.Number, page.Text,
			); err != nil {
				return struct{}{}, fmt.Errorf("insert page %d: %w", page.Number, err)
			}
		}

		err := repository.ExecExpectOne(ctx, tx,
			`UPDATE documents SET status = $1, page_count = $2, doc_type = $3 WHERE id = $4 AND status = $5`,
			documents.StatusIndexed, pageCount, docType, docID, documents.StatusProcessing,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return struct{}{}, ErrNotProcessing
		}
		return struct{}{}, err
	})

	if err != nil {
		if repository.IsContention(err) {
			return fmt.Errorf("%w: %v", ErrWriteContention, err)
		}
		return err
	}

	s.logger.Info("document indexed", "id", docID, "pages", len(pages), "type", docType)
	return nil
}

func (s *store) MarkError(ctx context.Context, docID uuid.UUID, detail string) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM document_pages WHERE document_id = $1`, docID,
		); err != nil {
			return struct{}{}, fmt.Errorf("delete pages: %w", err)
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE documents SET status = $1, error_detail = $2 WHERE id = $3`,
			documents.StatusError, detail, docID,
		)
		return struct{}{}, err
	})

	if err != nil {
		return err
	}

	s.logger.Info("document marked failed", "id", docID, "detail", detail)
	return nil
}

func (s *store) Search(ctx context.Context, req SearchRequest) ([]PageHit, int, error) {
	if s.fullText {
		return s.searchFullText(ctx, req)
	}
	return s.SearchFallback(ctx, req)
}

func (s *store) searchFullText(ctx context.Context, req SearchRequest) ([]PageHit, int, error) {
	tsquery := BuildTSQuery(req.Terms, req.Mode)
	if tsquery == "" {
		return nil, 0, nil
	}

	where := `d.status = $1 AND to_tsvector('simple', p.content) @@ to_tsquery('simple', $2)`
	args := []any{documents.StatusIndexed, tsquery}

	if req.DocType != nil {
		where += fmt.Sprintf(" AND d.doc_type = $%d", len(args)+1)
		args = append(args, *req.DocType)
	}

	total, err := s.countHits(ctx, where, args)
	if err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`SELECT d.id, d.name, d.filename, d.doc_type, d.uploaded_at, p.page_number, p.content,
			ts_rank(to_tsvector('simple', p.content), to_tsquery('simple', $2)) AS rank
		FROM document_pages p
		JOIN documents d ON d.id = p.document_id
		WHERE %s
		ORDER BY rank DESC, d.id, p.page_number
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	hits, err := repository.QueryMany(ctx, s.db, q, args, scanHit)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: full-text query: %v", ErrIndexUnavailable, err)
	}
	return hits, total, nil
}

func (s *store) SearchFallback(ctx context.Context, req SearchRequest) ([]PageHit, int, error) {
	if len(req.Terms) == 0 {
		return nil, 0, nil
	}

	likeClause, likeArgs := buildLikeClauses(req.Terms, req.Mode, 2)

	where := `d.status = $1 AND ` + likeClause
	args := append([]any{documents.StatusIndexed}, likeArgs...)

	if req.DocType != nil {
		where += fmt.Sprintf(" AND d.doc_type = $%d", len(args)+1)
		args = append(args, *req.DocType)
	}

	total, err := s.countHits(ctx, where, args)
	if err != nil {
		return nil, 0, err
	}

	// No relevance signal on this backend; order by recency instead.
	q := fmt.Sprintf(`SELECT d.id, d.name, d.filename, d.doc_type, d.uploaded_at, p.page_number, p.content,
			0::float8 AS rank
		FROM document_pages p
		JOIN documents d ON d.id = p.document_id
		WHERE %s
		ORDER BY d.uploaded_at DESC, d.id, p.page_number
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, req.Limit, req.Offset)

	hits, err := repository.QueryMany(ctx, s.db, q, args, scanHit)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: fallback query: %v", ErrIndexUnavailable, err)
	}
	return hits, total, nil
}

func (s *store) countHits(ctx context.Context, where string, args []any) (int, error) {
	q := `SELECT COUNT(*)
		FROM document_pages p
		JOIN documents d ON d.id = p.document_id
		WHERE ` + where

	var total int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count hits: %w", err)
	}
	return total, nil
}

func (s *store) LogSearch(ctx context.Context, query string, resultCount int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_logs(query, result_count) VALUES($1, $2)`,
		query, resultCount,
	)
	return err
}

func (s *store) RecentSearches(ctx context.Context) ([]string, error) {
	q := `SELECT query FROM (
			SELECT query, MAX(searched_at) AS last_seen
			FROM search_logs
			GROUP BY query
		) recent
		ORDER BY last_seen DESC
		LIMIT $1`

	return repository.QueryMany(ctx, s.db, q, []any{recentSearchLimit},
		func(sc repository.Scanner) (string, error) {
			var query string
			err := sc.Scan(&query)
			return query, err
		})
}

func (s *store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{DocumentTypes: map[string]int{}}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(page_count), 0) FROM documents WHERE status = $1`,
		documents.StatusIndexed,
	).Scan(&stats.TotalDocuments, &stats.TotalPages)
	if err != nil {
		return nil, fmt.Errorf("document stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_logs WHERE searched_at >= now() - interval '24 hours'`,
	).Scan(&stats.RecentSearches)
	if err != nil {
		return nil, fmt.Errorf("search stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_type, COUNT(*) FROM documents WHERE status = $1 GROUP BY doc_type`,
		documents.StatusIndexed,
	)
	if err != nil {
		return nil, fmt.Errorf("type stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docType string
		var count int
		if err := rows.Scan(&docType, &count); err != nil {
			return nil, err
		}
		stats.DocumentTypes[docType] = count
	}

	return stats, rows.Err()
}

func scanHit(sc repository.Scanner) (PageHit, error) {
	var h PageHit
	err := sc.Scan(
		&h.DocumentID,
		&h.Title,
		&h.Filename,
		&h.DocType,
		&h.UploadedAt,
		&h.PageNumber,
		&h.Content,
		&h.Rank,
	)
	return h, err
}
