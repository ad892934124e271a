package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/DanielTsay1/AMS/internal/storage"
	"github.com/DanielTsay1/AMS/pkg/pagination"
	"github.com/DanielTsay1/AMS/pkg/query"
	"github.com/DanielTsay1/AMS/pkg/repository"
	"github.com/google/uuid"
)

// System defines the document management operations.
// Implementations handle blob storage and database persistence.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PurgeAll(ctx context.Context) (*PurgeResult, error)
	FileData(ctx context.Context, id uuid.UUID) ([]byte, *Document, error)
}

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository with database and blob storage integration.
func New(db *sql.DB, storage storage.System, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		storage:    storage,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		BuildSingle("Id", id)

	doc, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &doc, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	storageKey := buildStorageKey(id, cmd.Filename)

	if err := r.storage.Store(ctx, storageKey, cmd.Data); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	q := `INSERT INTO documents(id, name, filename, storage_key, size_bytes, status)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id, name, filename, storage_key, size_bytes, status, page_count, doc_type, error_detail, uploaded_at`

	doc, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			id, cmd.Name, cmd.Filename, storageKey, cmd.SizeBytes, StatusProcessing,
		}, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, storageKey); delErr != nil {
			r.logger.Error("cleanup failed after db error", "storage_key", storageKey, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", doc.ID, "name", doc.Name, "storage_key", storageKey)
	return &doc, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	q := `DELETE FROM documents WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.storage.Delete(ctx, doc.StorageKey); err != nil {
		r.logger.Error("storage cleanup failed", "storage_key", doc.StorageKey, "error", err)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

// PurgeAll empties the index entirely: every document, its indexed pages,
// and the search log. Page rows cascade from the documents delete, so
// counts are captured inside the same transaction before the deletes run.
func (r *repo) PurgeAll(ctx context.Context) (*PurgeResult, error) {
	keys, err := r.storageKeys(ctx)
	if err != nil {
		return nil, err
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (PurgeResult, error) {
		var pr PurgeResult
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&pr.Documents); err != nil {
			return pr, fmt.Errorf("count documents: %w", err)
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_pages`).Scan(&pr.Pages); err != nil {
			return pr, fmt.Errorf("count pages: %w", err)
		}
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_logs`).Scan(&pr.Searches); err != nil {
			return pr, fmt.Errorf("count search logs: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
			return pr, fmt.Errorf("delete documents: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM search_logs`); err != nil {
			return pr, fmt.Errorf("delete search logs: %w", err)
		}
		return pr, nil
	})
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Error("storage cleanup failed", "storage_key", key, "error", err)
		}
	}

	r.logger.Info("index purged",
		"documents", result.Documents, "pages", result.Pages, "searches", result.Searches)
	return &result, nil
}

// FileData retrieves the raw stored bytes of a document along with its
// metadata. A document row whose blob has gone missing reads as not found.
func (r *repo) FileData(ctx context.Context, id uuid.UUID) ([]byte, *Document, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	exists, err := r.storage.Validate(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("validate file: %w", err)
	}
	if !exists {
		r.logger.Warn("stored file missing", "id", id, "storage_key", doc.StorageKey)
		return nil, nil, ErrNotFound
	}

	data, err := r.storage.Retrieve(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("retrieve file: %w", err)
	}

	return data, doc, nil
}

func (r *repo) storageKeys(ctx context.Context) ([]string, error) {
	return repository.QueryMany(ctx, r.db, `SELECT storage_key FROM documents`, nil,
		func(s repository.Scanner) (string, error) {
			var key string
			err := s.Scan(&key)
			return key, err
		})
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id.String(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
