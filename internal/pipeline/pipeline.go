// Package pipeline runs background indexing for uploaded documents:
// extraction, classification, and the atomic index write, with bounded
// retries on write contention.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielTsay1/AMS/internal/classify"
	"github.com/DanielTsay1/AMS/internal/config"
	"github.com/DanielTsay1/AMS/internal/documents"
	"github.com/DanielTsay1/AMS/internal/extract"
	"github.com/DanielTsay1/AMS/internal/index"
	"github.com/google/uuid"
)

// ErrNoExtractableText indicates a readable PDF yielded no pages with
// usable text. This terminates the document in the error state rather than
// an empty indexed state.
var ErrNoExtractableText = errors.New("no extractable text")

// Pipeline coordinates background indexing runs. Each submitted document is
// processed on its own goroutine; documents are independent units of work.
type Pipeline struct {
	extractor   extract.Extractor
	store       index.System
	logger      *slog.Logger
	maxAttempts int
	backoff     time.Duration
	inflight    *inflightSet
}

// New creates an indexing pipeline.
func New(extractor extract.Extractor, store index.System, logger *slog.Logger, cfg *config.IndexingConfig) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		store:       store,
		logger:      logger.With("system", "pipeline"),
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.RetryBackoffDuration(),
		inflight:    newInflightSet(),
	}
}

// Submit schedules a document for background indexing and returns
// immediately. The caller guarantees each document id is submitted at most
// once at a time.
func (p *Pipeline) Submit(doc documents.Document, data []byte) {
	p.inflight.add(doc.ID)

	go func() {
		defer p.inflight.remove(doc.ID)
		p.run(doc, data)
	}()
}

// Processing returns the ids of documents currently being indexed. The
// snapshot never blocks pipeline progress.
func (p *Pipeline) Processing() []uuid.UUID {
	return p.inflight.snapshot()
}

// Wait blocks until all in-flight runs complete. Used during shutdown;
// runs are never cancelled mid-flight.
func (p *Pipeline) Wait() {
	p.inflight.wait()
}

// run executes one indexing attempt to completion. Failures terminate the
// document in the error state; they never propagate past the worker.
func (p *Pipeline) run(doc documents.Document, data []byte) {
	ctx := context.Background()
	started := time.Now()

	if err := p.process(ctx, doc, data); err != nil {
		p.logger.Error("indexing failed", "id", doc.ID, "name", doc.Name, "error", err)
		if markErr := p.store.MarkError(ctx, doc.ID, err.Error()); markErr != nil {
			p.logger.Error("failed to record error state", "id", doc.ID, "error", markErr)
		}
		return
	}

	p.logger.Info("indexing complete", "id", doc.ID, "name", doc.Name, "elapsed", time.Since(started))
}

func (p *Pipeline) process(ctx context.Context, doc documents.Document, data []byte) error {
	pages, pageCount, err := p.extractor.Extract(ctx, data)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return ErrNoExtractableText
	}

	docType := classify.Classify(doc.Filename, pages)

	return p.writeWithRetry(ctx, doc.ID, docType, pageCount, pages)
}

// writeWithRetry retries the atomic index write on transient contention
// with exponential backoff, up to the configured attempt bound.
func (p *Pipeline) writeWithRetry(ctx context.Context, docID uuid.UUID, docType classify.DocType, pageCount int, pages []extract.Page) error {
	delay := p.backoff

	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err = p.store.WriteIndex(ctx, docID, docType, pageCount, pages)
		if err == nil {
			return nil
		}
		if !errors.Is(err, index.ErrWriteContention) {
			return err
		}

		if attempt < p.maxAttempts {
			p.logger.Warn("index write contention, retrying",
				"id", docID, "attempt", attempt, "backoff", delay)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("write retries exhausted after %d attempts: %w", p.maxAttempts, err)
}
