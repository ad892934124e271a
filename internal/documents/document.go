// Package documents provides document upload, storage, and management
// functionality. Uploaded PDFs are persisted to blob storage and handed to
// the indexing pipeline for background processing.
package documents

import (
	"time"

	"github.com/DanielTsay1/AMS/internal/classify"
	"github.com/google/uuid"
)

// Status is the indexing lifecycle state of a document.
type Status string

// Document lifecycle states. A document is created in StatusProcessing and
// transitions exactly once to StatusIndexed or StatusError.
const (
	StatusProcessing Status = "processing"
	StatusIndexed    Status = "indexed"
	StatusError      Status = "error"
)

// Document represents a stored document with metadata.
type Document struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Filename    string           `json:"filename"`
	StorageKey  string           `json:"storage_key"`
	SizeBytes   int64            `json:"size_bytes"`
	Status      Status           `json:"status"`
	PageCount   int              `json:"page_count"`
	DocType     classify.DocType `json:"doc_type"`
	ErrorDetail *string          `json:"error_detail,omitempty"`
	UploadedAt  time.Time        `json:"uploaded_at"`
}

// CreateCommand contains the data required to register a new document.
// Data holds the raw file bytes to be stored.
type CreateCommand struct {
	Name      string
	Filename  string
	SizeBytes int64
	Data      []byte
}

// PurgeResult reports what an index purge removed.
type PurgeResult struct {
	Documents int `json:"documents"`
	Pages     int `json:"pages"`
	Searches  int `json:"searches"`
}
