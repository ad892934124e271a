package documents

import (
	"net/url"
	"strings"

	"github.com/DanielTsay1/AMS/pkg/query"
	"github.com/DanielTsay1/AMS/pkg/repository"
)

var projection = query.NewProjectionMap("public", "documents", "d").
	Project("id", "Id").
	Project("name", "Name").
	Project("filename", "Filename").
	Project("storage_key", "StorageKey").
	Project("size_bytes", "SizeBytes").
	Project("status", "Status").
	Project("page_count", "PageCount").
	Project("doc_type", "DocType").
	Project("error_detail", "ErrorDetail").
	Project("uploaded_at", "UploadedAt")

var defaultSort = query.SortField{Field: "UploadedAt", Descending: true}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Name,
		&d.Filename,
		&d.StorageKey,
		&d.SizeBytes,
		&d.Status,
		&d.PageCount,
		&d.DocType,
		&d.ErrorDetail,
		&d.UploadedAt,
	)
	return d, err
}

// Filters contains optional criteria for filtering document queries.
type Filters struct {
	Name     *string
	Statuses []string
	DocType  *string
}

// FiltersFromQuery extracts document filters from URL query parameters.
// status accepts a comma-separated list of lifecycle states.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if s := values.Get("status"); s != "" {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				f.Statuses = append(f.Statuses, part)
			}
		}
	}

	if dt := values.Get("type"); dt != "" {
		f.DocType = &dt
	}

	return f
}

// Apply adds filter conditions to the query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Name", f.Name)

	switch len(f.Statuses) {
	case 0:
	case 1:
		b.WhereEquals("Status", f.Statuses[0])
	default:
		statuses := make([]any, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = s
		}
		b.WhereIn("Status", statuses)
	}

	if f.DocType != nil {
		b.WhereEquals("DocType", *f.DocType)
	}
	return b
}
