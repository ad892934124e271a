package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DanielTsay1/AMS/internal/documents"
	"github.com/DanielTsay1/AMS/pkg/pagination"
	"github.com/google/uuid"
)

type fakeSystem struct {
	documents.System

	findDoc   *documents.Document
	findErr   error
	fileData  []byte
	fileErr   error
	deleteErr error
	purge     *documents.PurgeResult
}

func (f *fakeSystem) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	return f.findDoc, f.findErr
}

func (f *fakeSystem) FileData(ctx context.Context, id uuid.UUID) ([]byte, *documents.Document, error) {
	if f.fileErr != nil {
		return nil, nil, f.fileErr
	}
	return f.fileData, f.findDoc, nil
}

func (f *fakeSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteErr
}

func (f *fakeSystem) PurgeAll(ctx context.Context) (*documents.PurgeResult, error) {
	return f.purge, nil
}

type fakeSubmitter struct {
	submitted int
}

func (f *fakeSubmitter) Submit(doc documents.Document, data []byte) {
	f.submitted++
}

func testHandler(sys documents.System, sub *fakeSubmitter) *documents.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	return documents.NewHandler(sys, sub, logger, cfg, 1024*1024)
}

func TestFindInvalidID(t *testing.T) {
	h := testHandler(&fakeSystem{}, &fakeSubmitter{})

	req := httptest.NewRequest("GET", "/api/documents/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Find(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestFindNotFound(t *testing.T) {
	h := testHandler(&fakeSystem{findErr: documents.ErrNotFound}, &fakeSubmitter{})

	id := uuid.New()
	req := httptest.NewRequest("GET", "/api/documents/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	h.Find(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestFindSuccess(t *testing.T) {
	doc := &documents.Document{
		ID:     uuid.New(),
		Name:   "handbook",
		Status: documents.StatusIndexed,
	}
	h := testHandler(&fakeSystem{findDoc: doc}, &fakeSubmitter{})

	req := httptest.NewRequest("GET", "/api/documents/"+doc.ID.String(), nil)
	req.SetPathValue("id", doc.ID.String())
	rec := httptest.NewRecorder()

	h.Find(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got documents.Document
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != doc.ID || got.Status != documents.StatusIndexed {
		t.Errorf("document = %+v, want id %v status indexed", got, doc.ID)
	}
}

func TestDeleteNotFound(t *testing.T) {
	h := testHandler(&fakeSystem{deleteErr: documents.ErrNotFound}, &fakeSubmitter{})

	id := uuid.New()
	req := httptest.NewRequest("DELETE", "/api/documents/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteSuccess(t *testing.T) {
	h := testHandler(&fakeSystem{}, &fakeSubmitter{})

	id := uuid.New()
	req := httptest.NewRequest("DELETE", "/api/documents/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestFileNotFound(t *testing.T) {
	h := testHandler(&fakeSystem{fileErr: documents.ErrNotFound}, &fakeSubmitter{})

	id := uuid.New()
	req := httptest.NewRequest("GET", "/api/documents/"+id.String()+"/file", nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	h.File(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestFileSuccess(t *testing.T) {
	id := uuid.New()
	doc := &documents.Document{ID: id, Filename: "handbook.pdf"}
	h := testHandler(&fakeSystem{findDoc: doc, fileData: []byte("%PDF-1.7")}, &fakeSubmitter{})

	req := httptest.NewRequest("GET", "/api/documents/"+id.String()+"/file", nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	h.File(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q, want %q", got, "application/pdf")
	}
	if got := rec.Header().Get("Content-Disposition"); got != `inline; filename="handbook.pdf"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rec.Body.String() != "%PDF-1.7" {
		t.Errorf("body = %q, want raw file bytes", rec.Body.String())
	}
}

func TestPurge(t *testing.T) {
	h := testHandler(&fakeSystem{purge: &documents.PurgeResult{Documents: 3, Pages: 42, Searches: 7}}, &fakeSubmitter{})

	req := httptest.NewRequest("DELETE", "/api/documents", nil)
	rec := httptest.NewRecorder()

	h.Purge(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result documents.PurgeResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Documents != 3 || result.Pages != 42 || result.Searches != 7 {
		t.Errorf("purge = %+v, want 3 documents 42 pages 7 searches", result)
	}
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/api/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadRejectsNonPDF(t *testing.T) {
	sub := &fakeSubmitter{}
	h := testHandler(&fakeSystem{}, sub)

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "notes.txt", []byte("plain text")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if sub.submitted != 0 {
		t.Errorf("submitted = %d, want 0", sub.submitted)
	}
}

func TestUploadRejectsUnreadablePDF(t *testing.T) {
	sub := &fakeSubmitter{}
	h := testHandler(&fakeSystem{}, sub)

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "broken.pdf", []byte("not actually a pdf")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if sub.submitted != 0 {
		t.Errorf("submitted = %d, want 0", sub.submitted)
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	h := testHandler(&fakeSystem{}, &fakeSubmitter{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("name", "no file attached"); err != nil {
		t.Fatal(err)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/api/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
