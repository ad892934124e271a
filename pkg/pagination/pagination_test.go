package pagination_test

import (
	"net/url"
	"testing"

	"github.com/DanielTsay1/AMS/pkg/pagination"
)

func testConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"valid values", 2, 50, 2, 50},
		{"zero page", 0, 50, 1, 50},
		{"negative page", -1, 50, 1, 50},
		{"zero page size", 1, 0, 1, 20},
		{"over max page size", 1, 500, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize(testConfig())
			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("Normalize() = %d/%d, want %d/%d",
					req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page     int
		pageSize int
		want     int
	}{
		{1, 20, 0},
		{2, 20, 20},
		{3, 50, 100},
	}

	for _, tt := range tests {
		req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
		if got := req.Offset(); got != tt.want {
			t.Errorf("Offset() page %d size %d = %d, want %d", tt.page, tt.pageSize, got, tt.want)
		}
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values, err := url.ParseQuery("page=3&page_size=10&search=refund&sort=-UploadedAt,Name")
	if err != nil {
		t.Fatal(err)
	}

	req := pagination.PageRequestFromQuery(values, testConfig())

	if req.Page != 3 || req.PageSize != 10 {
		t.Errorf("page/size = %d/%d, want 3/10", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "refund" {
		t.Errorf("Search = %v, want refund", req.Search)
	}
	if len(req.Sort) != 2 || req.Sort[0].Field != "UploadedAt" || !req.Sort[0].Descending {
		t.Errorf("Sort = %v, want [-UploadedAt Name]", req.Sort)
	}
}

func TestPageRequestFromQueryEmpty(t *testing.T) {
	req := pagination.PageRequestFromQuery(url.Values{}, testConfig())

	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("page/size = %d/%d, want normalized 1/20", req.Page, req.PageSize)
	}
	if req.Search != nil {
		t.Errorf("Search = %v, want nil", req.Search)
	}
	if req.Sort != nil {
		t.Errorf("Sort = %v, want nil", req.Sort)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		data           []string
		total          int
		page           int
		pageSize       int
		wantTotalPages int
		wantData       int
	}{
		{"exact pages", []string{"a", "b"}, 40, 1, 20, 2, 2},
		{"partial last page", []string{"a"}, 41, 1, 20, 3, 1},
		{"empty total", nil, 0, 1, 20, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult(tt.data, tt.total, tt.page, tt.pageSize)

			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
			if result.Data == nil {
				t.Error("Data = nil, want empty slice")
			}
			if len(result.Data) != tt.wantData {
				t.Errorf("len(Data) = %d, want %d", len(result.Data), tt.wantData)
			}
		})
	}
}
