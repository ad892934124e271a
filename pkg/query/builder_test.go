package query_test

import (
	"reflect"
	"testing"

	"github.com/DanielTsay1/AMS/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "documents", "d").
		Project("id", "Id").
		Project("name", "Name").
		Project("status", "Status").
		Project("uploaded_at", "UploadedAt")
}

func testBuilder() *query.Builder {
	return query.NewBuilder(testProjection(), query.SortField{Field: "UploadedAt", Descending: true})
}

func TestBuildCount(t *testing.T) {
	tests := []struct {
		name     string
		build    func(*query.Builder) *query.Builder
		wantSQL  string
		wantArgs []any
	}{
		{
			"no conditions",
			func(b *query.Builder) *query.Builder { return b },
			"SELECT COUNT(*) FROM public.documents d",
			nil,
		},
		{
			"with equality",
			func(b *query.Builder) *query.Builder { return b.WhereEquals("Status", "indexed") },
			"SELECT COUNT(*) FROM public.documents d WHERE d.status = $1",
			[]any{"indexed"},
		},
		{
			"with multiple conditions",
			func(b *query.Builder) *query.Builder {
				return b.WhereEquals("Status", "indexed").WhereContains("Name", ptr("report"))
			},
			"SELECT COUNT(*) FROM public.documents d WHERE d.status = $1 AND d.name ILIKE $2",
			[]any{"indexed", "%report%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build(testBuilder()).BuildCount()
			if sql != tt.wantSQL {
				t.Errorf("BuildCount() sql = %q, want %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("BuildCount() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildPage(t *testing.T) {
	sql, args := testBuilder().
		WhereEquals("Status", "indexed").
		BuildPage(2, 20)

	want := "SELECT d.id, d.name, d.status, d.uploaded_at FROM public.documents d" +
		" WHERE d.status = $1 ORDER BY d.uploaded_at DESC LIMIT 20 OFFSET 20"
	if sql != want {
		t.Errorf("BuildPage() sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"indexed"}) {
		t.Errorf("BuildPage() args = %v, want [indexed]", args)
	}
}

func TestBuildPageCustomSort(t *testing.T) {
	sql, _ := testBuilder().
		OrderByFields([]query.SortField{{Field: "Name"}, {Field: "UploadedAt", Descending: true}}).
		BuildPage(1, 10)

	want := "SELECT d.id, d.name, d.status, d.uploaded_at FROM public.documents d" +
		" ORDER BY d.name ASC, d.uploaded_at DESC LIMIT 10 OFFSET 0"
	if sql != want {
		t.Errorf("BuildPage() sql = %q, want %q", sql, want)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := testBuilder().BuildSingle("Id", "abc-123")

	want := "SELECT d.id, d.name, d.status, d.uploaded_at FROM public.documents d WHERE d.id = $1"
	if sql != want {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"abc-123"}) {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestWhereIgnoresEmptyValues(t *testing.T) {
	sql, args := testBuilder().
		WhereEquals("Status", nil).
		WhereContains("Name", nil).
		WhereContains("Name", ptr("")).
		WhereIn("Status", nil).
		WhereSearch(nil, "Name").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.documents d"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if args != nil {
		t.Errorf("BuildCount() args = %v, want nil", args)
	}
}

func TestWhereIn(t *testing.T) {
	sql, args := testBuilder().
		WhereIn("Status", []any{"indexed", "error"}).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.documents d WHERE d.status IN ($1, $2)"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"indexed", "error"}) {
		t.Errorf("BuildCount() args = %v, want [indexed error]", args)
	}
}

func TestWhereSearch(t *testing.T) {
	sql, args := testBuilder().
		WhereSearch(ptr("refund"), "Name", "Status").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.documents d WHERE (d.name ILIKE $1 OR d.status ILIKE $2)"
	if sql != want {
		t.Errorf("BuildCount() sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"%refund%", "%refund%"}) {
		t.Errorf("BuildCount() args = %v, want [%%refund%% %%refund%%]", args)
	}
}

func ptr(s string) *string { return &s }
