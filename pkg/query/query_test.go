package query_test

import (
	"testing"

	"github.com/cropsight/cropsight/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "cases", "c").
		Project("id", "id").
		Project("topic", "topic").
		Project("created_at", "createdAt")
}

func ptr(s string) *string { return &s }

func TestProjectionMapFrom(t *testing.T) {
	p := testProjection()
	got := p.From()
	want := "public.cases c"
	if got != want {
		t.Errorf("From() = %q, want %q", got, want)
	}
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "c" {
		t.Errorf("Alias() = %q, want %q", got, "c")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "c.id, c.topic, c.created_at"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "topic", "c.topic"},
		{"mapped camel", "createdAt", "c.created_at"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "topic",
			want:  []query.SortField{{Field: "topic", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-createdAt",
			want:  []query.SortField{{Field: "createdAt", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "topic,-createdAt",
			want: []query.SortField{
				{Field: "topic", Descending: false},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " topic , -createdAt ",
			want: []query.SortField{
				{Field: "topic", Descending: false},
				{Field: "createdAt", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "topic,,createdAt",
			want: []query.SortField{
				{Field: "topic", Descending: false},
				{Field: "createdAt", Descending: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("topic", "Tomato")
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.cases c WHERE c.topic = $1"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 {
		t.Errorf("BuildCount() args = %v, want 1 arg", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "createdAt", Descending: true})
	sql, args := b.BuildPage(2, 10)

	wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c ORDER BY c.created_at DESC LIMIT 10 OFFSET 10"
	if sql != wantSQL {
		t.Errorf("BuildPage() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildPage() args = %v, want empty", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	b := query.NewBuilder(testProjection())
	sql, args := b.BuildSingle("id", "abc-123")

	wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c WHERE c.id = $1"
	if sql != wantSQL {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("BuildSingle() args = %v, want [abc-123]", args)
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("topic", "Tomato")
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c WHERE c.topic = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "Tomato" {
		t.Errorf("args = %v, want [Tomato]", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("topic", nil)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContains(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereContains("topic", ptr("blight"))
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c WHERE c.topic ILIKE $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%blight%" {
		t.Errorf("args = %v, want [%%blight%%]", args)
	}
}

func TestBuilderWhereContainsEmptySkipped(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereContains("topic", ptr(""))
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereNotNull(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereNotNull("topic", "createdAt")
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c WHERE c.topic IS NOT NULL AND c.created_at IS NOT NULL"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereNullable(t *testing.T) {
	t.Run("nil value generates IS NULL", func(t *testing.T) {
		b := query.NewBuilder(testProjection())
		b.WhereNullable("topic", nil)
		sql, args := b.Build()

		wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c WHERE c.topic IS NULL"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("non-nil value generates equals", func(t *testing.T) {
		b := query.NewBuilder(testProjection())
		b.WhereNullable("topic", "Tomato")
		sql, args := b.Build()

		wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c WHERE c.topic = $1"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 1 || args[0] != "Tomato" {
			t.Errorf("args = %v, want [Tomato]", args)
		}
	})
}

func TestBuilderWhereSearch(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereSearch(ptr("blight"), "topic", "id")
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c WHERE (c.topic ILIKE $1 OR c.id ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "%blight%" || args[1] != "%blight%" {
		t.Errorf("args = %v, want [%%blight%% %%blight%%]", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	b := query.NewBuilder(testProjection())
	b.WhereEquals("topic", "Tomato")
	b.WhereContains("id", ptr("abc"))
	sql, args := b.Build()

	wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c WHERE c.topic = $1 AND c.id ILIKE $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 {
		t.Errorf("args length = %d, want 2", len(args))
	}
}

func TestBuilderOrderByFields(t *testing.T) {
	b := query.NewBuilder(testProjection(), query.SortField{Field: "id", Descending: false})
	b.OrderByFields([]query.SortField{
		{Field: "createdAt", Descending: true},
		{Field: "topic", Descending: false},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT c.id, c.topic, c.created_at FROM public.cases c ORDER BY c.created_at DESC, c.topic ASC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}
