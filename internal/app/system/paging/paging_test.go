package paging

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   Params
	}{
		{"defaults", "/", Params{Limit: PageSize}},
		{"explicit", "/?limit=10&offset=20", Params{Limit: 10, Offset: 20}},
		{"limit capped", "/?limit=5000", Params{Limit: MaxPageSize}},
		{"negative ignored", "/?limit=-1&offset=-5", Params{Limit: PageSize}},
		{"garbage ignored", "/?limit=abc&offset=x", Params{Limit: PageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(httptest.NewRequest("GET", tt.target, nil))
			if got != tt.want {
				t.Errorf("Parse(%q): got %+v, want %+v", tt.target, got, tt.want)
			}
		})
	}
}

func TestApplyToFind(t *testing.T) {
	find := Params{Limit: 10, Offset: 30}.ApplyToFind(options.Find())
	if find.Limit == nil || *find.Limit != 11 {
		t.Errorf("limit: got %v, want 11", find.Limit)
	}
	if find.Skip == nil || *find.Skip != 30 {
		t.Errorf("skip: got %v, want 30", find.Skip)
	}
}

func TestTrim(t *testing.T) {
	p := Params{Limit: 3, Offset: 6}

	page := Trim([]int{1, 2, 3, 4}, p)
	if len(page.Items) != 3 || !page.HasNext || page.NextOffset != 9 {
		t.Errorf("with extra: got %+v", page)
	}

	page = Trim([]int{1, 2}, p)
	if len(page.Items) != 2 || page.HasNext || page.NextOffset != 0 {
		t.Errorf("without extra: got %+v", page)
	}

	empty := Trim[int](nil, p)
	if empty.Items == nil {
		t.Error("nil rows should become an empty slice")
	}
}
