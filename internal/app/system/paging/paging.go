// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the default number of items returned by list endpoints.
const PageSize = 50

// MaxPageSize caps the "limit" query parameter.
const MaxPageSize = 200

// Params is a parsed limit/offset window.
type Params struct {
	Limit  int
	Offset int
}

// Parse extracts "limit" and "offset" from the query string. Missing or
// invalid values fall back to PageSize and 0; limit is capped at MaxPageSize.
func Parse(r *http.Request) Params {
	p := Params{Limit: PageSize}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n > 0 {
		p.Limit = min(n, MaxPageSize)
	}
	if n, err := strconv.Atoi(query.Get(r, "offset")); err == nil && n > 0 {
		p.Offset = n
	}
	return p
}

// LimitPlusOne returns Limit+1 as int64 for look-ahead pagination
// (fetch one extra document to detect hasNext).
func (p Params) LimitPlusOne() int64 { return int64(p.Limit + 1) }

// ApplyToFind sets skip and the look-ahead limit on find.
func (p Params) ApplyToFind(find *options.FindOptions) *options.FindOptions {
	return find.SetSkip(int64(p.Offset)).SetLimit(p.LimitPlusOne())
}

// Page is the JSON envelope for list endpoints.
type Page[T any] struct {
	Items      []T  `json:"items"`
	HasNext    bool `json:"has_next"`
	NextOffset int  `json:"next_offset,omitempty"`
}

// Trim drops the look-ahead row fetched by ApplyToFind and wraps rows in a
// Page. A nil slice becomes an empty one so it encodes as [].
func Trim[T any](rows []T, p Params) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	page := Page[T]{Items: rows}
	if len(rows) > p.Limit {
		page.Items = rows[:p.Limit]
		page.HasNext = true
		page.NextOffset = p.Offset + p.Limit
	}
	return page
}
