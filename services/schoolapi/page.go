package schoolapi

import (
	"bytes"
	"encoding/json"

	"github.com/trezcool/shule/core/school"
)

// Page is a list response. The server either answers a bare JSON array
// or wraps it as {"data": [...], "pagination": {...}}; both decode into a Page.
type Page[T any] struct {
	Data       []T                `json:"data"`
	Pagination *school.Pagination `json:"pagination,omitempty"`
}

type envelope[T any] struct {
	Data       []T                `json:"data"`
	Pagination *school.Pagination `json:"pagination"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = Page[T]{}
		return nil
	}
	if b[0] == '[' {
		var data []T
		if err := json.Unmarshal(b, &data); err != nil {
			return err
		}
		*p = Page[T]{Data: data}
		return nil
	}
	var env envelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	*p = Page[T]{Data: env.Data, Pagination: env.Pagination}
	return nil
}

// HasNext reports whether the server has more pages after this one.
func (p Page[T]) HasNext() bool {
	return p.Pagination != nil && p.Pagination.Page < p.Pagination.Pages
}
