package schoolapi

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/trezcool/shule/core/school"
)

// ListOptions are the paging and search params common to list endpoints.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	setInt(v, "page", o.Page)
	setInt(v, "limit", o.Limit)
	setString(v, "search", o.Search)
	return v
}

func setInt(v url.Values, key string, n int) {
	if n > 0 {
		v.Set(key, strconv.Itoa(n))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

func pathf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func window(from, to time.Time) url.Values {
	v := url.Values{}
	if !from.IsZero() {
		v.Set("from", from.Format(school.DateLayout))
	}
	if !to.IsZero() {
		v.Set("to", to.Format(school.DateLayout))
	}
	return v
}
