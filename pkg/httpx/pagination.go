package httpx

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// Page is a limit/offset window parsed from query parameters.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads "limit" and "offset" from the query string. Missing values
// fall back to DefaultPageLimit and 0; limit is capped at MaxPageLimit.
func ParsePage(r *http.Request) (Page, error) {
	p := Page{Limit: DefaultPageLimit}
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("limit must be a positive integer")
		}
		p.Limit = min(n, MaxPageLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Page{}, fmt.Errorf("offset must be a non-negative integer")
		}
		p.Offset = n
	}
	return p, nil
}
