// Package pagination parses page/limit query parameters and derives offsets
// and page counts.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalid is returned for unparsable or out-of-range page parameters.
var ErrInvalid = errors.New("invalid pagination")

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// Limits bounds what callers may ask for.
type Limits struct {
	Default int
	Max     int
}

// FromQuery reads "page" and "limit" from q, applying defaults for absent values.
func FromQuery(q url.Values, limits Limits) (Page, error) {
	p := Page{Number: 1, Limit: limits.Default}

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("%w: page must be an integer >= 1", ErrInvalid)
		}
		p.Number = n
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > limits.Max {
			return Page{}, fmt.Errorf("%w: limit must be an integer between 1 and %d", ErrInvalid, limits.Max)
		}
		p.Limit = n
	}
	return p, nil
}

// Offset is the number of items to skip. It saturates at math.MaxInt, so
// absurd page numbers land past the end instead of wrapping negative.
func (p Page) Offset() int {
	if p.Limit <= 0 || p.Number <= 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// Pages returns ceil(total / limit).
func (p Page) Pages(total int64) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
