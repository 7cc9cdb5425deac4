package pagination

import "strconv"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is offset pagination state parsed from query parameters.
// Page numbers are 1-based.
type Page struct {
	Page  int
	Limit int
}

// Parse builds a Page from raw query values, falling back to defaults on
// absent or malformed input.
func Parse(pageStr, limitStr string) Page {
	p := Page{Page: 1, Limit: DefaultLimit}

	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		p.Limit = n
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}
	}
	return p
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// HasNext reports whether another page exists after this one:
// page * limit < total.
func (p Page) HasNext(total int64) bool {
	return int64(p.Page*p.Limit) < total
}
