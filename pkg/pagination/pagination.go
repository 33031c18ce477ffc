package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any listing call can request.
	MaxLimit = 100
)

// Params holds page pagination inputs for listing calls.
type Params struct {
	Page  int
	Limit int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage floors the page number at 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Apply writes the normalized pagination fields onto a query string.
func (p Params) Apply(query url.Values) {
	query.Set("page", strconv.Itoa(NormalizePage(p.Page)))
	query.Set("limit", strconv.Itoa(NormalizeLimit(p.Limit)))
}
