// Package listutil parses list query parameters shared by the admin API.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// PageInfo carries pagination metadata returned alongside a page of rows.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// Booking age windows accepted by ParseRange.
const (
	RangeAll   = "all"
	RangeWeek  = "7d"
	RangeMonth = "30d"
)

// ParsePageParams extracts page and per_page from URL query values.
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseChoice returns q[key] when it is one of allowed, else def.
func ParseChoice(q url.Values, key string, allowed []string, def string) string {
	if v := q.Get(key); slices.Contains(allowed, v) {
		return v
	}
	return def
}

// ParseSearch returns the trimmed free-text query under "q".
func ParseSearch(q url.Values) string {
	return strings.TrimSpace(q.Get("q"))
}

// ParseRange maps range=7d|30d onto a created-since cutoff relative to now.
// POST: zero time for "all" or anything unrecognised
func ParseRange(q url.Values, now time.Time) time.Time {
	switch q.Get("range") {
	case RangeWeek:
		return now.Add(-7 * 24 * time.Hour)
	case RangeMonth:
		return now.Add(-30 * 24 * time.Hour)
	}
	return time.Time{}
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1; Page clamped to [1, TotalPages]
func NewPageInfo(p PageParams, total int) PageInfo {
	perPage := p.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	page := min(max(p.Page, 1), totalPages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the SQL OFFSET for the current page.
// POST: Returns (Page-1) * PerPage
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}
