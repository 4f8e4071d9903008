// Package listutil parses list-view query parameters: paging and the
// one-month-per-page window used by the bills list.
package listutil

import (
	"net/url"
	"strconv"
	"time"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 50

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{25, 50, 100}

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// ParsePageParams extracts page and per_page from URL query values.
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1; Page clamped to [1, TotalPages]
func NewPageInfo(p PageParams, total int) PageInfo {
	perPage := p.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page := p.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Bounds returns the [start, end) slice indexes of the current page.
func (p PageInfo) Bounds() (start, end int) {
	start = (p.Page - 1) * p.PerPage
	if start > p.Total {
		start = p.Total
	}
	end = start + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}

// Month is a calendar month in the shop's local time.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	loc   *time.Location
}

// ParseMonth reads month and year from URL query values. Missing or invalid
// values fall back to the month containing now.
func ParseMonth(q url.Values, now time.Time) Month {
	m := Month{Year: now.Year(), Month: now.Month(), loc: now.Location()}
	month, errM := strconv.Atoi(q.Get("month"))
	year, errY := strconv.Atoi(q.Get("year"))
	if errM != nil || errY != nil || month < 1 || month > 12 || year < 1 {
		return m
	}
	m.Year, m.Month = year, time.Month(month)
	return m
}

func (m Month) location() *time.Location {
	if m.loc == nil {
		return time.UTC
	}
	return m.loc
}

// Start is midnight on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, m.location())
}

// End is midnight on the first day of the following month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Prev returns the previous month.
func (m Month) Prev() Month {
	s := m.Start().AddDate(0, -1, 0)
	return Month{Year: s.Year(), Month: s.Month(), loc: m.loc}
}

// Next returns the following month.
func (m Month) Next() Month {
	s := m.End()
	return Month{Year: s.Year(), Month: s.Month(), loc: m.loc}
}

// Label renders the month as "March 2026".
func (m Month) Label() string {
	return m.Start().Format("January 2006")
}
