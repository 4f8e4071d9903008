package listutil

import (
	"net/url"
	"testing"
	"time"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  PageParams
	}{
		{"defaults", "", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"valid", "page=3&per_page=25", PageParams{Page: 3, PerPage: 25}},
		{"invalid per page", "per_page=7", PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"negative page", "page=-2", PageParams{Page: 1, PerPage: DefaultPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			if got := ParsePageParams(q); got != tt.want {
				t.Errorf("ParsePageParams(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestNewPageInfoBounds(t *testing.T) {
	tests := []struct {
		name      string
		params    PageParams
		total     int
		wantPage  int
		wantPages int
		wantStart int
		wantEnd   int
	}{
		{"empty", PageParams{Page: 1, PerPage: 25}, 0, 1, 1, 0, 0},
		{"first page", PageParams{Page: 1, PerPage: 25}, 60, 1, 3, 0, 25},
		{"last partial page", PageParams{Page: 3, PerPage: 25}, 60, 3, 3, 50, 60},
		{"page past end clamps", PageParams{Page: 9, PerPage: 25}, 60, 3, 3, 50, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.params, tt.total)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantPages {
				t.Errorf("info = %+v", info)
			}
			start, end := info.Bounds()
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Bounds() = %d,%d want %d,%d", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	q, _ := url.ParseQuery("month=1&year=2026")
	m := ParseMonth(q, now)
	if m.Year != 2026 || m.Month != time.January {
		t.Errorf("ParseMonth = %+v", m)
	}
	if p := m.Prev(); p.Year != 2025 || p.Month != time.December {
		t.Errorf("Prev = %+v", p)
	}
	if n := m.Next(); n.Year != 2026 || n.Month != time.February {
		t.Errorf("Next = %+v", n)
	}
	if m.Label() != "January 2026" {
		t.Errorf("Label = %q", m.Label())
	}
	if !m.End().Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("End = %v", m.End())
	}

	bad, _ := url.ParseQuery("month=13&year=2026")
	if got := ParseMonth(bad, now); got.Month != time.March || got.Year != 2026 {
		t.Errorf("invalid month fallback = %+v", got)
	}
	if got := ParseMonth(url.Values{}, now); got.Month != time.March {
		t.Errorf("empty fallback = %+v", got)
	}
}
