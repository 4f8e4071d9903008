// Package billfilter shows or hides bill rows by payment status.
package billfilter

// ShowAll matches every row.
const ShowAll = "all"

// Row is a bill line that can be hidden.
type Row interface {
	Status() string
	SetVisible(visible bool)
}

// Apply shows each row whose status equals status, or every row for ShowAll,
// and hides the rest.
func Apply[R Row](rows []R, status string) {
	for _, r := range rows {
		r.SetVisible(status == ShowAll || r.Status() == status)
	}
}

// Visible returns the indexes of the statuses Apply would show, in order.
func Visible(statuses []string, status string) []int {
	idx := make([]int, 0, len(statuses))
	for i, s := range statuses {
		if status == ShowAll || s == status {
			idx = append(idx, i)
		}
	}
	return idx
}
