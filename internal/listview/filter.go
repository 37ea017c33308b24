// Package listview implements the administrative list view over repair
// records: a client-held snapshot of the full record set, a pure
// filter/paginate pipeline derived from it, and a confirmation gate that
// guards every state-changing action.
//
// The server offers no search or pagination parameters, so the view fetches
// the complete list wholesale and recomputes its derived state locally:
//
//	snapshot → Filter(term) → Window(page, size)
//
// All derivation functions in this file are pure: they never mutate the
// snapshot and are recomputed from scratch on every change to the search
// term, page, page size, or snapshot.
package listview

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-repair-backend/internal/domain"
)

// Filter returns the subsequence of snapshot whose searchable text contains
// term, compared case-insensitively (Unicode case folding, so "mc-1"
// matches a machine id stored as "MC-102"). The searchable text of a record
// is the concatenation of repair_id, machine_id, user_id, and repair_status,
// skipping null fields. An empty or whitespace-only term matches everything.
//
// Order is preserved: the result is always a contiguous-order subsequence of
// the snapshot, which itself arrives newest-first from the server.
func Filter(snapshot []domain.Repair, term string) []domain.Repair {
	term = strings.TrimSpace(term)
	if term == "" {
		out := make([]domain.Repair, len(snapshot))
		copy(out, snapshot)
		return out
	}

	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]domain.Repair, 0, len(snapshot))
	for _, r := range snapshot {
		if strings.Contains(fold.String(searchText(r)), needle) {
			out = append(out, r)
		}
	}
	return out
}

// searchText concatenates the searchable fields of a record, skipping nils.
func searchText(r domain.Repair) string {
	var b strings.Builder
	b.WriteString(r.RepairID)
	if r.MachineID != nil {
		b.WriteByte(' ')
		b.WriteString(*r.MachineID)
	}
	if r.UserID != nil {
		b.WriteByte(' ')
		b.WriteString(*r.UserID)
	}
	b.WriteByte(' ')
	b.WriteString(r.RepairStatus)
	return b.String()
}

// TotalPages returns ceil(matches/size), floored at 1 so an empty filtered
// set still renders as a single (empty) page. A non-positive size is treated
// as the default page size.
func TotalPages(matches, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (matches + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Window returns the page-th window of size entries from filtered, i.e.
// filtered[(page-1)*size : page*size] clamped to the slice bounds. Pages are
// 1-based; out-of-range pages yield an empty window.
func Window(filtered []domain.Repair, page, size int) []domain.Repair {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	lo := (page - 1) * size
	if lo >= len(filtered) {
		return []domain.Repair{}
	}
	hi := lo + size
	if hi > len(filtered) {
		hi = len(filtered)
	}
	return filtered[lo:hi]
}
