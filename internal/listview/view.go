package listview

import "github.com/tbourn/go-repair-backend/internal/utils"

// Page size choices offered by the view's "show N per page" selector.
var PageSizes = []int{10, 25, 50}

// DefaultPageSize is used on mount and whenever a selection is not one of
// the enumerated choices.
const DefaultPageSize = 10

// View is the explicit, serializable view state owned by the presentation
// layer: the search term, the 1-based current page, and the page size.
// Everything else the view renders (filtered set, page count, visible rows)
// is derived from (snapshot, View) by pure functions rather than cached.
type View struct {
	Term string `json:"term"`
	Page int    `json:"page"`
	Size int    `json:"size"`
}

// NewView returns the initial view state: empty term, page 1, default size.
func NewView() View {
	return View{Page: 1, Size: DefaultPageSize}
}

// SetTerm replaces the search term and resets the page to 1 so the view
// never lands on a page that no longer exists for the new filtered set.
func (v *View) SetTerm(term string) {
	v.Term = term
	v.Page = 1
}

// SetSize replaces the page size and resets the page to 1. Sizes outside
// the enumerated choices fall back to DefaultPageSize.
func (v *View) SetSize(size int) {
	v.Size = DefaultPageSize
	for _, s := range PageSizes {
		if size == s {
			v.Size = size
			break
		}
	}
	v.Page = 1
}

// ParsePageSize converts the string value of the page-size selector (the
// widget reports "10", "25", "50") into an int, falling back to the default
// for anything unparseable.
func ParsePageSize(s string) int {
	return utils.AtoiDefault(s, DefaultPageSize)
}

// NextPage advances to the next page, clamped to totalPages.
func (v *View) NextPage(totalPages int) {
	if v.Page < totalPages {
		v.Page++
	}
}

// PrevPage moves back one page, clamped to 1.
func (v *View) PrevPage() {
	if v.Page > 1 {
		v.Page--
	}
}
