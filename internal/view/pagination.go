package view

import "rtmd/pkg/schema"

// PageSizes is the closed set of selectable page sizes.
var PageSizes = []int{5, 10, 25, 50, 100}

// DefaultPageSize is used when the requested size is not in PageSizes.
const DefaultPageSize = 10

// Page is one visible window over a filtered sequence.
type Page struct {
	Items      []schema.Requirement `json:"requirements"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`

	// Buttons is the at-most-five page numbers the control surfaces,
	// centered on the current page when possible.
	Buttons []int `json:"pages"`
}

// Paginate computes the window for a 1-indexed page over the filtered
// sequence. The size snaps to the closed set, the page clamps into
// range, and TotalPages is 0 for an empty sequence (rendered as "no
// results", never "page 1 of 0").
func Paginate(filtered []schema.Requirement, page, size int) Page {
	size = normalizeSize(size)
	total := len(filtered)
	totalPages := (total + size - 1) / size
	page = ClampPage(page, totalPages)

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]schema.Requirement, end-start)
	copy(items, filtered[start:end])

	return Page{
		Items:      items,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   size,
		Buttons:    PageWindow(page, totalPages),
	}
}

// ClampPage forces p into [1, max(1, totalPages)]. A user narrowing a
// filter must never be left viewing an out-of-range page.
func ClampPage(p, totalPages int) int {
	maxPage := totalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if p < 1 {
		return 1
	}
	if p > maxPage {
		return maxPage
	}
	return p
}

// PageWindow returns the at-most-five page numbers to surface, centered
// on p when possible: all pages when totalPages <= 5, the first five
// near the start, the last five near the end, otherwise p-2..p+2.
func PageWindow(p, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}

	var first int
	switch {
	case totalPages <= 5:
		return pageRange(1, totalPages)
	case p <= 3:
		first = 1
	case p >= totalPages-2:
		first = totalPages - 4
	default:
		first = p - 2
	}
	return pageRange(first, first+4)
}

func pageRange(from, to int) []int {
	pages := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		pages = append(pages, n)
	}
	return pages
}

func normalizeSize(size int) int {
	for _, s := range PageSizes {
		if size == s {
			return size
		}
	}
	return DefaultPageSize
}
