package service

// Pager tracks the position in a paginated listing. Page stays within
// [1, TotalPages], or is 1 when there are no pages.
type Pager struct {
	Page       int
	TotalPages int
}

// ClampPage bounds page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	return max(page, 1)
}

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

// Prev returns the previous page, clamped.
func (p Pager) Prev() int { return ClampPage(p.Page-1, p.TotalPages) }

// Next returns the next page, clamped.
func (p Pager) Next() int { return ClampPage(p.Page+1, p.TotalPages) }
