package render

// PageLink is one element of the pagination widget. Dots marks an ellipsis.
type PageLink struct {
	Number  int
	Current bool
	Dots    bool
}

type Pager struct {
	Links []PageLink
	Prev  int
	Next  int
}

// Visible is false when there is a single page.
func (p Pager) Visible() bool { return len(p.Links) > 0 }

// Pagination builds the widget for current out of total pages: the first and
// last pages, a window of two around current, and dots three pages away.
// Prev and Next are 0 when there is no such page.
func Pagination(current, total int) Pager {
	var p Pager
	if total <= 1 {
		return p
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if current > 1 {
		p.Prev = current - 1
	}
	// Only pages 1, total and current-3..current+3 can produce a link.
	add := func(i int) {
		switch {
		case i == 1 || i == total || (i >= current-2 && i <= current+2):
			p.Links = append(p.Links, PageLink{Number: i, Current: i == current})
		case i == current-3 || i == current+3:
			p.Links = append(p.Links, PageLink{Dots: true})
		}
	}
	from, to := max(current-3, 2), min(current+3, total-1)
	add(1)
	for i := from; i <= to; i++ {
		add(i)
	}
	add(total)
	if current < total {
		p.Next = current + 1
	}
	return p
}
