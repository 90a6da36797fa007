package paging

// DefaultCapacity matches five rows of nine slots.
const DefaultCapacity = 45

// Paginator slices an ordered list into fixed-size pages and tracks the
// current page. Navigation clamps at both ends; there is no wraparound.
type Paginator[T any] struct {
	items    []T
	capacity int
	page     int
}

func New[T any](capacity int, items []T) *Paginator[T] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Paginator[T]{items: items, capacity: capacity}
}

// PageCount is ceil(len/capacity) but never less than one.
func PageCount(total, capacity int) int {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	pages := (total + capacity - 1) / capacity
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Clamp bounds a page index to [0, pages-1].
func Clamp(page, pages int) int {
	if pages <= 0 || page < 0 {
		return 0
	}
	if page >= pages {
		return pages - 1
	}
	return page
}

// Window returns the half-open item range of page n.
func Window(total, capacity, page int) (int, int) {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if page < 0 || total <= 0 {
		return 0, 0
	}
	start := page * capacity
	if start >= total {
		return total, total
	}
	end := start + capacity
	if end > total {
		end = total
	}
	return start, end
}

func (p *Paginator[T]) Capacity() int { return p.capacity }
func (p *Paginator[T]) Len() int      { return len(p.items) }
func (p *Paginator[T]) Page() int     { return p.page }

func (p *Paginator[T]) PageCount() int {
	return PageCount(len(p.items), p.capacity)
}

func (p *Paginator[T]) ItemsForPage(n int) []T {
	start, end := Window(len(p.items), p.capacity, n)
	return p.items[start:end:end]
}

// All returns the whole list, shared with the paginator.
func (p *Paginator[T]) All() []T {
	return p.items
}

// Items returns the current page.
func (p *Paginator[T]) Items() []T {
	return p.ItemsForPage(p.page)
}

// Next reports whether the page changed.
func (p *Paginator[T]) Next() bool {
	if p.page >= p.PageCount()-1 {
		return false
	}
	p.page++
	return true
}

func (p *Paginator[T]) Previous() bool {
	if p.page <= 0 {
		return false
	}
	p.page--
	return true
}

// SetPage moves to n, clamped to the valid range.
func (p *Paginator[T]) SetPage(n int) {
	p.page = Clamp(n, p.PageCount())
}

// Reset swaps in a reassembled list. The page index is kept numerically and
// re-clamped, so a list that shrank lands on its last valid page.
func (p *Paginator[T]) Reset(items []T) {
	p.items = items
	p.page = Clamp(p.page, p.PageCount())
}

func (p *Paginator[T]) HasNext() bool { return p.page < p.PageCount()-1 }
func (p *Paginator[T]) HasPrev() bool { return p.page > 0 }
