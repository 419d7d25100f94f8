// Package paginate provides fixed-size page math shared by every feed
// scope. Out-of-range page numbers clamp instead of failing: a request
// below 1 resolves to the first page, a request past the end resolves
// to the last page, and an empty collection still has one empty page.
package paginate

// Page is one window into an ordered collection.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int64
	TotalPages int
}

func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

func (p Page[T]) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

func (p Page[T]) PrevNumber() int {
	if !p.HasPrev() {
		return p.Number
	}
	return p.Number - 1
}

// TotalPages reports how many pages a collection of totalItems spans.
// An empty collection still spans one (empty) page.
func TotalPages(totalItems int64, size int) int {
	if size < 1 {
		size = 1
	}
	pages := int((totalItems + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp resolves a requested page number against the collection bounds.
func Clamp(requested, totalPages int) int {
	if requested < 1 {
		return 1
	}
	if requested > totalPages {
		return totalPages
	}
	return requested
}

// Offset is the row offset of the given page.
func Offset(number, size int) int {
	if number < 1 {
		number = 1
	}
	return (number - 1) * size
}

// New assembles a Page from an already-clamped number and its items.
func New[T any](items []T, number, size int, totalItems int64) Page[T] {
	return Page[T]{
		Items:      items,
		Number:     number,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: TotalPages(totalItems, size),
	}
}
