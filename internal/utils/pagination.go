package utils

import (
	"strconv"
)

// PostsPerPage is the window size of every post listing.
const PostsPerPage = 10

// Page is one window of a listing.
type Page[T any] struct {
	Items    []T
	Number   int   // 1-based
	NumPages int   // never below 1
	Count    int64 // total items across all pages
	PerPage  int
}

func (p *Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page[T]) NextNumber() int {
	return p.Number + 1
}

func (p *Page[T]) PreviousNumber() int {
	return p.Number - 1
}

// PageRange lists every page number, for the paginator links.
func (p *Page[T]) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Paginator slices a listing of Count items into PerPage windows.
type Paginator struct {
	Count   int64
	PerPage int
}

func NewPaginator(count int64) Paginator {
	return Paginator{Count: count, PerPage: PostsPerPage}
}

// NumPages is at least 1: an empty listing still has an empty first page.
func (p Paginator) NumPages() int {
	if p.Count <= 0 || p.PerPage <= 0 {
		return 1
	}
	return int((p.Count + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Clamp maps any requested page number onto a valid one. Numbers past the
// end, and numbers below 1, land on the last page.
func (p Paginator) Clamp(number int) int {
	last := p.NumPages()
	if number < 1 || number > last {
		return last
	}
	return number
}

// Window returns limit and offset for a clamped page number.
func (p Paginator) Window(number int) (limit, offset int) {
	return p.PerPage, (number - 1) * p.PerPage
}

// PageNumber parses the ?page= query value. Missing or non-numeric values
// mean the first page; range problems are left to Paginator.Clamp.
func PageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}
