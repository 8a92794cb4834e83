package view

import "math"

type Pagination struct {
	CurrentPage int
	TotalItems  int
	PerPage     int
}

func NewPagination(page, total, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 25
	}
	return Pagination{
		CurrentPage: page,
		TotalItems:  total,
		PerPage:     perPage,
	}
}

func (p Pagination) TotalPages() int {
	return int(math.Ceil(float64(p.TotalItems) / float64(p.PerPage)))
}

func (p Pagination) HasPrevious() bool {
	return p.CurrentPage > 1
}

func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages()
}

func (p Pagination) PreviousPage() int {
	if p.HasPrevious() {
		return p.CurrentPage - 1
	}
	return 1
}

func (p Pagination) NextPage() int {
	if p.HasNext() {
		return p.CurrentPage + 1
	}
	// sem resultados TotalPages é 0; page=0 não existe
	return max(p.TotalPages(), 1)
}

// Window returns up to size page numbers centred on the current page.
func (p Pagination) Window(size int) []int {
	total := p.TotalPages()
	if total == 0 || size < 1 {
		return nil
	}
	start := max(p.CurrentPage-size/2, 1)
	end := min(start+size-1, total)
	start = max(end-size+1, 1)

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
