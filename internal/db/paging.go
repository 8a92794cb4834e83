package db

const (
	DefaultPerPage = 25
	MaxPerPage     = 100
)

// PagingParams define os parâmetros básicos de entrada
type PagingParams struct {
	Page    int
	PerPage int
}

func (p PagingParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

func (p PagingParams) Limit() int {
	switch {
	case p.PerPage < 1:
		return DefaultPerPage
	case p.PerPage > MaxPerPage:
		return MaxPerPage
	}
	return p.PerPage
}

// PagedResult encapsula os dados e os metadados da página
type PagedResult[T any] struct {
	Items       []T
	TotalItems  int
	CurrentPage int
	PerPage     int
}

func (p PagedResult[T]) TotalPages() int {
	if p.PerPage == 0 {
		return 0
	}
	return (p.TotalItems + p.PerPage - 1) / p.PerPage
}
