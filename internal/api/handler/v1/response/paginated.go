package response

// Paginated wraps list responses with paging metadata.
type Paginated[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

func NewPaginated[T any](items []T, total int64, page, perPage int) Paginated[T] {
	if items == nil {
		items = []T{}
	}

	return Paginated[T]{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
