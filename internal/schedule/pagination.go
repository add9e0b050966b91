package schedule

// Page - одна страница списка, Number считается с 1
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Paginate режет список на страницы по perPage и возвращает запрошенную,
// номер зажимается в [1, TotalPages]. У пустого списка одна пустая страница.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = 1
	}

	total := (len(items) + perPage - 1) / perPage
	if total == 0 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	from := (page - 1) * perPage
	to := from + perPage
	if to > len(items) {
		to = len(items)
	}

	return Page[T]{
		Items:      items[from:to],
		Number:     page,
		TotalPages: total,
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
}
