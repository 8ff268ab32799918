package law

// PageResponse is a window over a larger result set.
type PageResponse[T any] struct {
	List            T    `json:"list"`
	First           bool `json:"first"`
	Last            bool `json:"last"`
	CurrentElements int  `json:"currentElements"`
	Size            int  `json:"size"`
	TotalElements   int  `json:"totalElements"`
	TotalPages      int  `json:"totalPages"`
	CurrentPage     int  `json:"currentPage"`
}

// Pagination holds the flags derived from a page/take window.
type Pagination struct {
	First           bool
	Last            bool
	CurrentElements int
	Size            int
	TotalElements   int
	TotalPages      int
	CurrentPage     int
}

// Paginate computes pagination flags. total may come from the upstream search
// count or a local bookmark count; the calculation does not care which.
// take below 1 yields zero pages.
func Paginate(page, take, total, current int) Pagination {
	totalPages := 0
	if take > 0 {
		totalPages = (total + take - 1) / take
	}
	return Pagination{
		First:           page == 1,
		Last:            page*take >= total && current > 0,
		CurrentElements: current,
		Size:            take,
		TotalElements:   total,
		TotalPages:      totalPages,
		CurrentPage:     page,
	}
}

// NewPage wraps list with the pagination flags.
func NewPage[T any](list T, p Pagination) *PageResponse[T] {
	return &PageResponse[T]{
		List:            list,
		First:           p.First,
		Last:            p.Last,
		CurrentElements: p.CurrentElements,
		Size:            p.Size,
		TotalElements:   p.TotalElements,
		TotalPages:      p.TotalPages,
		CurrentPage:     p.CurrentPage,
	}
}
