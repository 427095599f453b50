package search

import "tgfilebot/backend/internal/config"

// PageView is one stable window over a ranked id list.
type PageView struct {
	Items   []uint
	Page    int
	Pages   int
	Total   int
	HasNext bool
	HasPrev bool
}

// Paginate slices the ranked ids into the fixed-size page addressed by
// the 1-based page number. Out-of-range numbers are clamped to the
// nearest valid page instead of erroring, so a stale "next" tap after
// the result set shrank still lands on the last page.
func Paginate(ids []uint, page int) PageView {
	size := config.SearchPageSize
	total := len(ids)

	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return PageView{
		Items:   ids[start:end],
		Page:    page,
		Pages:   pages,
		Total:   total,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
