package view

// Page is one window of a paginated collection.
//
// StartIndex and EndIndex are zero-based positions in the full collection;
// EndIndex is exclusive. A page past the end has no items and
// StartIndex == EndIndex.
type Page[T any] struct {
	Items      []T
	TotalPages int
	StartIndex int
	EndIndex   int
}

// Paginate slices items into the 1-based page of size pageSize.
//
// Out-of-range pages yield an empty window instead of an error; keeping the
// requested page within 1..TotalPages is the caller's job. A non-positive
// pageSize is treated as a single page holding everything.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	n := len(items)
	if pageSize <= 0 {
		pageSize = max(n, 1)
	}
	total := (n + pageSize - 1) / pageSize

	start := clamp((page-1)*pageSize, 0, n)
	end := clamp(page*pageSize, start, n)

	return Page[T]{
		Items:      items[start:end:end],
		TotalPages: total,
		StartIndex: start,
		EndIndex:   end,
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Ellipsis is how a gap in the page-number strip is rendered.
const Ellipsis = "…"

// PageItem is one entry of a page-number strip: a page number, or a gap.
type PageItem struct {
	Page     int
	Ellipsis bool
}

func (p PageItem) String() string {
	if p.Ellipsis {
		return Ellipsis
	}
	return itoa(p.Page)
}

// PageNumbers builds the compact page strip shown under paginated lists.
//
//	total <= 5         1 2 3 … total (everything)
//	current <= 3       1 2 3 4 … total
//	current >= total-2 1 … total-3 total-2 total-1 total
//	otherwise          1 … current-1 current current+1 … total
func PageNumbers(current, total int) []PageItem {
	gap := PageItem{Ellipsis: true}
	pages := func(ns ...int) []PageItem {
		out := make([]PageItem, 0, len(ns))
		for _, n := range ns {
			out = append(out, PageItem{Page: n})
		}
		return out
	}

	switch {
	case total <= 0:
		return nil
	case total <= 5:
		out := make([]PageItem, 0, total)
		for i := 1; i <= total; i++ {
			out = append(out, PageItem{Page: i})
		}
		return out
	case current <= 3:
		return append(pages(1, 2, 3, 4), gap, PageItem{Page: total})
	case current >= total-2:
		return append([]PageItem{{Page: 1}, gap}, pages(total-3, total-2, total-1, total)...)
	default:
		out := append([]PageItem{{Page: 1}, gap}, pages(current-1, current, current+1)...)
		return append(out, gap, PageItem{Page: total})
	}
}
