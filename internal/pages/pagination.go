package pages

import "fmt"

// Window is one page of a paginated collection. Items [Start, End) belong
// to the page.
type Window struct {
	Base  string
	Page  int
	Total int
	Start int
	End   int
}

// Paginate splits n items into pages of size. An empty collection yields a
// single empty page so the listing is still rendered.
func Paginate(base string, n, size int) []Window {
	if size <= 0 {
		size = 1
	}
	if n < 0 {
		n = 0
	}
	total := (n + size - 1) / size
	if total == 0 {
		total = 1
	}
	windows := make([]Window, 0, total)
	for k := 1; k <= total; k++ {
		start := (k - 1) * size
		end := min(k*size, n)
		if start > n {
			start = n
		}
		windows = append(windows, Window{Base: base, Page: k, Total: total, Start: start, End: end})
	}
	return windows
}

// OutputPath is "<base>.html" for the first page and "<base>-k.html" after.
func (w Window) OutputPath() string {
	return pageFile(w.Base, w.Page)
}

// Slug is the output name without extension.
func (w Window) Slug() string {
	if w.Page <= 1 {
		return w.Base
	}
	return fmt.Sprintf("%s-%d", w.Base, w.Page)
}

func (w Window) HasPrev() bool { return w.Page > 1 }
func (w Window) HasNext() bool { return w.Page < w.Total }

// PrevURL is relative to the listing directory; empty on the first page.
func (w Window) PrevURL() string {
	if !w.HasPrev() {
		return ""
	}
	return "./" + pageFile(w.Base, w.Page-1)
}

// NextURL is relative to the listing directory; empty on the last page.
func (w Window) NextURL() string {
	if !w.HasNext() {
		return ""
	}
	return "./" + pageFile(w.Base, w.Page+1)
}

// Context returns the template pagination block, or nil when the
// collection fits on one page.
func (w Window) Context() map[string]any {
	if w.Total <= 1 {
		return nil
	}
	return map[string]any{
		"current_page": w.Page,
		"total_pages":  w.Total,
		"has_prev":     w.HasPrev(),
		"has_next":     w.HasNext(),
		"prev_url":     w.PrevURL(),
		"next_url":     w.NextURL(),
	}
}

func pageFile(base string, page int) string {
	if page <= 1 {
		return base + ".html"
	}
	return fmt.Sprintf("%s-%d.html", base, page)
}
