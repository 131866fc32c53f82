package present

import "sync"

// Pager tracks the current page of a paginated list.
//
// onChange stands in for the page's scroll-to-top: it fires after every
// successful page change with the new page number.
type Pager struct {
	mu       sync.Mutex
	current  int
	total    int
	onChange func(page int)
}

// NewPager starts on page 1 of total pages.
func NewPager(total int, onChange func(page int)) *Pager {
	return &Pager{current: 1, total: max(total, 0), onChange: onChange}
}

func (p *Pager) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// GoToPage moves to page n. Pages outside 1..Total are refused.
func (p *Pager) GoToPage(n int) bool {
	p.mu.Lock()
	if n < 1 || n > p.total {
		p.mu.Unlock()
		return false
	}
	p.current = n
	hook := p.onChange
	p.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return true
}

// Next is a no-op on the last page.
func (p *Pager) Next() bool {
	return p.GoToPage(p.Current() + 1)
}

// Prev is a no-op on the first page.
func (p *Pager) Prev() bool {
	return p.GoToPage(p.Current() - 1)
}

// SetTotal updates the page count after the list changes. If the current
// page disappeared the pager falls back to the last remaining page.
func (p *Pager) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = max(total, 0)
	if p.current > p.total {
		p.current = max(p.total, 1)
	}
}
