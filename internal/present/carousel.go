// Package present contains the small state machines behind the site's
// interactive widgets: carousels, the project slideshow and its lightbox,
// the pager, flash notices and the admin project form.
//
// Each value is private to one widget instance and safe for concurrent use.
// None of them touch the network.
package present

import "sync"

// step moves i by d positions on a ring of n slots. With n == 0 there is
// nowhere to move and 0 is returned.
func step(i, d, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i+d)%n + n) % n
}

// Carousel is an index over n slides that wraps at both ends.
type Carousel struct {
	mu    sync.Mutex
	index int
	n     int
}

// NewCarousel returns a carousel over n slides, positioned on the first.
func NewCarousel(n int) *Carousel {
	return &Carousel{n: max(n, 0)}
}

// Next advances one slide, wrapping to the first.
func (c *Carousel) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = step(c.index, 1, c.n)
	return c.index
}

// Prev goes back one slide, wrapping to the last.
func (c *Carousel) Prev() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = step(c.index, -1, c.n)
	return c.index
}

// GoTo jumps to slide k. Out-of-range k is ignored and reported as false.
func (c *Carousel) GoTo(k int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if k < 0 || k >= c.n {
		return false
	}
	c.index = k
	return true
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Carousel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// SetLen changes the number of slides, e.g. after the project reloads.
// The position resets to the first slide when it no longer exists.
func (c *Carousel) SetLen(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = max(n, 0)
	if c.index >= c.n {
		c.index = 0
	}
}
