package present

import (
	"sync"
	"time"
)

// DefaultSlidePeriod is how long each slide stays up before auto-advancing.
const DefaultSlidePeriod = 5 * time.Second

// Keys understood by the lightbox.
const (
	KeyEscape     = "Escape"
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
)

// SlideState is what the project page renders.
type SlideState struct {
	Index         int
	LightboxOpen  bool
	LightboxIndex int
}

// Slideshow drives the project detail page: an auto-advancing main view and
// a lightbox with its own position.
//
// The timer runs only while the lightbox is closed. Close stops it for good;
// after Close returns no further changes happen and OnChange is not called.
type Slideshow struct {
	mu       sync.Mutex
	n        int
	index    int
	open     bool
	lbIndex  int
	closed   bool
	onChange func(SlideState)

	ticker *time.Ticker
	period time.Duration
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewSlideshow starts a slideshow over n images advancing every period
// (DefaultSlidePeriod when period <= 0). onChange may be nil; it is called
// outside the slideshow's lock after every state change.
func NewSlideshow(n int, period time.Duration, onChange func(SlideState)) *Slideshow {
	if period <= 0 {
		period = DefaultSlidePeriod
	}
	s := &Slideshow{
		n:        max(n, 0),
		onChange: onChange,
		period:   period,
		ticker:   time.NewTicker(period),
		done:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Slideshow) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.update(func() bool {
				if s.open || s.n == 0 {
					return false
				}
				s.index = step(s.index, 1, s.n)
				return true
			})
		}
	}
}

// update applies fn under the lock and reports the new state if fn changed
// anything.
func (s *Slideshow) update(fn func() bool) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	changed := fn()
	state := s.stateLocked()
	notify := s.onChange
	s.mu.Unlock()

	if changed && notify != nil {
		notify(state)
	}
	return changed
}

func (s *Slideshow) stateLocked() SlideState {
	return SlideState{Index: s.index, LightboxOpen: s.open, LightboxIndex: s.lbIndex}
}

// State returns the current position and lightbox status.
func (s *Slideshow) State() SlideState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Next moves the main view forward and restarts the auto-advance period.
func (s *Slideshow) Next() {
	s.update(func() bool {
		if s.n == 0 {
			return false
		}
		s.index = step(s.index, 1, s.n)
		s.restartLocked()
		return true
	})
}

// Prev moves the main view back and restarts the auto-advance period.
func (s *Slideshow) Prev() {
	s.update(func() bool {
		if s.n == 0 {
			return false
		}
		s.index = step(s.index, -1, s.n)
		s.restartLocked()
		return true
	})
}

// GoTo selects image k in the main view (thumbnail click).
func (s *Slideshow) GoTo(k int) bool {
	return s.update(func() bool {
		if k < 0 || k >= s.n {
			return false
		}
		s.index = k
		s.restartLocked()
		return true
	})
}

// OpenLightbox shows image k full screen and pauses auto-advance.
func (s *Slideshow) OpenLightbox(k int) bool {
	return s.update(func() bool {
		if k < 0 || k >= s.n {
			return false
		}
		s.open = true
		s.lbIndex = k
		s.ticker.Stop()
		return true
	})
}

// CloseLightbox hides the lightbox and resumes auto-advance. The main view
// keeps its own position.
func (s *Slideshow) CloseLightbox() {
	s.update(func() bool {
		if !s.open {
			return false
		}
		s.open = false
		s.ticker.Reset(s.period)
		return true
	})
}

// HandleKey applies a keyboard event. Keys are ignored unless the lightbox
// is open; the return value reports whether the key was consumed.
func (s *Slideshow) HandleKey(key string) bool {
	switch key {
	case KeyEscape:
		s.mu.Lock()
		open := s.open
		s.mu.Unlock()
		if !open {
			return false
		}
		s.CloseLightbox()
		return true
	case KeyArrowRight, KeyArrowLeft:
		d := 1
		if key == KeyArrowLeft {
			d = -1
		}
		return s.update(func() bool {
			if !s.open || s.n == 0 {
				return false
			}
			s.lbIndex = step(s.lbIndex, d, s.n)
			return true
		})
	}
	return false
}

// SetLen changes the number of images. Positions that no longer exist reset
// to the first image.
func (s *Slideshow) SetLen(n int) {
	s.update(func() bool {
		s.n = max(n, 0)
		if s.index >= s.n {
			s.index = 0
		}
		if s.lbIndex >= s.n {
			s.lbIndex = 0
		}
		if s.n == 0 && s.open {
			s.open = false
			s.ticker.Reset(s.period)
		}
		return true
	})
}

// Close stops the timer and waits for the advance goroutine to exit.
// It is safe to call more than once.
func (s *Slideshow) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.ticker.Stop()
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Slideshow) restartLocked() {
	if !s.open {
		s.ticker.Reset(s.period)
	}
}
