package clock

import (
	"sync"
	"time"
)

// Fake is a Clock whose time only moves when advanced by the test.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake creates a Fake clock starting at the given time.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Sleep advances the fake time without blocking.
func (f *Fake) Sleep(duration time.Duration) {
	f.Advance(duration)
}

// After returns a channel that already carries the advanced time.
func (f *Fake) After(duration time.Duration) <-chan time.Time {
	f.Advance(duration)
	ch := make(chan time.Time, 1)
	ch <- f.Now()
	return ch
}

// Advance moves the fake time forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
