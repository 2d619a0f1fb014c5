package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	c := New()
	before := time.Now()
	assert.False(t, c.Now().Before(before))
	assert.NotPanics(t, func() {
		c.Sleep(time.Millisecond)
	})
	select {
	case <-c.After(time.Millisecond):
	case <-time.After(time.Second):
		t.Fatal("After never fired")
	}
}

func TestFake(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := NewFake(start)
	assert.Equal(t, start, f.Now())

	f.Advance(2 * time.Hour)
	assert.Equal(t, start.Add(2*time.Hour), f.Now())

	<-f.After(time.Minute)
	assert.Equal(t, start.Add(2*time.Hour+time.Minute), f.Now())
}
