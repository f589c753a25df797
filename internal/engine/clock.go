package engine

import "sync/atomic"

// Clock is a monotonic logical clock for move ordering.
//
// Every accepted move is stamped with the next sequence number. Rejected
// actions do not advance the clock, so a replayed session reproduces the
// same sequence exactly.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
