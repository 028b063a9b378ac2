package picker

import "sync/atomic"

// Clock stamps session events with strictly increasing sequence numbers.
type Clock interface {
	Next() int64
}

// LogicalClock is a monotonic counter starting at 0.
// Event order comes from seq, never from wall time.
type LogicalClock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *LogicalClock {
	return &LogicalClock{}
}

// Next returns the next sequence number and increments the clock.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}
