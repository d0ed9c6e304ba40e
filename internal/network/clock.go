package network

// Clock is a monotonic logical counter owned by one Registry.
//
// The registry keeps three of them: node ids, component ids and event
// sequence numbers. Nothing in lightpath uses process-wide counters, so two
// registries never share an id space.
//
// Clock is not safe for concurrent use; the registry is single-threaded.
type Clock struct {
	seq int64
}

// NewClock creates a new clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next value and advances the clock.
func (c *Clock) Next() int64 {
	c.seq++
	return c.seq
}

// Current returns the last issued value without advancing.
func (c *Clock) Current() int64 {
	return c.seq
}
