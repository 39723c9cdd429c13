package clock

import "time"

// FakeClock is a manually advanced Clock for deterministic tests of the
// simulator loop, seeding, and status timestamps.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set jumps the clock to an absolute instant, used when a test needs to
// cross a month boundary without computing a delta.
func (c *FakeClock) Set(t time.Time) {
	c.now = t.UTC()
}
