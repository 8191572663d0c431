package validity

import "time"

// SetClock replaces the clock used to stamp committed states.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}
