package domain

import "time"

// Clock supplies the current time and the zone that decides which calendar
// day "today" is. The zero value uses time.Now in UTC.
type Clock struct {
	Location *time.Location
	NowFunc  func() time.Time
}

// NewClock returns a Clock reporting wall time in loc. A nil loc means UTC.
func NewClock(loc *time.Location) Clock {
	return Clock{Location: loc}
}

// Now returns the current time in the clock's location.
func (c Clock) Now() time.Time {
	now := time.Now
	if c.NowFunc != nil {
		now = c.NowFunc
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// Today returns the current calendar date in the clock's location.
func (c Clock) Today() time.Time {
	return DateOf(c.Now())
}
