package weather

import "time"

// DateLayout is the wire format for all date parameters.
const DateLayout = "2006-01-02"

// Clock bundles a time source with the station's fixed timezone. All "current
// date" and time-of-day formatting goes through a Clock so tests can pin now.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock returns a Clock backed by the wall clock in the given timezone.
func SystemClock(loc *time.Location) Clock {
	return Clock{
		Now:      time.Now,
		Location: loc,
	}
}

// Today returns the current date in the station timezone as YYYY-MM-DD.
func (c Clock) Today() string {
	return c.Now().In(c.Location).Format(DateLayout)
}
