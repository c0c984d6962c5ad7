package register

import "time"

// DateLayout is the layout of the stored day tags.
const DateLayout = "2006-01-02"

// ReadableLayout is the operator-facing timestamp layout (dd/mm/yyyy hh:mm:ss).
const ReadableLayout = "02/01/2006 15:04:05"

// Clock supplies wall time. Day tags are derived from Now in the clock's
// own location.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the configured location (local if nil).
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// Today returns the day tag for the clock's current time.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}
