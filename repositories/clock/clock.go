package clock

import "time"

type Clock interface {
	Now() time.Time
}

type clock struct {
	location *time.Location
}

func (c *clock) Now() time.Time {
	return time.Now().In(c.location)
}

func New() Clock {
	return &clock{location: time.Local}
}

// NewInLocation returns a clock whose times are expressed in the given zone, so that stored
// timestamps carry the configured offset.
func NewInLocation(location *time.Location) Clock {
	if location == nil {
		location = time.Local
	}
	return &clock{location: location}
}

type Mock struct {
	now time.Time
}

func NewMock(now time.Time) *Mock {
	return &Mock{
		now: now,
	}
}

func (m *Mock) Now() time.Time {
	return m.now
}

func (m *Mock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}
