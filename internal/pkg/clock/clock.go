package clock

import "time"

// Clock abstracts wall-clock time so lifecycle transitions can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func New() Clock {
	return systemClock{}
}

// Fixed is a Clock pinned to a settable instant.
type Fixed struct {
	Instant time.Time
}

func (f *Fixed) Now() time.Time {
	return f.Instant
}

func (f *Fixed) Advance(d time.Duration) {
	f.Instant = f.Instant.Add(d)
}
