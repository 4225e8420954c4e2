package clock

import "time"

// Clock is the injectable time source. Services never call time.Now
// directly, so tests can pin and advance the clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// New returns a Clock backed by the system time
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
