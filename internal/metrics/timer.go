package metrics

import "time"

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Millis is the elapsed time in fractional milliseconds, the unit of every
// duration histogram below.
func (t *Timer) Millis() float64 {
	return float64(t.Duration()) / float64(time.Millisecond)
}
