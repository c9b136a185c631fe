package shared

import "time"

// Clock abstracts wall time for everything that waits or timestamps: the
// engine loops, LLM retry backoff and the catalog cache. Tests swap in a
// ManualClock so compressed-time behavior is deterministic.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d. Backoff waits route through here so a manual
	// clock can collapse them.
	Sleep(d time.Duration)
}

// WallClock reads the system clock. All instants are UTC.
type WallClock struct{}

// NewWallClock returns the process wall clock.
func NewWallClock() Clock {
	return &WallClock{}
}

func (WallClock) Now() time.Time {
	return time.Now().UTC()
}

func (WallClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// ManualClock only moves when told to. Sleep advances instead of
// blocking, so retry backoff costs nothing under test.
type ManualClock struct {
	now time.Time
}

// NewManualClock starts a manual clock at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start.UTC()}
}

func (m *ManualClock) Now() time.Time {
	return m.now
}

func (m *ManualClock) Sleep(d time.Duration) {
	m.now = m.now.Add(d)
}

// Advance moves the clock forward by d.
func (m *ManualClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// SetTime jumps the clock to t.
func (m *ManualClock) SetTime(t time.Time) {
	m.now = t.UTC()
}
