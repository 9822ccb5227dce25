package wellknown

import "time"

// Timestamp mirrors google.protobuf.Timestamp: seconds and nanos since the
// Unix epoch. nanos is ignored by every rule below, by design, so two
// Timestamps that differ only in nanos compare identically under
// gt_now/lt_now/within.
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// Clock supplies the wall-clock reading the timestamp.* rules compare
// against. Validators take a Clock instead of calling time.Now directly
// so tests are deterministic: a fixed FakeClock reproduces any
// gt_now/lt_now/within boundary without a flaky real-time dependency.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FakeClock is a fixed Clock for tests.
type FakeClock struct {
	At time.Time
}

func (c FakeClock) Now() time.Time { return c.At }

// GtNow reports whether ts.Seconds is strictly after clk's current time
// (timestamp.gt_now).
func GtNow(ts Timestamp, clk Clock) bool {
	return ts.Seconds > clk.Now().Unix()
}

// LtNow reports whether ts.Seconds is strictly before clk's current time
// (timestamp.lt_now).
func LtNow(ts Timestamp, clk Clock) bool {
	return ts.Seconds < clk.Now().Unix()
}

// Within reports whether ts.Seconds is within d of clk's current time in
// either direction, inclusive (timestamp.within(d)).
func Within(ts Timestamp, d time.Duration, clk Clock) bool {
	now := clk.Now().Unix()
	diff := ts.Seconds - now
	if diff < 0 {
		diff = -diff
	}
	return diff <= int64(d/time.Second)
}
