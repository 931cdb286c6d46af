// Package progress implements the per-node countdown timer.
//
// A Timer only counts. Whether it should advance this frame, and how fast,
// is decided by the owner.
package progress

// MinDuration is the shortest duration a timer accepts.
const MinDuration = 0.01

// Timer tracks elapsed seconds against a duration.
type Timer struct {
	duration     float64
	elapsed      float64
	justFinished bool
}

// New returns a timer with nothing elapsed.
func New(duration float64) *Timer {
	return NewWithElapsed(duration, 0)
}

// NewWithElapsed returns a timer already advanced by elapsed seconds,
// clamped into [0, duration].
func NewWithElapsed(duration, elapsed float64) *Timer {
	t := &Timer{duration: clampDuration(duration)}
	t.elapsed = clamp(elapsed, 0, t.duration)
	return t
}

// Tick advances the timer by delta seconds. JustFinished reports true
// only after the call that reaches the duration.
func (t *Timer) Tick(delta float64) {
	t.justFinished = false
	if t.Finished() || delta <= 0 {
		return
	}
	t.elapsed += delta
	if t.elapsed >= t.duration {
		t.elapsed = t.duration
		t.justFinished = true
	}
}

// Reset sets elapsed back to zero.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.justFinished = false
}

// SetDuration replaces the duration without resetting. A timer already past
// the new duration is finished immediately.
func (t *Timer) SetDuration(d float64) {
	t.duration = clampDuration(d)
	if t.elapsed > t.duration {
		t.elapsed = t.duration
	}
}

func (t *Timer) Duration() float64 { return t.duration }
func (t *Timer) Elapsed() float64  { return t.elapsed }
func (t *Timer) Finished() bool    { return t.elapsed >= t.duration }
func (t *Timer) JustFinished() bool {
	return t.justFinished
}

// Remaining returns duration - elapsed, never negative.
func (t *Timer) Remaining() float64 {
	r := t.duration - t.elapsed
	if r < 0 {
		return 0
	}
	return r
}

// Fraction returns elapsed/duration in [0, 1].
func (t *Timer) Fraction() float64 {
	return clamp(t.elapsed/t.duration, 0, 1)
}

func clampDuration(d float64) float64 {
	if d < MinDuration {
		return MinDuration
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
