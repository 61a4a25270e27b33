// Package clock paces the frame loop and derives a bounded delta time.
package clock

import "time"

// Pacer sleeps off whatever is left of the per-frame budget and reports the
// elapsed time since the previous frame, clamped to MaxDelta seconds.
type Pacer struct {
	budget   time.Duration
	maxDelta float64
	now      func() time.Time
	sleep    func(time.Duration)
	last     time.Time
}

// NewPacer returns a pacer for the target frame rate using the wall clock.
func NewPacer(fps int, maxDelta float64) *Pacer {
	return NewPacerWithClock(fps, maxDelta, time.Now, time.Sleep)
}

func NewPacerWithClock(fps int, maxDelta float64, now func() time.Time, sleep func(time.Duration)) *Pacer {
	if fps <= 0 {
		fps = 1
	}
	p := &Pacer{
		budget:   time.Second / time.Duration(fps),
		maxDelta: maxDelta,
		now:      now,
		sleep:    sleep,
	}
	p.last = now()
	return p
}

func (p *Pacer) Budget() time.Duration { return p.budget }

// Reset restarts timing from now, so the next Tick does not see a pause.
func (p *Pacer) Reset() { p.last = p.now() }

// Tick blocks until the frame budget is spent and returns the clamped delta.
func (p *Pacer) Tick() float64 {
	if wait := p.budget - p.now().Sub(p.last); wait > 0 {
		p.sleep(wait)
	}
	return p.Since()
}

// Since returns the clamped delta since the previous frame without sleeping.
// Used when something else (a UI tick) already paces the loop.
func (p *Pacer) Since() float64 {
	current := p.now()
	dt := Clamp(current.Sub(p.last), p.maxDelta)
	p.last = current
	return dt
}

// Clamp converts elapsed to seconds, capped at maxDelta. Negative elapsed
// time (clock adjustments) yields zero.
func Clamp(elapsed time.Duration, maxDelta float64) float64 {
	dt := elapsed.Seconds()
	if dt < 0 {
		return 0
	}
	if dt > maxDelta {
		return maxDelta
	}
	return dt
}
