package clock

import "time"

// DefaultMaxStep is the largest elapsed time a single tick can account for unless configured otherwise.
const DefaultMaxStep = 100 * time.Millisecond

// FrameTime is the simulation time handed to a tick.
type FrameTime struct {
	// Time is the accumulated simulation time in seconds, the sum of every clamped Elapsed so far.
	Time float64
	// Elapsed is the clamped time in seconds since the previous tick, 0 on the first tick.
	Elapsed float64
	// Frame counts ticks starting at 1.
	Frame uint64
	// Timestamp is the raw timestamp the tick was advanced with.
	Timestamp time.Duration
}

// clock is the implementation of the Clock interface.
type clock struct {
	maxStep  time.Duration
	previous time.Duration
	started  bool
	current  FrameTime
}

// Clock turns the raw timestamps of a tick source into bounded simulation time.
type Clock interface {
	// Advance accounts for a new tick.
	// The elapsed time since the previous timestamp is clamped to the maximum step;
	// the first tick and timestamps that go backwards account for no time at all.
	//
	// Parameters:
	//   - timestamp: the tick source's monotonic timestamp
	//
	// Returns:
	//   - FrameTime: the simulation time for this tick
	Advance(timestamp time.Duration) FrameTime

	// Now returns the FrameTime produced by the most recent Advance.
	//
	// Returns:
	//   - FrameTime: the current simulation time, zero before the first tick
	Now() FrameTime

	// MaxStep returns the clamp applied to each tick's elapsed time.
	//
	// Returns:
	//   - time.Duration: the maximum step
	MaxStep() time.Duration
}

var _ Clock = &clock{}

// NewClock creates a Clock that clamps each tick to maxStep.
//
// Parameters:
//   - maxStep: the largest elapsed time per tick, DefaultMaxStep if not positive
//
// Returns:
//   - Clock: a clock that has not seen any tick yet
func NewClock(maxStep time.Duration) Clock {
	if maxStep <= 0 {
		maxStep = DefaultMaxStep
	}
	return &clock{maxStep: maxStep}
}

func (c *clock) Advance(timestamp time.Duration) FrameTime {
	if !c.started {
		c.previous = timestamp
		c.started = true
	}
	step := timestamp - c.previous
	c.previous = timestamp
	if step < 0 {
		step = 0
	}
	if step > c.maxStep {
		step = c.maxStep
	}

	c.current = FrameTime{
		Time:      c.current.Time + step.Seconds(),
		Elapsed:   step.Seconds(),
		Frame:     c.current.Frame + 1,
		Timestamp: timestamp,
	}
	return c.current
}

func (c *clock) Now() FrameTime {
	return c.current
}

func (c *clock) MaxStep() time.Duration {
	return c.maxStep
}
