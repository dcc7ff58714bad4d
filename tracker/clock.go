package tracker

import (
	"errors"
	"math"
	"time"
)

type (
	// Clock maps wall-clock time to timeline steps. Elapsed steps are counted
	// from a baseline (a time and the step played at that time) instead of
	// counting timer callbacks, so timer jitter does not change the tempo.
	// The baseline moves only when the clock loops or seeks.
	//
	// All the inputs that may change between ticks are passed in a ClockInput
	// on every call; the Clock itself only holds the playback position.
	Clock struct {
		state    ClockState
		baseTime time.Time
		baseStep int
		step     int
	}

	ClockState int

	// ClockInput is the snapshot of everything the clock needs to know about
	// the song at the time of a tick.
	ClockInput struct {
		Now       time.Time
		Speed     time.Duration // duration of one timeline step
		Length    int           // song length, in timeline steps
		Loop      bool
		LoopPoint int
		Range     PlayRange
	}

	// PlayRange limits playback to the steps Start..End, inclusive. Negative
	// values mean no limit.
	PlayRange struct {
		Start int
		End   int
	}
)

const (
	ClockStopped ClockState = iota
	ClockRunning
	ClockTesting
)

var (
	ErrInvalidSpeed = errors.New("song speed should be greater than zero")
	ErrStepOverflow = errors.New("playback position overflowed")
)

// FullRange is the PlayRange that does not limit playback.
var FullRange = PlayRange{Start: -1, End: -1}

func (s ClockState) String() string {
	switch s {
	case ClockStopped:
		return "stopped"
	case ClockRunning:
		return "running"
	case ClockTesting:
		return "testing"
	}
	return "unknown"
}

// Resolve returns the first and the last step to play for a song of the given
// length. A reversed range is swapped and both ends are limited to the song.
func (r PlayRange) Resolve(length int) (start, end int) {
	start, end = r.Start, r.End
	if start >= 0 && end >= 0 && end < start {
		start, end = end, start
	}
	last := max(length-1, 0)
	if start < 0 {
		start = 0
	}
	if end < 0 || end > last {
		end = last
	}
	start = min(start, last)
	if end < start {
		end = start
	}
	return start, end
}

// loopTarget is the step where playback continues after the end: the start
// of an explicit range, or else the loop point of the song.
func (in *ClockInput) loopTarget(start, end int) int {
	if in.Range.Start >= 0 {
		return start
	}
	return min(max(in.LoopPoint, start), end)
}

func (c *Clock) State() ClockState { return c.state }

// Step returns the last step reached.
func (c *Clock) Step() int { return c.step }

// Play starts the clock at the given step, which becomes the baseline at
// in.Now. Starting the clock ends testing mode.
func (c *Clock) Play(in ClockInput, from int) error {
	if in.Speed <= 0 {
		c.Stop()
		return ErrInvalidSpeed
	}
	c.state = ClockRunning
	c.rebase(in.Now, from)
	return nil
}

// StartTesting puts the clock in testing mode; it fails if the clock is
// running, as testing and playing are mutually exclusive.
func (c *Clock) StartTesting() bool {
	if c.state == ClockRunning {
		return false
	}
	c.state = ClockTesting
	return true
}

// Stop stops the clock. The step is kept so playback can resume from it.
func (c *Clock) Stop() {
	c.state = ClockStopped
}

// Seek moves the playback position. If the clock is running, the baseline is
// moved there so the elapsed steps are counted from now.
func (c *Clock) Seek(step int, now time.Time) {
	if c.state == ClockRunning {
		c.rebase(now, step)
		return
	}
	c.step = step
}

func (c *Clock) rebase(now time.Time, step int) {
	c.baseTime = now
	c.baseStep = step
	c.step = step
}

// Tick advances the clock to in.Now and calls yield for every step reached
// since the previous tick, in increasing order; if the host timer skipped or
// coalesced callbacks, no step is lost. When the end of the range is passed,
// the clock either loops or stops. Tick returns false if the clock is not
// running after the tick, with a non-nil error if playback had to stop
// because of invalid input.
func (c *Clock) Tick(in ClockInput, yield func(step int)) (running bool, err error) {
	if c.state != ClockRunning {
		return false, nil
	}
	if in.Speed <= 0 {
		c.Stop()
		return false, ErrInvalidSpeed
	}
	elapsed := in.Now.Sub(c.baseTime)
	if elapsed < 0 {
		elapsed = 0
	}
	elapsedSteps := int64(elapsed / in.Speed)
	if elapsedSteps > math.MaxInt32-int64(c.baseStep) {
		c.Stop()
		return false, ErrStepOverflow
	}
	start, end := in.Range.Resolve(in.Length)
	next := c.baseStep + int(elapsedSteps)
	if next > end {
		for s := c.step + 1; s <= end; s++ {
			yield(s)
		}
		if !in.Loop {
			c.step = end
			c.Stop()
			return false, nil
		}
		// The new baseline keeps the fraction of a step that had already
		// elapsed, so the tempo does not drift at every loop.
		target := in.loopTarget(start, end)
		c.rebase(in.Now.Add(-(elapsed % in.Speed)), target)
		yield(target)
		return true, nil
	}
	if next < c.step {
		c.rebase(in.Now, c.step)
		return true, nil
	}
	for s := c.step + 1; s <= next; s++ {
		yield(s)
	}
	c.step = next
	return true, nil
}
