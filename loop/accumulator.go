// Package loop turns variable frame times into fixed simulation steps.
package loop

import "time"

// TimeStep is the fixed simulation step.
const TimeStep = 10 * time.Millisecond

// Accumulator carries the frame time left over between frames so the
// simulation always advances in whole steps of Step.
type Accumulator struct {
	Step     time.Duration // defaults to TimeStep
	MaxFrame time.Duration // a frame longer than this is cut short; 0 disables

	left time.Duration
}

// Advance adds delta to the carried time and calls step once per whole
// Step it contains. It returns how many steps ran.
func (a *Accumulator) Advance(delta time.Duration, step func()) int {
	size := a.Step
	if size <= 0 {
		size = TimeStep
	}
	if delta < 0 {
		delta = 0
	}
	if a.MaxFrame > 0 && delta > a.MaxFrame {
		delta = a.MaxFrame
	}

	a.left += delta
	n := 0
	for a.left >= size {
		step()
		a.left -= size
		n++
	}
	return n
}

// Left is the carried time not yet simulated, always below one step.
func (a *Accumulator) Left() time.Duration {
	return a.left
}

// Reset drops the carried time.
func (a *Accumulator) Reset() {
	a.left = 0
}
