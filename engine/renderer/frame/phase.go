package frame

import "github.com/spaghettifunk/lumen/engine/core"

// Phase is the controller's position in the frame cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAcquiring
	PhaseRecording
	PhaseSubmitted
	PhasePresenting
	// PhaseHalted is terminal. It is entered on any fatal error.
	PhaseHalted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAcquiring:
		return "acquiring"
	case PhaseRecording:
		return "recording"
	case PhaseSubmitted:
		return "submitted"
	case PhasePresenting:
		return "presenting"
	case PhaseHalted:
		return "halted"
	}
	return "unknown"
}

var transitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseAcquiring, PhaseHalted},
	PhaseAcquiring:  {PhaseRecording, PhaseHalted},
	PhaseRecording:  {PhaseSubmitted, PhaseHalted},
	PhaseSubmitted:  {PhasePresenting, PhaseHalted},
	PhasePresenting: {PhaseIdle, PhaseHalted},
}

func canTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (c *Controller) transition(to Phase) error {
	if !canTransition(c.phase, to) {
		return core.ContractViolation("illegal frame transition %s -> %s", c.phase, to)
	}
	c.phase = to
	return nil
}
