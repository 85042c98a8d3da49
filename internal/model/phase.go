package model

import "fmt"

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseReady    Phase = "ready"
	PhaseFetching Phase = "fetching"
	PhaseFailed   Phase = "failed"
)

var allowedTransitions = map[Phase]map[Phase]bool{
	PhaseIdle: {
		PhaseLoading: true,
	},
	PhaseLoading: {
		PhaseReady:  true,
		PhaseFailed: true,
	},
	PhaseReady: {
		PhaseFetching: true,
	},
	PhaseFetching: {
		PhaseReady:  true,
		PhaseFailed: true,
	},
	PhaseFailed: {
		PhaseFetching: true, // a failed page does not stop later pages
	},
}

func CanTransition(from, to Phase) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// InFlight reports whether a page request is outstanding in phase p.
func (p Phase) InFlight() bool {
	return p == PhaseLoading || p == PhaseFetching
}

func TransitionPhase(state *Pagination, to Phase) error {
	from := state.Phase
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid pagination transition: %q -> %q (page=%d)", from, to, state.CurrentPage)
	}
	state.Phase = to
	return nil
}
