package trash

import "fmt"

// State is the lifecycle state of a record
type State string

const (
	// StateActive means the record lives in its origin collection
	StateActive State = "active"

	// StateTrashed means the record lives in the trash ledger
	StateTrashed State = "trashed"

	// StateGone means the record was purged
	StateGone State = "gone"
)

func (s State) canTransitionTo(target State) bool {
	allowedTransitions := map[State][]State{
		StateActive: {
			StateTrashed,
		},
		StateTrashed: {
			StateActive,
			StateGone,
		},
		StateGone: {}, // Final state
	}

	allowed, exists := allowedTransitions[s]
	if !exists {
		return false
	}

	for _, allowedState := range allowed {
		if allowedState == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if nothing can happen to the record any more
func (s State) IsTerminal() bool {
	return s == StateGone
}

func (s State) String() string {
	return string(s)
}

// transition checks that a record in state s may move to target
func (s State) transition(target State) error {
	if !s.canTransitionTo(target) {
		return fmt.Errorf("%w: cannot transition from %s to %s",
			ErrInvalidTransition, s, target)
	}
	return nil
}
