package trash

import (
	"errors"
	"testing"
)

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to State
		allowed  bool
	}{
		{StateActive, StateTrashed, true},
		{StateTrashed, StateActive, true},
		{StateTrashed, StateGone, true},
		{StateActive, StateGone, false},
		{StateTrashed, StateTrashed, false},
		{StateGone, StateActive, false},
		{StateGone, StateTrashed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := tt.from.transition(tt.to)
			if tt.allowed && err != nil {
				t.Errorf("expected transition to be allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestStateIsTerminal(t *testing.T) {
	if !StateGone.IsTerminal() {
		t.Error("gone must be terminal")
	}
	if StateActive.IsTerminal() || StateTrashed.IsTerminal() {
		t.Error("active and trashed must not be terminal")
	}
}
