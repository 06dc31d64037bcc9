package nfa

import (
	"errors"
	"testing"
)

func TestBuildError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *BuildError
		want string
	}{
		{
			name: "with state",
			err:  &BuildError{Message: "seed state out of bounds", StateID: 4, Err: ErrInvalidState},
			want: "NFA build error at state 4: seed state out of bounds",
		},
		{
			name: "without state",
			err:  &BuildError{Message: "no states allocated", StateID: InvalidState, Err: ErrNoStates},
			want: "NFA build error: no states allocated",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, tt.err.Err) {
				t.Error("errors.Is should see the wrapped sentinel")
			}
		})
	}
}
