package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhase_CanTransition(t *testing.T) {
	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseUninitialized, PhaseConnecting, true},
		{PhaseUninitialized, PhaseReady, false},
		{PhaseUninitialized, PhaseFailed, false},
		{PhaseConnecting, PhaseReady, true},
		{PhaseConnecting, PhaseFailed, true},
		{PhaseConnecting, PhaseConnecting, true},
		{PhaseReady, PhaseConnecting, false},
		{PhaseReady, PhaseFailed, false},
		{PhaseFailed, PhaseConnecting, true},
		{PhaseFailed, PhaseReady, false},
		{PhaseConnecting, PhaseUninitialized, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestPhase_IsTerminal(t *testing.T) {
	assert.False(t, PhaseUninitialized.IsTerminal())
	assert.False(t, PhaseConnecting.IsTerminal())
	assert.True(t, PhaseReady.IsTerminal())
	assert.True(t, PhaseFailed.IsTerminal())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestFailure_Error(t *testing.T) {
	cause := errors.New("execution reverted")
	f := &Failure{Kind: FailureCallRejected, Reason: "table closed", Err: cause}

	assert.Equal(t, "CallRejected(table closed)", f.Error())
	assert.ErrorIs(t, f, cause)
	assert.Equal(t, "NoProviderFound", (&Failure{Kind: FailureNoProviderFound}).Error())
}
