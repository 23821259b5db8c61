// Package domain contains the core domain types for the casino context.
package domain

// Phase is the connection lifecycle of a game client.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseConnecting
	PhaseReady
	PhaseFailed
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseConnecting:
		return "connecting"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether a session ends in p.
func (p Phase) IsTerminal() bool {
	return p == PhaseReady || p == PhaseFailed
}

// CanTransition reports whether p may move to next. Within a session phases
// only move forward; a new session re-enters Connecting.
func (p Phase) CanTransition(next Phase) bool {
	switch next {
	case PhaseConnecting:
		return p == PhaseUninitialized || p == PhaseFailed || p == PhaseConnecting
	case PhaseReady, PhaseFailed:
		return p == PhaseConnecting
	default:
		return false
	}
}
