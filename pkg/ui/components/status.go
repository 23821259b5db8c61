// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/casino-dapp/business/casino/domain"
)

// Step is one stage of a connection session.
type Step struct {
	Name string
	Kind domain.FailureKind // failure reported when this step fails
}

// Steps lists the session stages in execution order.
var Steps = []Step{
	{Name: "Discovering provider", Kind: domain.FailureNoProviderFound},
	{Name: "Loading contract artifact", Kind: domain.FailureArtifactNotFound},
	{Name: "Binding contract to network", Kind: domain.FailureContractNotDeployedOnNetwork},
	{Name: "Resolving accounts", Kind: domain.FailureNoAccountsAvailable},
	{Name: "Joining game", Kind: domain.FailureCallRejected},
}

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// StatusComponent renders session progress.
type StatusComponent struct {
	phase   domain.Phase
	failure *domain.Failure
	spinner string
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{}
}

// Update sets the phase and failure to render.
func (s *StatusComponent) Update(phase domain.Phase, failure *domain.Failure) {
	s.phase = phase
	s.failure = failure
}

// SetSpinner sets the frame shown next to in-flight steps.
func (s *StatusComponent) SetSpinner(frame string) {
	s.spinner = frame
}

// failedAt returns the index of the failed step, or -1.
func (s *StatusComponent) failedAt() int {
	if s.phase != domain.PhaseFailed || s.failure == nil {
		return -1
	}
	kind := s.failure.Kind
	if kind == domain.FailureMethodNotFound {
		kind = domain.FailureCallRejected
	}
	for i, step := range Steps {
		if step.Kind == kind {
			return i
		}
	}
	return len(Steps) - 1
}

// View renders the status component.
func (s *StatusComponent) View() string {
	failed := s.failedAt()

	var sb strings.Builder
	for i, step := range Steps {
		var icon, text string
		var style lipgloss.Style

		switch {
		case s.phase == domain.PhaseReady, failed >= 0 && i < failed:
			icon, text, style = "✓", "Done", doneStyle
		case i == failed:
			icon, text, style = "✗", string(s.failure.Kind), failedStyle
		case s.phase == domain.PhaseConnecting:
			icon, text, style = s.spinner, "Working...", activeStyle
			if icon == "" {
				icon = "◐"
			}
		default:
			icon, text, style = "○", "Pending", pendingStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			pendingStyle.Render(step.Name),
			style.Render(text),
		))
	}

	return sb.String()
}
