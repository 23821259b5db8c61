// Package ui provides the Bubble Tea TUI for the casino client.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	casinoApp "github.com/fd1az/casino-dapp/business/casino/app"
	"github.com/fd1az/casino-dapp/business/casino/domain"
	"github.com/fd1az/casino-dapp/pkg/ui/components"
)

// Screen represents the current UI screen.
type Screen string

const (
	ScreenWelcome Screen = "welcome" // Initial welcome screen
	ScreenSession Screen = "session" // Connection progress and result
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

const maxLogs = 5

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	status  *components.StatusComponent
	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	// Screen state
	screen       Screen
	welcomeStart time.Time

	// State
	quitting     bool
	width        int
	state        casinoApp.ConnectionState
	balance      string
	logs         []string
	sessionStart time.Time
}

// New creates a new TUI model.
func New() Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(ColorWarning)

	return Model{
		status:       components.NewStatusComponent(),
		spinner:      s,
		help:         help.New(),
		keys:         DefaultKeyMap(),
		screen:       ScreenWelcome,
		welcomeStart: time.Now(),
		logs:         make([]string, 0, maxLogs),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick)
}

// tickCmd returns a command that sends a tick every 100ms.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome, any other key skips ahead
		if m.screen == ScreenWelcome {
			return m.startSession(), nil
		}
		switch {
		case key.Matches(msg, m.keys.Retry):
			m.keys.Retry.SetEnabled(false)
			m.balance = ""
			if OnRetry != nil {
				go OnRetry()
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case TickMsg:
		if m.screen == ScreenWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m = m.startSession()
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StateMsg:
		// States from older sessions, or from a session that already ended, are stale
		if msg.State.Session < m.state.Session {
			return m, nil
		}
		if msg.State.Session == m.state.Session && m.state.Phase.IsTerminal() {
			return m, nil
		}
		m.state = msg.State
		m.screen = ScreenSession
		m.status.Update(msg.State.Phase, msg.State.Failure)
		m.keys.Retry.SetEnabled(msg.State.Phase == domain.PhaseFailed)
		if msg.State.Phase == domain.PhaseConnecting {
			m.sessionStart = msg.State.At
			m.balance = ""
		}
		m.logs = addLog(m.logs, "info", fmt.Sprintf("session %d: %s", msg.State.Session, msg.State.Phase))

	case BalanceMsg:
		m.balance = msg.Balance

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
	}

	return m, nil
}

func (m Model) startSession() Model {
	if m.screen == ScreenSession {
		return m
	}
	m.screen = ScreenSession
	// Trigger callback directly (don't use Send() from within Update)
	if OnStartModules != nil {
		go OnStartModules()
	}
	return m
}

// addLog appends a log entry, keeping the most recent ones.
func addLog(logs []string, level, message string) []string {
	entry := fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), strings.ToUpper(level), message)
	logs = append(logs, entry)
	if len(logs) > maxLogs {
		logs = logs[len(logs)-maxLogs:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	if m.screen == ScreenWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" 🎲 Casino "))
	b.WriteString("  ")
	b.WriteString(m.renderPhase())
	b.WriteString("\n\n")

	m.status.SetSpinner(m.spinner.View())
	b.WriteString(m.status.View())
	b.WriteString("\n")

	if panel := m.renderSessionPanel(); panel != "" {
		width := m.width - 4
		if width < 40 {
			width = 60
		}
		b.WriteString(BoxStyle.Width(width).Render(panel))
		b.WriteString("\n\n")
	}

	for _, l := range m.logs {
		b.WriteString(MutedValue.Render("  " + l))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderPhase() string {
	switch m.state.Phase {
	case domain.PhaseReady:
		return PhaseReady.Render("● Ready")
	case domain.PhaseFailed:
		return PhaseFailed.Render("✗ Failed")
	case domain.PhaseConnecting:
		elapsed := time.Since(m.sessionStart).Round(100 * time.Millisecond)
		return PhaseConnecting.Render(fmt.Sprintf("%s Connecting (%s)", m.spinner.View(), elapsed))
	default:
		return MutedValue.Render("○ Starting")
	}
}

func (m Model) renderSessionPanel() string {
	var sb strings.Builder

	switch m.state.Phase {
	case domain.PhaseReady:
		sb.WriteString(fmt.Sprintf("Provider:  %s\n", m.state.Transport))
		if h := m.state.Handle; h != nil {
			sb.WriteString(fmt.Sprintf("Network:   %s\n", h.Network()))
			sb.WriteString(fmt.Sprintf("Contract:  %s %s\n", h.Name(), h.Address().Hex()))
		}
		sb.WriteString(fmt.Sprintf("Account:   %s", m.state.Account.Hex()))
		if m.balance != "" {
			sb.WriteString(fmt.Sprintf("\nBalance:   %s", m.balance))
		}

	case domain.PhaseFailed:
		if f := m.state.Failure; f != nil {
			sb.WriteString(PhaseFailed.Render(f.Error()))
			if f.Err != nil {
				sb.WriteString("\n")
				sb.WriteString(MutedValue.Render(f.Err.Error()))
			}
		}

	default:
		return ""
	}

	return sb.String()
}

// renderWelcomeScreen renders the welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	goldStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)

	dotCount := int(time.Since(m.welcomeStart).Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder
	sb.WriteString("\n\n\n")
	sb.WriteString(titleStyle.Render("        C A S I N O"))
	sb.WriteString("\n\n")
	sb.WriteString(goldStyle.Render("        🎲  Take a seat  🎲"))
	sb.WriteString("\n\n\n")
	sb.WriteString(PhaseReady.Render(fmt.Sprintf("        Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("        Press any key to skip, or wait..."))
	sb.WriteString("\n")

	return sb.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and the session should start.
// This is set by main.go.
var OnStartModules func()

// OnRetry is called when the user asks to retry a failed session.
var OnRetry func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
