// Package ui provides the Bubble Tea TUI for the casino client.
package ui

import (
	casinoApp "github.com/fd1az/casino-dapp/business/casino/app"
)

// Message types for TUI updates

// StateMsg carries a published connection state.
type StateMsg struct {
	State casinoApp.ConnectionState
}

// BalanceMsg is sent once the active account balance is known.
type BalanceMsg struct {
	Balance string
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that the session should start.
type StartModulesMsg struct{}
