package infra

import (
	"context"
	"time"

	"github.com/fd1az/casino-dapp/business/casino/app"
	"github.com/fd1az/casino-dapp/business/casino/domain"
	"github.com/fd1az/casino-dapp/pkg/ui"
)

// TUIReporter forwards state to the Bubble Tea program.
type TUIReporter struct {
	send    func(msg any)
	balance BalanceFunc
	queue   *stateQueue
}

// NewTUIReporter creates a new TUIReporter sending through ui.Send.
func NewTUIReporter(balance BalanceFunc) *TUIReporter {
	return newTUIReporter(func(msg any) { ui.Send(msg) }, balance)
}

func newTUIReporter(send func(msg any), balance BalanceFunc) *TUIReporter {
	r := &TUIReporter{
		send:    send,
		balance: balance,
	}
	r.queue = newStateQueue(r.forward)
	return r
}

// Observe implements app.Reporter. Program.Send blocks until the program
// reads the message, so delivery happens on the reporter's goroutine, one
// state at a time and in publication order.
func (r *TUIReporter) Observe(s app.ConnectionState) {
	r.queue.push(s)
}

// Close flushes pending states.
func (r *TUIReporter) Close() {
	r.queue.close()
}

func (r *TUIReporter) forward(s app.ConnectionState) {
	r.send(ui.StateMsg{State: s})

	if s.Phase != domain.PhaseReady || r.balance == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if bal, err := r.balance(ctx); err == nil {
		r.send(ui.BalanceMsg{Balance: bal})
	}
}
