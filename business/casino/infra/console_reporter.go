// Package infra contains infrastructure adapters for the casino context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fd1az/casino-dapp/business/casino/app"
	"github.com/fd1az/casino-dapp/business/casino/domain"
)

// BalanceFunc reads the active account balance of a ready session.
type BalanceFunc func(ctx context.Context) (string, error)

// ConsoleReporter prints state transitions for CLI mode.
type ConsoleReporter struct {
	out     io.Writer
	balance BalanceFunc
	queue   *stateQueue
}

// NewConsoleReporter creates a new ConsoleReporter writing to stdout.
func NewConsoleReporter(balance BalanceFunc) *ConsoleReporter {
	r := &ConsoleReporter{
		out:     os.Stdout,
		balance: balance,
	}
	r.queue = newStateQueue(r.print)
	return r
}

// WithWriter redirects output. Call it before the first Observe.
func (r *ConsoleReporter) WithWriter(w io.Writer) *ConsoleReporter {
	r.out = w
	return r
}

// Observe implements app.Reporter. Printing, including the balance lookup on
// Ready, happens on the reporter's own goroutine.
func (r *ConsoleReporter) Observe(s app.ConnectionState) {
	r.queue.push(s)
}

// Close flushes pending states.
func (r *ConsoleReporter) Close() {
	r.queue.close()
}

func (r *ConsoleReporter) print(s app.ConnectionState) {
	ts := s.At.Format("15:04:05")

	switch s.Phase {
	case domain.PhaseConnecting:
		fmt.Fprintf(r.out, "[%s] session %d: connecting...\n", ts, s.Session)

	case domain.PhaseReady:
		fmt.Fprintln(r.out, "")
		fmt.Fprintln(r.out, "================================================================================")
		fmt.Fprintln(r.out, "JOINED GAME")
		fmt.Fprintln(r.out, "================================================================================")
		fmt.Fprintf(r.out, "Session:        %d\n", s.Session)
		fmt.Fprintf(r.out, "Provider:       %s\n", s.Transport)
		if s.Handle != nil {
			fmt.Fprintf(r.out, "Network:        %s\n", s.Handle.Network())
			fmt.Fprintf(r.out, "Contract:       %s at %s\n", s.Handle.Name(), s.Handle.Address().Hex())
		}
		fmt.Fprintf(r.out, "Account:        %s\n", s.Account.Hex())
		if r.balance != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			bal, err := r.balance(ctx)
			cancel()
			if err == nil {
				fmt.Fprintf(r.out, "Balance:        %s\n", bal)
			}
		}
		fmt.Fprintln(r.out, "================================================================================")

	case domain.PhaseFailed:
		fmt.Fprintf(r.out, "[%s] session %d: failed: %s\n", ts, s.Session, describeFailure(s.Failure))
	}
}

func describeFailure(f *domain.Failure) string {
	if f == nil {
		return "unknown"
	}
	switch f.Kind {
	case domain.FailureNoProviderFound:
		return "no wallet or local node found"
	case domain.FailureArtifactNotFound:
		return "contract artifact missing, run truffle compile"
	case domain.FailureContractNotDeployedOnNetwork:
		return "contract not deployed on this network, run truffle migrate"
	case domain.FailureNoAccountsAvailable:
		return "no accounts, is the wallet unlocked?"
	default:
		return f.Error()
	}
}
