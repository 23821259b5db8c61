// Package app contains application services and port definitions for the wallet context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/casino-dapp/business/wallet/domain"
)

// Provider is a handle to a blockchain RPC or wallet endpoint.
type Provider interface {
	// Transport reports whether the provider was injected or is the local fallback.
	Transport() domain.Transport

	// Endpoint returns the URL the provider talks to.
	Endpoint() string

	// NetworkID returns the id of the network the provider is connected to.
	NetworkID(ctx context.Context) (domain.NetworkID, error)

	// Accounts returns the accounts controlled by the provider, in provider order.
	Accounts(ctx context.Context) ([]common.Address, error)

	// Call executes a read-only call against the latest state.
	Call(ctx context.Context, msg domain.CallMsg) ([]byte, error)

	// Balance returns the native balance of an account in wei.
	Balance(ctx context.Context, account common.Address) (*big.Int, error)

	// Close releases the underlying connection.
	Close()
}

// Dialer opens providers for endpoints.
type Dialer interface {
	Dial(ctx context.Context, endpoint string, transport domain.Transport) (Provider, error)
}
