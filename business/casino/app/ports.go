// Package app contains application services and port definitions for the casino context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	contractApp "github.com/fd1az/casino-dapp/business/contract/app"
	contractDomain "github.com/fd1az/casino-dapp/business/contract/domain"
	walletApp "github.com/fd1az/casino-dapp/business/wallet/app"
	walletDomain "github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/asset"
)

// ProviderResolver discovers the provider for a session.
type ProviderResolver interface {
	Resolve(ctx context.Context) (walletApp.Provider, error)
}

// AccountResolver reads the accounts and balances a provider controls.
type AccountResolver interface {
	ResolveAccounts(ctx context.Context, p walletApp.Provider) (walletDomain.AccountSet, error)
	Balance(ctx context.Context, p walletApp.Provider, account common.Address) (asset.Amount, error)
}

// Binder binds artifacts to the caller's network.
type Binder interface {
	Bind(ctx context.Context, caller contractApp.Caller, artifact *contractDomain.ContractArtifact) (*contractApp.ContractHandle, error)
}

// Observer receives every published state. It must not block.
type Observer func(ConnectionState)

// Reporter renders published states for the user. Observe must not block;
// Close flushes what is still pending.
type Reporter interface {
	Observe(s ConnectionState)
	Close()
}
