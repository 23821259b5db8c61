// Package app contains the application layer for the contract context.
package app

import (
	"context"

	"github.com/fd1az/casino-dapp/business/contract/domain"
	wallet "github.com/fd1az/casino-dapp/business/wallet/domain"
)

// ArtifactStore loads compiled contract artifacts by contract name.
type ArtifactStore interface {
	Load(name string) (*domain.ContractArtifact, error)
}

// Caller is the part of a provider a contract handle needs.
type Caller interface {
	NetworkID(ctx context.Context) (wallet.NetworkID, error)
	Call(ctx context.Context, msg wallet.CallMsg) ([]byte, error)
}
