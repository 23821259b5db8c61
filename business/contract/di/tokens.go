// Package di contains dependency injection tokens for the contract context.
package di

import (
	"github.com/fd1az/casino-dapp/business/contract/app"
	"github.com/fd1az/casino-dapp/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ArtifactStore  = di.NewToken[app.ArtifactStore]("contract.ArtifactStore")
	ContractBinder = di.NewToken[*app.ContractBinder]("contract.ContractBinder")
)

// Helper functions for type-safe access
func GetArtifactStore(c di.ServiceRegistry) app.ArtifactStore {
	return di.GetToken(c, ArtifactStore)
}

func GetContractBinder(c di.ServiceRegistry) *app.ContractBinder {
	return di.GetToken(c, ContractBinder)
}
