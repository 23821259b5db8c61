// Package contract implements the contract bounded context: artifacts and bound handles.
package contract

import (
	"context"

	"github.com/fd1az/casino-dapp/business/contract/app"
	contractDI "github.com/fd1az/casino-dapp/business/contract/di"
	"github.com/fd1az/casino-dapp/business/contract/infra/truffle"
	"github.com/fd1az/casino-dapp/internal/config"
	"github.com/fd1az/casino-dapp/internal/di"
	"github.com/fd1az/casino-dapp/internal/logger"
	"github.com/fd1az/casino-dapp/internal/monolith"
)

// Module implements the contract bounded context.
type Module struct{}

// RegisterServices registers all contract services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, contractDI.ArtifactStore, func(sr di.ServiceRegistry) app.ArtifactStore {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return truffle.NewStore(cfg.Contracts.ArtifactsDir, log)
	})

	di.RegisterToken(c, contractDI.ContractBinder, func(sr di.ServiceRegistry) *app.ContractBinder {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewContractBinder(log)
	})

	return nil
}

// Startup initializes the contract module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "contract module started",
		"artifacts_dir", mono.Config().Contracts.ArtifactsDir)
	return nil
}
