// Package casino implements the casino bounded context: the game client session.
package casino

import (
	"context"

	"github.com/fd1az/casino-dapp/business/casino/app"
	casinoDI "github.com/fd1az/casino-dapp/business/casino/di"
	"github.com/fd1az/casino-dapp/business/casino/infra"
	contractDI "github.com/fd1az/casino-dapp/business/contract/di"
	walletDI "github.com/fd1az/casino-dapp/business/wallet/di"
	"github.com/fd1az/casino-dapp/internal/config"
	"github.com/fd1az/casino-dapp/internal/di"
	"github.com/fd1az/casino-dapp/internal/logger"
	"github.com/fd1az/casino-dapp/internal/monolith"
)

// Module implements the casino bounded context.
type Module struct{}

// RegisterServices registers all casino services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register GameClient (public - exposed to main and health)
	di.RegisterToken(c, casinoDI.GameClient, func(sr di.ServiceRegistry) *app.GameClient {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := app.NewGameClient(
			app.GameClientConfig{
				ContractName: cfg.Casino.ContractName,
				JoinMethod:   cfg.Casino.JoinMethod,
			},
			walletDI.GetProviderResolver(sr),
			contractDI.GetArtifactStore(sr),
			contractDI.GetContractBinder(sr),
			walletDI.GetAccountContext(sr),
			log,
		)
		if err != nil {
			panic("failed to create game client: " + err.Error())
		}
		return client
	})

	// Register Reporter (private - internal dependency)
	di.RegisterToken(c, casinoDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		client := casinoDI.GetGameClient(sr)

		balance := func(ctx context.Context) (string, error) {
			amt, err := client.Balance(ctx)
			if err != nil {
				return "", err
			}
			return amt.StringFixed(4), nil
		}

		if cfg.App.TUIMode {
			return infra.NewTUIReporter(balance)
		}
		return infra.NewConsoleReporter(balance)
	})

	return nil
}

// Startup wires the reporter to the game client. Sessions are started by the caller.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	client := casinoDI.GetGameClient(mono.Services())
	reporter := casinoDI.GetReporter(mono.Services())
	client.Subscribe(reporter.Observe)
	mono.OnClose(func() error {
		reporter.Close()
		return nil
	})

	mono.Logger().Info(ctx, "casino module started",
		"contract", mono.Config().Casino.ContractName,
		"method", mono.Config().Casino.JoinMethod)
	return nil
}
