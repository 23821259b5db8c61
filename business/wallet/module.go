// Package wallet implements the wallet bounded context: provider discovery and accounts.
package wallet

import (
	"context"

	"github.com/fd1az/casino-dapp/business/wallet/app"
	walletDI "github.com/fd1az/casino-dapp/business/wallet/di"
	"github.com/fd1az/casino-dapp/business/wallet/infra/ethereum"
	"github.com/fd1az/casino-dapp/internal/config"
	"github.com/fd1az/casino-dapp/internal/di"
	"github.com/fd1az/casino-dapp/internal/logger"
	"github.com/fd1az/casino-dapp/internal/monolith"
)

// Module implements the wallet bounded context.
type Module struct {
	// Injected, when set, is preferred over any configured endpoint.
	Injected app.Provider
}

// RegisterServices registers all wallet services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Dialer (private - internal dependency)
	di.RegisterToken(c, walletDI.Dialer, func(sr di.ServiceRegistry) app.Dialer {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return ethereum.NewDialer(ethereum.ProviderConfig{
			Timeout:           cfg.RPC.Timeout,
			RequestsPerSecond: cfg.RPC.RequestsPerSecond,
			Burst:             cfg.RPC.Burst,
		}, log)
	})

	// Register ProviderResolver (public - exposed to other modules)
	di.RegisterToken(c, walletDI.ProviderResolver, func(sr di.ServiceRegistry) *app.ProviderResolver {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		var opts []app.ResolverOption
		if m.Injected != nil {
			opts = append(opts, app.WithInjected(m.Injected))
		}

		return app.NewProviderResolver(app.ResolverConfig{
			InjectedURL:       cfg.Wallet.InjectedURL,
			FallbackURL:       cfg.Wallet.FallbackURL,
			HandshakeAttempts: cfg.Wallet.HandshakeAttempts,
			HandshakeDelay:    cfg.Wallet.HandshakeDelay,
		}, walletDI.GetDialer(sr), log, opts...)
	})

	// Register AccountContext (public - exposed to other modules)
	di.RegisterToken(c, walletDI.AccountContext, func(sr di.ServiceRegistry) *app.AccountContext {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewAccountContext(log)
	})

	return nil
}

// Startup initializes the wallet module. Discovery itself runs per session.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	mono.Logger().Info(ctx, "wallet module started",
		"injected", cfg.Wallet.InjectedURL != "" || m.Injected != nil,
		"fallback", cfg.Wallet.FallbackURL)
	return nil
}
