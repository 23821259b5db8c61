// Package di contains dependency injection tokens for the wallet context.
package di

import (
	"github.com/fd1az/casino-dapp/business/wallet/app"
	"github.com/fd1az/casino-dapp/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ProviderResolver = di.NewToken[*app.ProviderResolver]("wallet.ProviderResolver")
	AccountContext   = di.NewToken[*app.AccountContext]("wallet.AccountContext")
)

// Private dependency tokens - internal to wallet module
var (
	Dialer = di.NewToken[app.Dialer]("wallet:dialer")
)

// Helper functions for type-safe access
func GetProviderResolver(c di.ServiceRegistry) *app.ProviderResolver {
	return di.GetToken(c, ProviderResolver)
}

func GetAccountContext(c di.ServiceRegistry) *app.AccountContext {
	return di.GetToken(c, AccountContext)
}

func GetDialer(c di.ServiceRegistry) app.Dialer {
	return di.GetToken(c, Dialer)
}
