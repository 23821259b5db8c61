// Package di contains dependency injection tokens for the casino context.
package di

import (
	"github.com/fd1az/casino-dapp/business/casino/app"
	"github.com/fd1az/casino-dapp/internal/di"
)

// Public service tokens - exposed to other modules
var (
	GameClient = di.NewToken[*app.GameClient]("casino.GameClient")
)

// Private dependency tokens - internal to casino module
var (
	Reporter = di.NewToken[app.Reporter]("casino:reporter")
)

// Helper functions for type-safe access
func GetGameClient(c di.ServiceRegistry) *app.GameClient {
	return di.GetToken(c, GameClient)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
