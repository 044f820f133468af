// Package di contains dependency injection tokens for the swap context.
package di

import (
	"github.com/fd1az/saucerswap-engine/business/swap/app"
	"github.com/fd1az/saucerswap-engine/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Engine = di.NewToken[*app.Engine]("swap.Engine")
)

// Private service tokens - internal to the swap module
var (
	Quoter        = di.NewToken[app.Quoter]("swap.Quoter")
	Tokens        = di.NewToken[app.TokenContracts]("swap.Tokens")
	Router        = di.NewToken[app.RouterEncoder]("swap.Router")
	TokenMetadata = di.NewToken[app.TokenMetadata]("swap.TokenMetadata")
)

// GetEngine returns the swap engine.
func GetEngine(c di.ServiceRegistry) *app.Engine {
	return di.GetToken(c, Engine)
}

func GetQuoter(c di.ServiceRegistry) app.Quoter {
	return di.GetToken(c, Quoter)
}

func GetTokens(c di.ServiceRegistry) app.TokenContracts {
	return di.GetToken(c, Tokens)
}

func GetRouter(c di.ServiceRegistry) app.RouterEncoder {
	return di.GetToken(c, Router)
}

func GetTokenMetadata(c di.ServiceRegistry) app.TokenMetadata {
	return di.GetToken(c, TokenMetadata)
}
