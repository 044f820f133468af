// Package di contains dependency injection tokens for the ledger context.
package di

import (
	"github.com/fd1az/saucerswap-engine/business/ledger/app"
	"github.com/fd1az/saucerswap-engine/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Client = di.NewToken[*app.Client]("ledger.Client")
)

// GetClient returns the ledger client.
func GetClient(c di.ServiceRegistry) *app.Client {
	return di.GetToken(c, Client)
}
