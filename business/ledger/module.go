// Package ledger implements the ledger bounded context: signing, nonce
// management, broadcast and confirmation against the Hedera JSON-RPC relay.
package ledger

import (
	"context"
	"time"

	"github.com/fd1az/saucerswap-engine/business/ledger/app"
	ledgerDI "github.com/fd1az/saucerswap-engine/business/ledger/di"
	"github.com/fd1az/saucerswap-engine/business/ledger/infra/evm"
	"github.com/fd1az/saucerswap-engine/internal/config"
	"github.com/fd1az/saucerswap-engine/internal/di"
	"github.com/fd1az/saucerswap-engine/internal/monolith"
)

// connectTimeout bounds the eager chain id check at startup.
const connectTimeout = 15 * time.Second

// Module implements the ledger bounded context. The client is built in
// Startup so connection and credential errors surface before any command runs.
type Module struct {
	node   *evm.Node
	client *app.Client
}

// RegisterServices registers the ledger client with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, ledgerDI.Client, func(di.ServiceRegistry) *app.Client {
		if m.client == nil {
			panic("ledger: client requested before module startup")
		}
		return m.client
	})
	return nil
}

// Startup dials the relay, verifies the chain and loads the signing key.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	var signer app.Signer
	if cfg.HasCredential() {
		s, err := evm.NewKeySigner(cfg.Ledger.PrivateKey)
		if err != nil {
			return err
		}
		signer = s
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	node, err := evm.Dial(dialCtx, nodeConfig(cfg), log)
	if err != nil {
		return err
	}

	clientCfg := app.DefaultClientConfig(cfg.Ledger.ChainID)
	clientCfg.PollInterval = cfg.Ledger.PollInterval

	client, err := app.NewClient(dialCtx, node, signer, clientCfg, log)
	if err != nil {
		node.Close()
		return err
	}

	m.node = node
	m.client = client

	log.Info(ctx, "ledger module started", "rpc_url", cfg.Ledger.RPCURL, "network", cfg.Ledger.Network)
	return nil
}

// Shutdown closes the relay connection.
func (m *Module) Shutdown() {
	if m.node != nil {
		m.node.Close()
	}
}

func nodeConfig(cfg *config.Config) evm.NodeConfig {
	nc := evm.DefaultNodeConfig(cfg.Ledger.RPCURL)
	nc.RateLimitRPM = cfg.Ledger.RateLimitRPM
	return nc
}
