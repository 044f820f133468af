// Package swap implements the swap bounded context: quoting, approvals and
// transaction assembly against the SaucerSwap V2 router.
package swap

import (
	"context"

	ledgerDI "github.com/fd1az/saucerswap-engine/business/ledger/di"
	"github.com/fd1az/saucerswap-engine/business/swap/app"
	swapDI "github.com/fd1az/saucerswap-engine/business/swap/di"
	"github.com/fd1az/saucerswap-engine/business/swap/infra/mirrornode"
	"github.com/fd1az/saucerswap-engine/business/swap/infra/saucerswap"
	"github.com/fd1az/saucerswap-engine/internal/asset"
	"github.com/fd1az/saucerswap-engine/internal/config"
	"github.com/fd1az/saucerswap-engine/internal/di"
	"github.com/fd1az/saucerswap-engine/internal/logger"
	"github.com/fd1az/saucerswap-engine/internal/monolith"
)

// Module implements the swap bounded context.
type Module struct {
	metadata *mirrornode.Provider
}

// RegisterServices registers all swap services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Quoter - private dependency
	di.RegisterToken(c, swapDI.Quoter, func(sr di.ServiceRegistry) app.Quoter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		addr, err := cfg.SaucerSwap.QuoterAddress()
		if err != nil {
			panic("invalid quoter id: " + err.Error())
		}
		q, err := saucerswap.NewQuoter(ledgerDI.GetClient(sr), addr, log)
		if err != nil {
			panic("failed to create quoter: " + err.Error())
		}
		return q
	})

	// Token contracts - private dependency
	di.RegisterToken(c, swapDI.Tokens, func(sr di.ServiceRegistry) app.TokenContracts {
		t, err := saucerswap.NewTokens(ledgerDI.GetClient(sr))
		if err != nil {
			panic("failed to create token reader: " + err.Error())
		}
		return t
	})

	// Router encoder - private dependency
	di.RegisterToken(c, swapDI.Router, func(sr di.ServiceRegistry) app.RouterEncoder {
		cfg := sr.Get("config").(*config.Config)

		addr, err := cfg.SaucerSwap.RouterAddress()
		if err != nil {
			panic("invalid router id: " + err.Error())
		}
		r, err := saucerswap.NewRouter(addr)
		if err != nil {
			panic("failed to create router encoder: " + err.Error())
		}
		return r
	})

	// Mirror node metadata - private dependency, absent when no URL is set
	di.RegisterToken(c, swapDI.TokenMetadata, func(sr di.ServiceRegistry) app.TokenMetadata {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if cfg.MirrorNode.BaseURL == "" {
			return nil
		}
		p, err := mirrornode.NewProvider(cfg.MirrorNode.BaseURL, cfg.MirrorNode.Timeout, cfg.Ledger.ChainID, log)
		if err != nil {
			panic("failed to create mirror node provider: " + err.Error())
		}
		m.metadata = p
		return p
	})

	// Engine (public - exposed to other modules)
	di.RegisterToken(c, swapDI.Engine, func(sr di.ServiceRegistry) *app.Engine {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		engineCfg, err := app.EngineConfigFrom(cfg)
		if err != nil {
			panic("invalid swap configuration: " + err.Error())
		}

		e, err := app.NewEngine(
			ledgerDI.GetClient(sr),
			swapDI.GetQuoter(sr),
			swapDI.GetTokens(sr),
			swapDI.GetRouter(sr),
			registry,
			swapDI.GetTokenMetadata(sr),
			engineCfg,
			log,
		)
		if err != nil {
			panic("failed to create swap engine: " + err.Error())
		}
		return e
	})

	return nil
}

// Startup validates the swap configuration before any command runs.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	if _, err := app.EngineConfigFrom(cfg); err != nil {
		return err
	}

	engine := swapDI.GetEngine(mono.Services())
	log.Info(ctx, "swap module started",
		"router", cfg.SaucerSwap.RouterID,
		"quoter", cfg.SaucerSwap.QuoterID,
		"account", engine.Account().Hex(),
	)
	return nil
}

// Shutdown releases the metadata cache.
func (m *Module) Shutdown() {
	if m.metadata != nil {
		m.metadata.Close()
	}
}
