package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fd1az/saucerswap-engine/business/ledger"
	"github.com/fd1az/saucerswap-engine/business/swap"
	swapApp "github.com/fd1az/saucerswap-engine/business/swap/app"
	swapDI "github.com/fd1az/saucerswap-engine/business/swap/di"
	"github.com/fd1az/saucerswap-engine/internal/apm"
	"github.com/fd1az/saucerswap-engine/internal/config"
	"github.com/fd1az/saucerswap-engine/internal/logger"
	"github.com/fd1az/saucerswap-engine/internal/metrics"
	"github.com/fd1az/saucerswap-engine/internal/monolith"
)

// session is one command's view of the wired application.
type session struct {
	cfg    *config.Config
	log    logger.LoggerInterface
	app    *monolith.App
	engine *swapApp.Engine

	tracing apm.TraceProvider
	meters  *metrics.MetricProvider
}

// openConfig loads configuration and builds the logger and container
// without touching the network.
func openConfig(ctx context.Context, opts *rootOptions) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.App.LogLevel = opts.logLevel
	}

	log := newLogger(cfg)
	s := &session{cfg: cfg, log: log}

	if cfg.Telemetry.Enabled {
		if s.tracing, err = apm.NewTraceProvider(ctx, cfg.Telemetry, log); err != nil {
			return nil, err
		}
		if s.meters, err = metrics.NewMetricProvider(ctx, cfg.Telemetry); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.app = monolith.New(cfg, log)
	return s, nil
}

// openSession additionally starts the ledger and swap modules.
func openSession(ctx context.Context, opts *rootOptions) (*session, error) {
	s, err := openConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Define modules in dependency order
	modules := []monolith.Module{
		&ledger.Module{}, // provides the ledger client
		&swap.Module{},   // depends on ledger
	}

	if err := s.app.RegisterModules(modules...); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}
	if err := s.app.StartModules(ctx, modules...); err != nil {
		s.Close()
		return nil, err
	}

	s.engine = swapDI.GetEngine(s.app.Services())
	return s, nil
}

// Close stops modules and flushes telemetry.
func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.app != nil {
		if err := s.app.Close(); err != nil {
			s.log.Warn(ctx, "module shutdown failed", "error", err)
		}
	}
	if s.meters != nil {
		_ = s.meters.Shutdown(ctx)
	}
	if s.tracing != nil {
		_ = s.tracing.Stop(ctx)
	}
}

func newLogger(cfg *config.Config) logger.LoggerInterface {
	level := logger.ParseLevel(cfg.App.LogLevel)
	if cfg.App.LogFormat == "json" {
		return logger.New(os.Stderr, level, cfg.App.Name, nil)
	}
	return logger.NewConsole(os.Stderr, level, cfg.App.Name)
}
