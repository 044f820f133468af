package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	ledgerDI "github.com/fd1az/saucerswap-engine/business/ledger/di"
	swapDI "github.com/fd1az/saucerswap-engine/business/swap/di"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/health"
	"github.com/fd1az/saucerswap-engine/internal/metrics"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	var (
		serve bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the relay, mirror node and account",
		Long: `Run dependency checks once and print them, or with --serve expose
/health, /ready and /live (and /metrics when telemetry is enabled) until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			checker := health.NewChecker(version)
			s.registerChecks(checker)

			if serve {
				return s.serve(ctx, checker, port)
			}

			status := checker.Run(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), renderHealth(status))
			if !status.Healthy() {
				return apperror.New(apperror.CodeServiceUnavailable, apperror.WithContext("health "+status.Status))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&serve, "serve", false, "serve health endpoints until interrupted")
	cmd.Flags().IntVar(&port, "port", 8081, "health server port")
	return cmd
}

func (s *session) registerChecks(checker *health.Checker) {
	client := ledgerDI.GetClient(s.app.Services())

	checker.RegisterCheck("ledger", func(ctx context.Context) (string, error) {
		price, err := client.GetGasPrice(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("chain %s, gas price %s weibar", client.ChainID(), price), nil
	})

	if metadata := swapDI.GetTokenMetadata(s.app.Services()); metadata != nil {
		wrapped := s.cfg.SaucerSwap.WrappedNativeID
		checker.RegisterCheck("mirror_node", func(ctx context.Context) (string, error) {
			a, err := metadata.TokenInfo(ctx, wrapped)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s resolves to %s", wrapped, a.Symbol()), nil
		})
	}

	if s.cfg.HasCredential() {
		checker.RegisterCheck("account", func(ctx context.Context) (string, error) {
			b, err := s.engine.NativeBalance(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s holds %s", s.engine.Account().Hex(), b), nil
		})
	}
}

// serve runs the health server, plus the metrics server when telemetry is
// enabled, until ctx is cancelled or either server fails.
func (s *session) serve(ctx context.Context, checker *health.Checker, port int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	running := 1

	go func() { errCh <- health.NewServer(port, checker).Run(ctx) }()
	s.log.Info(ctx, "health server started", "port", port)

	if s.meters != nil {
		running++
		srv := metrics.NewServer(s.cfg.Telemetry.PrometheusPort, s.meters, s.log)
		go func() { errCh <- srv.Run(ctx) }()
	}

	var first error
	for range running {
		if err := <-errCh; err != nil && first == nil {
			first = err
		}
		cancel()
	}
	return first
}
