package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// routeFlags are shared by quote and swap.
type routeFlags struct {
	fee      string
	slippage string
	path     string
}

func (f *routeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fee, "fee", "", "pool fee tier, e.g. 1500 or 0.15% (default from config)")
	cmd.Flags().StringVar(&f.slippage, "slippage", "", "slippage tolerance, e.g. 0.005 or 0.5% (default from config)")
	cmd.Flags().StringVar(&f.path, "path", "", "explicit route SYM:FEE:SYM[:FEE:SYM...]")
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	flags := &routeFlags{}

	cmd := &cobra.Command{
		Use:   "quote <amount> <token-in> <token-out>",
		Short: "Quote an exact-input swap without sending a transaction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			intent, err := s.buildIntent(ctx, args, flags)
			if err != nil {
				return err
			}

			var plan domain.Plan
			withSpinner(cmd.ErrOrStderr(), "Fetching quote...", func() {
				plan, err = s.engine.Quote(ctx, intent)
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderPlan(plan, s.cfg.Ledger.ChainID))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// buildIntent resolves <amount> <in> <out> plus route flags into an
// exact-input intent.
func (s *session) buildIntent(ctx context.Context, args []string, f *routeFlags) (domain.SwapIntent, error) {
	amount, err := parseAmount(args[0])
	if err != nil {
		return domain.SwapIntent{}, err
	}

	in, err := s.engine.ResolveToken(ctx, args[1])
	if err != nil {
		return domain.SwapIntent{}, err
	}
	out, err := s.engine.ResolveToken(ctx, args[2])
	if err != nil {
		return domain.SwapIntent{}, err
	}

	var fee domain.FeeTier
	if f.fee != "" {
		if fee, err = domain.ParseFeeTier(f.fee); err != nil {
			return domain.SwapIntent{}, err
		}
	}

	slippage := s.engine.Config().DefaultSlippage
	if f.slippage != "" {
		if slippage, err = parseSlippage(f.slippage); err != nil {
			return domain.SwapIntent{}, err
		}
	}

	intent := domain.NewExactInput(in, out, amount, fee, slippage)
	if f.path == "" {
		return intent, nil
	}

	route, err := parseRoute(f.path)
	if err != nil {
		return domain.SwapIntent{}, err
	}
	if err := s.checkEndpoint(ctx, route.first(), in); err != nil {
		return domain.SwapIntent{}, err
	}
	if err := s.checkEndpoint(ctx, route.last(), out); err != nil {
		return domain.SwapIntent{}, err
	}

	for _, ref := range route.intermediates() {
		via, err := s.engine.ResolveToken(ctx, ref)
		if err != nil {
			return domain.SwapIntent{}, err
		}
		intent.Via = append(intent.Via, via)
	}
	intent.Fees = route.fees
	return intent, nil
}

func (s *session) checkEndpoint(ctx context.Context, ref string, want domain.TokenRef) error {
	got, err := s.engine.ResolveToken(ctx, ref)
	if err != nil {
		return err
	}
	if !got.Same(want) {
		return apperror.New(apperror.CodeInvalidRoute,
			apperror.WithContext(fmt.Sprintf("path endpoint %s does not match %s", ref, want)))
	}
	return nil
}
