package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

func newSwapCmd(opts *rootOptions) *cobra.Command {
	flags := &routeFlags{}
	var yes bool

	cmd := &cobra.Command{
		Use:   "swap <amount> <token-in> <token-out>",
		Short: "Execute an exact-input swap",
		Long: `Execute an exact-input swap. The quote is shown first and must be
confirmed unless --yes is given, and the confirmed minimum output is the one
submitted. Token inputs are approved for the router when the current
allowance is insufficient.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.cfg.HasCredential() {
				return apperror.New(apperror.CodeInvalidCredential,
					apperror.WithContext("swap requires ledger.private_key"))
			}

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

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPlan(plan, s.cfg.Ledger.ChainID))

			if !yes && !confirm(cmd.InOrStdin(), out, "Proceed with swap?") {
				fmt.Fprintln(out, renderWarning("Swap cancelled."))
				return nil
			}

			var result domain.SwapResult
			withSpinner(cmd.ErrOrStderr(), "Submitting and waiting for confirmation...", func() {
				result = s.engine.Execute(ctx, plan)
			})

			fmt.Fprintln(out, renderResult(result))
			if !result.Success {
				return apperror.New(result.Code, apperror.WithContext(result.Error))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question; anything but y/yes declines.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
