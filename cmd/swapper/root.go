package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "swapper",
		Short: "Quote and execute SaucerSwap V2 swaps on Hedera",
		Long: `swapper quotes and executes exact-input swaps against the SaucerSwap V2
router through the Hedera JSON-RPC relay.

Tokens are given as registry symbols, HBAR, 0.0.x entity ids or 0x addresses.

Examples:
  swapper quote 10 HBAR USDC
  swapper swap 25 USDC HBAR --slippage 0.5%
  swapper swap 10 HBAR USDC --path HBAR:1500:SAUCE:3000:USDC --yes
  swapper balance USDC SAUCE
  swapper tokens`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override app.log_level (debug, info, warn, error)")

	cmd.AddCommand(
		newQuoteCmd(opts),
		newSwapCmd(opts),
		newBalanceCmd(opts),
		newTokensCmd(opts),
		newHealthCmd(opts),
	)
	return cmd
}
