package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/asset"
)

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [token...]",
		Short: "Show the HBAR balance and optional token balances of the configured account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.cfg.HasCredential() {
				return apperror.New(apperror.CodeInvalidCredential,
					apperror.WithContext("balance requires ledger.private_key"))
			}

			native, err := s.engine.NativeBalance(ctx)
			if err != nil {
				return err
			}
			balances := []asset.Amount{native}

			for _, ref := range args {
				token, err := s.engine.ResolveToken(ctx, ref)
				if err != nil {
					return err
				}
				if token.IsNative() {
					continue
				}
				b, err := s.engine.TokenBalance(ctx, token)
				if err != nil {
					return err
				}
				balances = append(balances, b)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderBalances(s.engine.Account().Hex(), balances))
			return nil
		},
	}
}
