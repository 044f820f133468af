package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// SwapIntent is a caller's request, built per call and never persisted.
type SwapIntent struct {
	TokenIn  TokenRef
	TokenOut TokenRef
	AmountIn decimal.Decimal // human units of TokenIn
	Fee      FeeTier         // used for every hop when Fees is empty
	Slippage decimal.Decimal // fraction in [0, 1)

	// IsExactInput must be true; exact-output swaps are not supported.
	IsExactInput bool

	// Via lists intermediate tokens for multi-hop routes; Fees then holds
	// one tier per hop (len(Via)+1).
	Via  []TokenRef
	Fees []FeeTier
}

// NewExactInput builds a single-hop exact-input intent.
func NewExactInput(in, out TokenRef, amount decimal.Decimal, fee FeeTier, slippage decimal.Decimal) SwapIntent {
	return SwapIntent{
		TokenIn:      in,
		TokenOut:     out,
		AmountIn:     amount,
		Fee:          fee,
		Slippage:     slippage,
		IsExactInput: true,
	}
}

// Validate checks the intent before any network access.
func (i SwapIntent) Validate() error {
	if !i.IsExactInput {
		return apperror.New(apperror.CodeUnsupportedOperation,
			apperror.WithContext("exact-output swaps"))
	}
	if !i.AmountIn.IsPositive() {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("amount must be positive: "+i.AmountIn.String()))
	}
	if i.TokenIn.ToRaw(i.AmountIn).Sign() <= 0 {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("amount below token precision: "+i.AmountIn.String()))
	}
	if err := ValidateSlippage(i.Slippage); err != nil {
		return err
	}
	// Fee 0 means the engine default.
	if i.Fee != 0 && !i.Fee.Valid() {
		return invalidFee(i.Fee.String(), nil)
	}
	for _, f := range i.Fees {
		if !f.Valid() {
			return invalidFee(f.String(), nil)
		}
	}
	_, err := SelectShape(i.TokenIn, i.TokenOut)
	return err
}

// Hops returns the number of pools the route crosses.
func (i SwapIntent) Hops() int {
	return len(i.Via) + 1
}

// Route returns the path tokens (wrapped-native substituted) and fees.
func (i SwapIntent) Route(wrapped common.Address) ([]common.Address, []FeeTier) {
	tokens := make([]common.Address, 0, i.Hops()+1)
	tokens = append(tokens, i.TokenIn.PathAddress(wrapped))
	for _, v := range i.Via {
		tokens = append(tokens, v.PathAddress(wrapped))
	}
	tokens = append(tokens, i.TokenOut.PathAddress(wrapped))

	if len(i.Fees) > 0 {
		return tokens, i.Fees
	}
	fees := make([]FeeTier, i.Hops())
	for k := range fees {
		fees[k] = i.Fee
	}
	return tokens, fees
}
