package domain

import (
	"github.com/shopspring/decimal"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// SwapResult is the terminal outcome of a swap. TxHash is set iff the swap
// transaction was broadcast.
type SwapResult struct {
	Success        bool
	TxHash         string
	ApprovalTxHash string
	Shape          Shape
	AmountIn       decimal.Decimal
	AmountOut      decimal.Decimal // quoted expected output
	MinOut         decimal.Decimal
	GasUsed        uint64
	Error          string
	Code           apperror.Code
}

// Failed builds an unsuccessful result from err, keeping any hash already
// broadcast.
func Failed(err error, txHash string) SwapResult {
	return SwapResult{
		Success: false,
		TxHash:  txHash,
		Error:   err.Error(),
		Code:    apperror.GetCode(err),
	}
}
