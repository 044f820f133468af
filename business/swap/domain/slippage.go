package domain

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

var one = decimal.NewFromInt(1)

// ValidateSlippage requires a fraction in [0, 1).
func ValidateSlippage(s decimal.Decimal) error {
	if s.IsNegative() || s.GreaterThanOrEqual(one) {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("slippage must be in [0, 1): "+s.String()))
	}
	return nil
}

// MinOut returns floor(expected * (1 - slippage)).
func MinOut(expected *big.Int, slippage decimal.Decimal) *big.Int {
	if expected == nil || expected.Sign() <= 0 {
		return big.NewInt(0)
	}
	keep := one.Sub(slippage)
	return decimal.NewFromBigInt(expected, 0).Mul(keep).Floor().BigInt()
}
