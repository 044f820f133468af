package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/saucerswap-engine/internal/asset"
)

// Quote is the quoter's answer for an exact-input route. Advisory only: the
// minimum-output guard derived from it is what the router enforces.
type Quote struct {
	AmountIn                *big.Int
	AmountOut               *big.Int
	SqrtPriceX96After       []*big.Int
	InitializedTicksCrossed []uint32
	GasEstimate             *big.Int
}

// Plan is a fully resolved swap ready to be assembled into a transaction.
type Plan struct {
	Intent   SwapIntent
	Shape    Shape
	Path     []byte
	AmountIn *big.Int // smallest units of TokenIn
	Quote    Quote
	MinOut   *big.Int
}

// ExpectedOut returns the quoted output in human units.
func (p Plan) ExpectedOut() decimal.Decimal {
	return p.Intent.TokenOut.FromRaw(p.Quote.AmountOut)
}

// MinOutHuman returns the guarded minimum output in human units.
func (p Plan) MinOutHuman() decimal.Decimal {
	return p.Intent.TokenOut.FromRaw(p.MinOut)
}

// Price returns the quoted execution price, TokenOut per TokenIn.
func (p Plan) Price(chainID uint64, at time.Time) asset.Price {
	in := asset.NewAmount(p.Intent.TokenIn.Asset(chainID), p.AmountIn)
	out := asset.NewAmount(p.Intent.TokenOut.Asset(chainID), p.Quote.AmountOut)
	return asset.ExecutionPrice(in, out, at)
}
