package asset

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Price is an exchange rate: one unit of base is worth Rate units of quote.
type Price struct {
	rate      decimal.Decimal
	base      *Asset
	quote     *Asset
	timestamp time.Time
}

// NewPrice creates a price from a decimal rate.
func NewPrice(base, quote *Asset, rate decimal.Decimal, timestamp time.Time) Price {
	if base == nil || quote == nil {
		panic("asset: nil base or quote in price")
	}
	if rate.IsNegative() {
		panic("asset: negative price rate")
	}
	return Price{rate: rate, base: base, quote: quote, timestamp: timestamp}
}

// ExecutionPrice derives the effective rate of a swap from its input and
// output amounts. A zero input yields a zero price.
func ExecutionPrice(in, out Amount, at time.Time) Price {
	if in.IsZero() {
		return NewPrice(in.Asset(), out.Asset(), decimal.Zero, at)
	}
	rate := out.ToDecimal().DivRound(in.ToDecimal(), 18)
	return NewPrice(in.Asset(), out.Asset(), rate, at)
}

func (p Price) Rate() decimal.Decimal { return p.rate }
func (p Price) Base() *Asset          { return p.base }
func (p Price) Quote() *Asset         { return p.quote }
func (p Price) Timestamp() time.Time  { return p.timestamp }

// Pair returns "BASE/QUOTE".
func (p Price) Pair() string {
	return fmt.Sprintf("%s/%s", p.base.Symbol(), p.quote.Symbol())
}

// Invert returns the quote-per-base rate flipped. Zero stays zero.
func (p Price) Invert() Price {
	if p.rate.IsZero() {
		return NewPrice(p.quote, p.base, decimal.Zero, p.timestamp)
	}
	return NewPrice(p.quote, p.base, decimal.NewFromInt(1).DivRound(p.rate, 18), p.timestamp)
}

// Convert prices an amount of base in quote units, truncated to the quote's decimals.
func (p Price) Convert(amount Amount) (Amount, error) {
	if !amount.Asset().Equals(p.base) {
		return Amount{}, fmt.Errorf("%w: price is %s, amount is %s", ErrAssetMismatch, p.Pair(), amount.Asset().Symbol())
	}
	out := amount.ToDecimal().Mul(p.rate).Truncate(int32(p.quote.Decimals()))
	return ParseDecimal(p.quote, out)
}

// String renders "1 BASE = x QUOTE".
func (p Price) String() string {
	return fmt.Sprintf("1 %s = %s %s", p.base.Symbol(), p.rate.StringFixed(8), p.quote.Symbol())
}
