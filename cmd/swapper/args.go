package main

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

var hundred = decimal.NewFromInt(100)

// parseAmount parses a positive human-unit amount.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeInvalidInput,
			apperror.WithCause(err),
			apperror.WithContext("amount "+s))
	}
	if !d.IsPositive() {
		return decimal.Zero, apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("amount must be positive: "+s))
	}
	return d, nil
}

// parseSlippage accepts a fraction ("0.005") or a percentage ("0.5%").
func parseSlippage(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	pct, isPct := strings.CutSuffix(raw, "%")

	d, err := decimal.NewFromString(strings.TrimSpace(pct))
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeInvalidInput,
			apperror.WithCause(err),
			apperror.WithContext("slippage "+s))
	}
	if isPct {
		d = d.Div(hundred)
	}
	if err := domain.ValidateSlippage(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// routeSpec is a parsed --path value: tokens as typed and one fee per hop.
type routeSpec struct {
	tokens []string
	fees   []domain.FeeTier
}

// parseRoute parses "SYM:FEE:SYM[:FEE:SYM...]".
func parseRoute(s string) (routeSpec, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 3 || len(parts)%2 == 0 {
		return routeSpec{}, apperror.New(apperror.CodeInvalidRoute,
			apperror.WithContext("path must alternate token and fee, got "+s))
	}

	var route routeSpec
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i%2 == 0 {
			if part == "" {
				return routeSpec{}, apperror.New(apperror.CodeInvalidRoute,
					apperror.WithContext("empty token in path "+s))
			}
			route.tokens = append(route.tokens, part)
			continue
		}
		fee, err := domain.ParseFeeTier(part)
		if err != nil {
			return routeSpec{}, err
		}
		route.fees = append(route.fees, fee)
	}
	return route, nil
}

// intermediates returns the tokens between the endpoints.
func (r routeSpec) intermediates() []string {
	return r.tokens[1 : len(r.tokens)-1]
}

func (r routeSpec) first() string { return r.tokens[0] }
func (r routeSpec) last() string  { return r.tokens[len(r.tokens)-1] }
