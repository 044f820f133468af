package domain

import (
	"strconv"
	"strings"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// FeeTier is a pool fee in hundredths of a basis point (1500 = 0.15%).
// It is encoded as a 3-byte big-endian integer inside a path.
type FeeTier uint32

// Pool fee tiers deployed on SaucerSwap V2.
const (
	Fee100   FeeTier = 100   // 0.01%
	Fee500   FeeTier = 500   // 0.05%
	Fee1500  FeeTier = 1500  // 0.15%
	Fee3000  FeeTier = 3000  // 0.30%
	Fee10000 FeeTier = 10000 // 1.00%

	DefaultFee = Fee1500

	maxFee = 1<<24 - 1
)

// KnownFeeTiers lists the deployed tiers in ascending order.
var KnownFeeTiers = []FeeTier{Fee100, Fee500, Fee1500, Fee3000, Fee10000}

// Valid reports whether f is a deployed tier.
func (f FeeTier) Valid() bool {
	for _, k := range KnownFeeTiers {
		if f == k {
			return true
		}
	}
	return false
}

// Percent renders the tier as a percentage, e.g. "0.15%".
func (f FeeTier) Percent() string {
	return strconv.FormatFloat(float64(f)/10000, 'f', -1, 64) + "%"
}

func (f FeeTier) String() string {
	return strconv.FormatUint(uint64(f), 10)
}

// ParseFeeTier parses a tier given either as raw units ("1500") or as a
// percentage ("0.15%"). Only deployed tiers are accepted.
func ParseFeeTier(s string) (FeeTier, error) {
	raw := strings.TrimSpace(s)

	var units float64
	if pct, ok := strings.CutSuffix(raw, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, invalidFee(s, err)
		}
		units = v * 10000
	} else {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return 0, invalidFee(s, err)
		}
		units = float64(v)
	}

	if units < 0 || units > maxFee {
		return 0, invalidFee(s, nil)
	}
	f := FeeTier(units + 0.5)
	if !f.Valid() {
		return 0, invalidFee(s, nil)
	}
	return f, nil
}

func invalidFee(s string, cause error) error {
	opts := []apperror.Option{apperror.WithContext(s)}
	if cause != nil {
		opts = append(opts, apperror.WithCause(cause))
	}
	return apperror.New(apperror.CodeInvalidFeeTier, opts...)
}
