package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

const (
	feeSize = 3
	hopSize = common.AddressLength + feeSize
	minPath = 2*common.AddressLength + feeSize
)

// PathLength returns the encoded size of a route through n tokens.
func PathLength(n int) int {
	if n < 1 {
		return 0
	}
	return common.AddressLength*n + feeSize*(n-1)
}

// EncodePath packs a route as token0 | fee0 | token1 | ... | tokenN, with each
// fee as a 3-byte big-endian integer. Token order is preserved.
func EncodePath(tokens []common.Address, fees []FeeTier) ([]byte, error) {
	if len(fees) != len(tokens)-1 {
		return nil, apperror.New(apperror.CodeFeeCountMismatch,
			apperror.WithContext(fmt.Sprintf("%d tokens need %d fees, got %d", len(tokens), len(tokens)-1, len(fees))))
	}
	if len(tokens) < 2 {
		return nil, apperror.New(apperror.CodeInvalidRoute,
			apperror.WithContext(fmt.Sprintf("route needs at least 2 tokens, got %d", len(tokens))))
	}

	out := make([]byte, 0, PathLength(len(tokens)))
	for i, token := range tokens {
		out = append(out, token.Bytes()...)
		if i < len(fees) {
			f := fees[i]
			if f > maxFee {
				return nil, apperror.New(apperror.CodeInvalidFeeTier, apperror.WithContext(f.String()))
			}
			out = append(out, byte(f>>16), byte(f>>8), byte(f))
		}
	}
	return out, nil
}

// DecodePath reverses EncodePath.
func DecodePath(path []byte) ([]common.Address, []FeeTier, error) {
	if len(path) < minPath || (len(path)-common.AddressLength)%hopSize != 0 {
		return nil, nil, apperror.New(apperror.CodeInvalidRoute,
			apperror.WithContext(fmt.Sprintf("malformed path of %d bytes", len(path))))
	}

	hops := (len(path) - common.AddressLength) / hopSize
	tokens := make([]common.Address, 0, hops+1)
	fees := make([]FeeTier, 0, hops)

	off := 0
	for i := 0; i < hops; i++ {
		tokens = append(tokens, common.BytesToAddress(path[off:off+common.AddressLength]))
		off += common.AddressLength
		fees = append(fees, FeeTier(uint32(path[off])<<16|uint32(path[off+1])<<8|uint32(path[off+2])))
		off += feeSize
	}
	tokens = append(tokens, common.BytesToAddress(path[off:]))

	return tokens, fees, nil
}
