package domain

import (
	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// Shape is the transaction layout used to execute a swap.
type Shape int

const (
	// ShapeNativeIn attaches the input as transaction value; the router wraps it.
	ShapeNativeIn Shape = iota + 1
	// ShapeNativeOut swaps to the router and unwraps in one multicall.
	ShapeNativeOut
	// ShapeTokenToToken is a plain exactInput without value.
	ShapeTokenToToken
)

func (s Shape) String() string {
	switch s {
	case ShapeNativeIn:
		return "native_in"
	case ShapeNativeOut:
		return "native_out"
	case ShapeTokenToToken:
		return "token_to_token"
	default:
		return "unknown"
	}
}

// SelectShape picks the layout for a pair. Native on both sides and
// identical tokens are rejected.
func SelectShape(in, out TokenRef) (Shape, error) {
	if in.Same(out) {
		return 0, apperror.New(apperror.CodeInvalidRoute,
			apperror.WithContext("input and output are the same asset: "+in.String()))
	}
	switch {
	case in.IsNative():
		return ShapeNativeIn, nil
	case out.IsNative():
		return ShapeNativeOut, nil
	default:
		return ShapeTokenToToken, nil
	}
}
