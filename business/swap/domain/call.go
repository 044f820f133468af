package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ExactInputCall carries the router's exactInput arguments.
type ExactInputCall struct {
	Path             []byte
	Recipient        common.Address
	Deadline         Deadline
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

// ExactInputSingleCall carries the router's exactInputSingle arguments.
// The price limit is always zero.
type ExactInputSingleCall struct {
	TokenIn          common.Address
	TokenOut         common.Address
	Fee              FeeTier
	Recipient        common.Address
	Deadline         Deadline
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}
