// Package domain contains the core types of the ledger context.
package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TxRequest is an unsigned call the ledger client signs and broadcasts.
// Nonce and gas price are filled in at submission.
type TxRequest struct {
	To       common.Address
	Data     []byte
	Value    *big.Int // weibar
	GasLimit uint64
	Label    string // for logs and spans, e.g. "approve" or "swap"
}

// ValueOrZero returns Value, treating nil as zero.
func (r TxRequest) ValueOrZero() *big.Int {
	if r.Value == nil {
		return new(big.Int)
	}
	return r.Value
}

// Receipt is the confirmed outcome of a transaction.
type Receipt struct {
	TxHash      common.Hash
	Success     bool
	GasUsed     uint64
	BlockNumber *big.Int
	Elapsed     time.Duration // broadcast to confirmation
}
