// Package saucerswap encodes and decodes calls to the SaucerSwap V2 QuoterV2,
// SwapRouter and HTS ERC-20 facades.
package saucerswap

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// Router builds calldata for the SwapRouter contract.
type Router struct {
	address common.Address
	abi     abi.ABI
}

// NewRouter parses the router ABI for the contract at address.
func NewRouter(address common.Address) (*Router, error) {
	parsed, err := abi.JSON(strings.NewReader(SwapRouterABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}
	return &Router{address: address, abi: parsed}, nil
}

// Address returns the router contract address.
func (r *Router) Address() common.Address {
	return r.address
}

// EncodeExactInput packs exactInput(params).
func (r *Router) EncodeExactInput(call domain.ExactInputCall) ([]byte, error) {
	return r.pack("exactInput", exactInputParams{
		Path:             call.Path,
		Recipient:        call.Recipient,
		Deadline:         call.Deadline.Big(),
		AmountIn:         call.AmountIn,
		AmountOutMinimum: call.AmountOutMinimum,
	})
}

// EncodeExactInputSingle packs exactInputSingle(params) with no price limit.
func (r *Router) EncodeExactInputSingle(call domain.ExactInputSingleCall) ([]byte, error) {
	return r.pack("exactInputSingle", exactInputSingleParams{
		TokenIn:           call.TokenIn,
		TokenOut:          call.TokenOut,
		Fee:               big.NewInt(int64(call.Fee)),
		Recipient:         call.Recipient,
		Deadline:          call.Deadline.Big(),
		AmountIn:          call.AmountIn,
		AmountOutMinimum:  call.AmountOutMinimum,
		SqrtPriceLimitX96: new(big.Int),
	})
}

// EncodeUnwrapWHBAR packs unwrapWHBAR(amountMinimum, recipient).
func (r *Router) EncodeUnwrapWHBAR(amountMinimum *big.Int, recipient common.Address) ([]byte, error) {
	return r.pack("unwrapWHBAR", amountMinimum, recipient)
}

// EncodeMulticall packs multicall(calls). The calls execute atomically in order.
func (r *Router) EncodeMulticall(calls [][]byte) ([]byte, error) {
	return r.pack("multicall", calls)
}

func (r *Router) pack(method string, args ...any) ([]byte, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, apperror.New(apperror.CodeEncodingFailed,
			apperror.WithCause(err),
			apperror.WithContext("router."+method))
	}
	return data, nil
}
