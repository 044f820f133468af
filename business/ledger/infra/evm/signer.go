package evm

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/fd1az/saucerswap-engine/business/ledger/app"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// Ensure KeySigner implements app.Signer.
var _ app.Signer = (*KeySigner)(nil)

// KeySigner signs with an in-memory secp256k1 key. Hedera ED25519 account
// keys cannot sign EVM transactions and are rejected.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner parses a hex private key, with or without 0x prefix.
// DER-encoded keys exported by Hedera tooling are accepted when they wrap a
// raw 32-byte secp256k1 scalar.
func NewKeySigner(hexKey string) (*KeySigner, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	raw = strings.TrimPrefix(raw, derSecp256k1Prefix)

	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidCredential,
			apperror.WithCause(err),
			apperror.WithContext("expected a 32-byte ECDSA secp256k1 private key"))
	}

	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// derSecp256k1Prefix is the DER header Hedera SDKs prepend to ECDSA keys.
const derSecp256k1Prefix = "3030020100300706052b8104000a04220420"

// Address returns the EVM address derived from the key.
func (s *KeySigner) Address() common.Address {
	return s.address
}

// SignTx signs a legacy transaction with EIP-155 replay protection.
func (s *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.NewEIP155Signer(chainID), s.key)
}
