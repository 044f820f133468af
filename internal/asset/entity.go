package asset

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// ToAddress resolves a Hedera entity id ("shard.realm.num") or a 0x-prefixed
// 40-hex address to a 20-byte EVM address. Entity ids map to their long-zero
// form: num left-padded to 20 bytes. Shard and realm are validated but not
// encoded. Hex input is returned unchanged.
func ToAddress(id string) (common.Address, error) {
	s := strings.TrimSpace(id)

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		raw := s[2:]
		if len(raw) != 2*common.AddressLength {
			return common.Address{}, invalidIdentifier(id, nil)
		}
		b, err := hex.DecodeString(raw)
		if err != nil {
			return common.Address{}, invalidIdentifier(id, err)
		}
		return common.BytesToAddress(b), nil
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return common.Address{}, invalidIdentifier(id, nil)
	}
	var num uint64
	for _, p := range parts {
		// ParseUint rejects signs, so "+5" and "-5" are not ids.
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return common.Address{}, invalidIdentifier(id, err)
		}
		num = v
	}
	return common.BigToAddress(new(big.Int).SetUint64(num)), nil
}

// MustAddress is ToAddress for package-level constants.
func MustAddress(id string) common.Address {
	addr, err := ToAddress(id)
	if err != nil {
		panic(err)
	}
	return addr
}

// ToEntityID maps a long-zero address back to "0.0.num".
// Reports false for addresses with a non-zero high prefix (ECDSA aliases).
func ToEntityID(addr common.Address) (string, bool) {
	for _, b := range addr[:12] {
		if b != 0 {
			return "", false
		}
	}
	num := new(big.Int).SetBytes(addr[12:])
	return fmt.Sprintf("0.0.%s", num.String()), true
}

// IsIdentifier reports whether s parses as an entity id or hex address.
func IsIdentifier(s string) bool {
	_, err := ToAddress(s)
	return err == nil
}

func invalidIdentifier(id string, cause error) error {
	opts := []apperror.Option{apperror.WithContext(id)}
	if cause != nil {
		opts = append(opts, apperror.WithCause(cause))
	}
	return apperror.New(apperror.CodeInvalidIdentifier, opts...)
}
