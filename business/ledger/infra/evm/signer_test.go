package evm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// Well-known development key (hardhat account #0).
const devKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var devAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func TestNewKeySigner(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"plain hex", devKey, false},
		{"0x prefix", "0x" + devKey, false},
		{"der prefix", derSecp256k1Prefix + devKey, false},
		{"short", "0x1234", true},
		{"garbage", "not-a-key", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewKeySigner(tt.key)
			if tt.wantErr {
				if !apperror.HasCode(err, apperror.CodeInvalidCredential) {
					t.Errorf("expected INVALID_CREDENTIAL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Address() != devAddress {
				t.Errorf("expected %s, got %s", devAddress.Hex(), s.Address().Hex())
			}
		})
	}
}

func TestKeySigner_SignTxRecoversSender(t *testing.T) {
	s, err := NewKeySigner(devKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	to := common.HexToAddress("0x00000000000000000000000000000000003c437a")
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(1), Gas: 21000, To: &to})
	chainID := big.NewInt(296)

	signed, err := s.SignTx(tx, chainID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	from, err := types.Sender(types.NewEIP155Signer(chainID), signed)
	if err != nil {
		t.Fatalf("sender: %v", err)
	}
	if from != devAddress {
		t.Errorf("expected %s, got %s", devAddress.Hex(), from.Hex())
	}
}
