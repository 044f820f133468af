package domain

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/asset"
)

func TestEncodePath_SingleHopLayout(t *testing.T) {
	a := asset.MustAddress("0.0.1456986")
	b := asset.MustAddress("0.0.456858")

	path, err := EncodePath([]common.Address{a, b}, []FeeTier{Fee1500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(path) != 43 {
		t.Fatalf("expected 43 bytes, got %d", len(path))
	}

	want := append(append(a.Bytes(), 0x00, 0x05, 0xdc), b.Bytes()...)
	if !bytes.Equal(path, want) {
		t.Errorf("unexpected path\n got  %x\n want %x", path, want)
	}
}

func TestEncodePath_Length(t *testing.T) {
	for n := 2; n <= 6; n++ {
		tokens := make([]common.Address, n)
		fees := make([]FeeTier, n-1)
		for i := range tokens {
			tokens[i] = common.BigToAddress(common.Big1)
		}
		for i := range fees {
			fees[i] = KnownFeeTiers[i%len(KnownFeeTiers)]
		}

		path, err := EncodePath(tokens, fees)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if want := 20*n + 3*(n-1); len(path) != want || PathLength(n) != want {
			t.Errorf("n=%d: expected length %d, got %d (PathLength %d)", n, want, len(path), PathLength(n))
		}
	}
}

func TestEncodePath_Errors(t *testing.T) {
	a := asset.MustAddress("0.0.1")
	b := asset.MustAddress("0.0.2")
	c := asset.MustAddress("0.0.3")

	tests := []struct {
		name   string
		tokens []common.Address
		fees   []FeeTier
		code   apperror.Code
	}{
		{"too few fees", []common.Address{a, b, c}, []FeeTier{Fee500}, apperror.CodeFeeCountMismatch},
		{"too many fees", []common.Address{a, b}, []FeeTier{Fee500, Fee3000}, apperror.CodeFeeCountMismatch},
		{"no fees", []common.Address{a, b}, nil, apperror.CodeFeeCountMismatch},
		{"single token", []common.Address{a}, nil, apperror.CodeInvalidRoute},
		{"single token with fee", []common.Address{a}, []FeeTier{Fee1500}, apperror.CodeFeeCountMismatch},
		{"empty route", nil, nil, apperror.CodeFeeCountMismatch},
		{"empty route with fee", nil, []FeeTier{Fee1500}, apperror.CodeFeeCountMismatch},
		{"fee overflow", []common.Address{a, b}, []FeeTier{1 << 24}, apperror.CodeInvalidFeeTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodePath(tt.tokens, tt.fees)
			if !apperror.HasCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestDecodePath_RoundTrip(t *testing.T) {
	tokens := []common.Address{
		asset.MustAddress("0.0.456858"),
		asset.MustAddress("0.0.1456986"),
		asset.MustAddress("0.0.10082597"),
	}
	fees := []FeeTier{Fee500, Fee3000}

	path, err := EncodePath(tokens, fees)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	gotTokens, gotFees, err := DecodePath(path)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range tokens {
		if gotTokens[i] != tokens[i] {
			t.Errorf("token %d: expected %s, got %s", i, tokens[i].Hex(), gotTokens[i].Hex())
		}
	}
	for i := range fees {
		if gotFees[i] != fees[i] {
			t.Errorf("fee %d: expected %d, got %d", i, fees[i], gotFees[i])
		}
	}

	if _, _, err := DecodePath(path[:42]); !apperror.HasCode(err, apperror.CodeInvalidRoute) {
		t.Errorf("expected INVALID_ROUTE for truncated path, got %v", err)
	}
}
