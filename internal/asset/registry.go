package asset

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// Registry is a thread-safe set of known assets on one chain.
type Registry struct {
	chainID   uint64
	byAddress map[common.Address]*Asset
	bySymbol  map[string]*Asset // upper-cased symbol
	native    *Asset
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry for chainID.
func NewRegistry(chainID uint64) *Registry {
	return &Registry{
		chainID:   chainID,
		byAddress: make(map[common.Address]*Asset),
		bySymbol:  make(map[string]*Asset),
	}
}

// ChainID returns the chain the registry serves.
func (r *Registry) ChainID() uint64 {
	return r.chainID
}

// Register adds an asset. Panics on nil, a foreign chain or a duplicate.
func (r *Registry) Register(a *Asset) {
	if err := r.Add(a); err != nil {
		panic(err)
	}
}

// Add adds an asset, reporting duplicates instead of panicking.
func (r *Registry) Add(a *Asset) error {
	if a == nil {
		return ErrNilAsset
	}
	if a.ChainID() != r.chainID {
		return fmt.Errorf("asset: %s belongs to chain %d, registry serves %d", a.Symbol(), a.ChainID(), r.chainID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a.IsNative() {
		if r.native != nil {
			return fmt.Errorf("asset: %s already registered", a.ID())
		}
		r.native = a
	} else {
		if _, exists := r.byAddress[a.Address()]; exists {
			return fmt.Errorf("asset: %s already registered", a.ID())
		}
		r.byAddress[a.Address()] = a
	}

	sym := strings.ToUpper(a.Symbol())
	if _, taken := r.bySymbol[sym]; !taken {
		r.bySymbol[sym] = a
	}
	return nil
}

// Native returns the chain's native coin.
func (r *Registry) Native() (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.native, r.native != nil
}

// GetToken returns a token by address.
func (r *Registry) GetToken(addr common.Address) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byAddress[addr]
	return a, ok
}

// GetBySymbol returns an asset by case-insensitive symbol.
func (r *Registry) GetBySymbol(symbol string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.bySymbol[strings.ToUpper(symbol)]
	return a, ok
}

// Lookup resolves a symbol, an entity id or a hex address.
// Identifiers that parse but are not registered report TOKEN_NOT_FOUND
// together with the parsed address so callers can fetch metadata elsewhere.
func (r *Registry) Lookup(ref string) (*Asset, common.Address, error) {
	if a, ok := r.GetBySymbol(ref); ok {
		return a, a.Address(), nil
	}

	addr, err := ToAddress(ref)
	if err != nil {
		return nil, common.Address{}, apperror.New(apperror.CodeTokenNotFound,
			apperror.WithContext(ref),
			apperror.WithCause(err))
	}
	if a, ok := r.GetToken(addr); ok {
		return a, addr, nil
	}
	return nil, addr, apperror.New(apperror.CodeTokenNotFound, apperror.WithContext(ref))
}

// All returns every registered asset, native first, then by symbol.
func (r *Registry) All() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]*Asset, 0, len(r.byAddress))
	for _, a := range r.byAddress {
		tokens = append(tokens, a)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Symbol() < tokens[j].Symbol() })

	if r.native == nil {
		return tokens
	}
	return append([]*Asset{r.native}, tokens...)
}

// Count returns the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.byAddress)
	if r.native != nil {
		n++
	}
	return n
}
