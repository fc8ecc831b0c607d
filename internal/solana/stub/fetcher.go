// Package stub provides in-memory fakes for the solana package.
package stub

import (
	"context"
	"fmt"
	"sync"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/solana"
)

// AccountFetcher implements solana.AccountFetcher for testing.
type AccountFetcher struct {
	mu       sync.Mutex
	accounts map[string]*solana.Account
	failures map[string]error
	calls    map[string]int
}

// NewAccountFetcher creates a new stub fetcher.
func NewAccountFetcher() *AccountFetcher {
	return &AccountFetcher{
		accounts: make(map[string]*solana.Account),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// SetAccount registers an account in the stub store.
func (f *AccountFetcher) SetAccount(address, owner string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[address] = &solana.Account{Owner: owner, Data: data}
}

// FailWith makes GetAccountBytes return err for address.
func (f *AccountFetcher) FailWith(address string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[address] = err
}

// FailWithNetwork makes GetAccountBytes return a transient network error
// for address.
func (f *AccountFetcher) FailWithNetwork(address string) {
	f.FailWith(address, fmt.Errorf("%w: stub connection refused", domain.ErrNetwork))
}

// Calls returns how many times address has been fetched.
func (f *AccountFetcher) Calls(address string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[address]
}

// GetAccountBytes returns the stubbed account, the injected failure, or nil
// when the address is unknown.
func (f *AccountFetcher) GetAccountBytes(_ context.Context, address string) (*solana.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[address]++

	if err, ok := f.failures[address]; ok {
		return nil, err
	}

	acc, ok := f.accounts[address]
	if !ok {
		return nil, nil
	}

	// Return a copy so tests cannot mutate the stored account.
	cp := *acc
	cp.Data = append([]byte(nil), acc.Data...)
	return &cp, nil
}
