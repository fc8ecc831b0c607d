// Package solana provides the JSON-RPC account access boundary.
package solana

import "context"

// Account is raw on-chain account state as returned by getAccountInfo.
type Account struct {
	Owner    string // owning program, base58
	Data     []byte // decoded account bytes
	Lamports uint64
}

// AccountFetcher retrieves raw account state. The scanner core consumes this
// interface only; HTTPClient is the production implementation and the stub
// package provides the test one.
type AccountFetcher interface {
	// GetAccountBytes fetches the account at address. Returns nil when the
	// account does not exist. Connectivity and timeout failures wrap
	// domain.ErrNetwork.
	GetAccountBytes(ctx context.Context, address string) (*Account, error)
}
