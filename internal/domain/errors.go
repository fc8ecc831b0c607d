package domain

import "errors"

// Error taxonomy shared by decoders, adapters, calculator, and scanner.
// Wrap with fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrNetwork marks transient RPC failures. Pair-scoped and retryable;
	// never fatal to a whole scan.
	ErrNetwork = errors.New("network error")

	// ErrOwnershipMismatch is returned when an account is not owned by the
	// venue's program. Permanent for that address.
	ErrOwnershipMismatch = errors.New("account owner does not match venue program")

	// ErrMalformedAccount is returned when account bytes do not match the
	// venue's layout. Permanent for that address.
	ErrMalformedAccount = errors.New("malformed pool account")

	// ErrUnknownVenue is returned when an address maps to no venue and every
	// probe fails. Permanent for that address.
	ErrUnknownVenue = errors.New("unknown venue for pool address")

	// ErrInvalidToken is returned when a quote is requested for a token that
	// is not one of the pool's two mints. Caller logic error, no retry.
	ErrInvalidToken = errors.New("token not in pool")

	// ErrIncompatibleTokenPair is returned when two quotes do not describe
	// opposite legs of a round trip. Indicates a scanner contract violation.
	ErrIncompatibleTokenPair = errors.New("quotes do not form a round trip")

	// ErrUnsupportedState is returned when a pool is not active.
	ErrUnsupportedState = errors.New("pool is not active")

	// ErrInvalidAmount is returned when a quote is requested for a zero
	// input amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrAccountNotFound is returned when an address has no account on
	// chain. Permanent for that address.
	ErrAccountNotFound = errors.New("account does not exist")
)
