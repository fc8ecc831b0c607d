package dexes

import (
	"fmt"

	"solana-arb-scanner/internal/domain"
)

// Raydium V4 AmmInfo layout. The account is a flat sequence of u64 fields
// followed by pubkeys; offsets are fixed by the on-chain program.
const (
	raydiumAccountLen = 752

	raydiumStatusOffset   = 0   // u64
	raydiumTradeFeeNumOff = 144 // u64 tradeFeeNumerator
	raydiumTradeFeeDenOff = 152 // u64 tradeFeeDenominator
	raydiumBaseVaultOff   = 336 // pubkey
	raydiumQuoteVaultOff  = 368 // pubkey
	raydiumBaseMintOff    = 400 // pubkey
	raydiumQuoteMintOff   = 432 // pubkey
)

// AmmInfo status values with swapping enabled.
const (
	raydiumStatusInitialized = 1
	raydiumStatusSwapOnly    = 6
)

type raydiumDecoder struct {
	programID string
}

func (d *raydiumDecoder) Venue() domain.Venue {
	return domain.VenueRaydiumV4
}

func (d *raydiumDecoder) Decode(address string, raw []byte, owner string, hintA, hintB domain.Token) (*domain.PoolInfo, error) {
	if owner != d.programID {
		return nil, fmt.Errorf("%w: %s owned by %s, want %s",
			domain.ErrOwnershipMismatch, address, owner, d.programID)
	}
	if len(raw) != raydiumAccountLen {
		return nil, fmt.Errorf("%w: raydium v4 pool %s is %d bytes, want %d",
			domain.ErrMalformedAccount, address, len(raw), raydiumAccountLen)
	}

	status, err := readUint64LE(raw, raydiumStatusOffset)
	if err != nil {
		return nil, err
	}

	feeNum, err := readUint64LE(raw, raydiumTradeFeeNumOff)
	if err != nil {
		return nil, err
	}
	feeDen, err := readUint64LE(raw, raydiumTradeFeeDenOff)
	if err != nil {
		return nil, err
	}
	if feeDen == 0 || feeNum > feeDen {
		return nil, fmt.Errorf("%w: raydium v4 pool %s has fee %d/%d",
			domain.ErrMalformedAccount, address, feeNum, feeDen)
	}

	baseVault, err := readPubkey(raw, raydiumBaseVaultOff)
	if err != nil {
		return nil, err
	}
	quoteVault, err := readPubkey(raw, raydiumQuoteVaultOff)
	if err != nil {
		return nil, err
	}
	baseMint, err := readPubkey(raw, raydiumBaseMintOff)
	if err != nil {
		return nil, err
	}
	quoteMint, err := readPubkey(raw, raydiumQuoteMintOff)
	if err != nil {
		return nil, err
	}
	if baseMint == quoteMint {
		return nil, fmt.Errorf("%w: raydium v4 pool %s has identical mints",
			domain.ErrMalformedAccount, address)
	}

	state := domain.PoolStateInactive
	if status == raydiumStatusInitialized || status == raydiumStatusSwapOnly {
		state = domain.PoolStateActive
	}

	tokenA, tokenB := assignHints(baseMint, quoteMint, baseVault, quoteVault, hintA, hintB)

	return &domain.PoolInfo{
		PoolAddress: address,
		Venue:       domain.VenueRaydiumV4,
		TokenA:      tokenA,
		TokenB:      tokenB,
		Fees: domain.PoolFees{
			// num/den scaled to basis points, floored.
			TradeFeeBps: uint32(feeNum * 10000 / feeDen),
		},
		State: state,
	}, nil
}
