package dexes

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/poolcache"
	"solana-arb-scanner/internal/solana/stub"
)

func tokenAccountBytes(amount uint64) []byte {
	data := make([]byte, tokenAccountMinLen)
	binary.LittleEndian.PutUint64(data[tokenAccountAmountStart:], amount)
	return data
}

// seedRaydiumPool loads a decodable Raydium pool plus its two vaults into the
// stub, with the reference reserves 1000 SOL-side / 100000 USDC-side.
func seedRaydiumPool(f *stub.AccountFetcher, poolAddress string, fixture raydiumFixture) {
	f.SetAccount(poolAddress, domain.RaydiumV4ProgramID, fixture.bytes())
	f.SetAccount(fixture.baseVault, domain.SPLTokenProgramID, tokenAccountBytes(1000))
	f.SetAccount(fixture.quoteVault, domain.SPLTokenProgramID, tokenAccountBytes(100000))
}

func newRaydiumAdapter(t *testing.T, f *stub.AccountFetcher, cache *poolcache.Cache) *Adapter {
	t.Helper()
	a, err := NewAdapter(AdapterOptions{
		Venue:      domain.VenueRaydiumV4,
		Fetcher:    f,
		Cache:      cache,
		TokenAHint: solToken(),
		TokenBHint: usdcToken(),
	})
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	return a
}

func TestAdapterGetPoolInfo(t *testing.T) {
	f := stub.NewAccountFetcher()
	fixture := defaultRaydiumFixture()
	fixture.feeNum, fixture.feeDen = 0, 10000
	seedRaydiumPool(f, "pool1", fixture)

	adapter := newRaydiumAdapter(t, f, nil)

	pool, err := adapter.GetPoolInfo(context.Background(), "pool1")
	if err != nil {
		t.Fatalf("GetPoolInfo: %v", err)
	}

	if pool.Reserves.TokenAReserve != 1000 || pool.Reserves.TokenBReserve != 100000 {
		t.Errorf("reserves = %+v, want 1000/100000 from the vaults", pool.Reserves)
	}
	if !pool.Quotable() {
		t.Errorf("pool must be quotable, got state %s reserves %+v", pool.State, pool.Reserves)
	}
}

func TestAdapterCachesPools(t *testing.T) {
	f := stub.NewAccountFetcher()
	fixture := defaultRaydiumFixture()
	seedRaydiumPool(f, "pool1", fixture)

	adapter := newRaydiumAdapter(t, f, poolcache.New(time.Minute))

	ctx := context.Background()
	if _, err := adapter.GetPoolInfo(ctx, "pool1"); err != nil {
		t.Fatalf("first GetPoolInfo: %v", err)
	}
	if _, err := adapter.GetPoolInfo(ctx, "pool1"); err != nil {
		t.Fatalf("second GetPoolInfo: %v", err)
	}

	if got := f.Calls("pool1"); got != 1 {
		t.Errorf("pool fetched %d times, want 1 with a warm cache", got)
	}
	if got := f.Calls(fixture.baseVault); got != 1 {
		t.Errorf("vault fetched %d times, want 1 with a warm cache", got)
	}
}

func TestAdapterPoolInfoErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing pool account", func(t *testing.T) {
		f := stub.NewAccountFetcher()
		adapter := newRaydiumAdapter(t, f, nil)
		_, err := adapter.GetPoolInfo(ctx, "missing")
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("err = %v, want ErrAccountNotFound", err)
		}
	})

	t.Run("network failure propagates", func(t *testing.T) {
		f := stub.NewAccountFetcher()
		f.FailWithNetwork("pool1")
		adapter := newRaydiumAdapter(t, f, nil)
		_, err := adapter.GetPoolInfo(ctx, "pool1")
		if !errors.Is(err, domain.ErrNetwork) {
			t.Errorf("err = %v, want ErrNetwork", err)
		}
	})

	t.Run("vault owned by wrong program", func(t *testing.T) {
		f := stub.NewAccountFetcher()
		fixture := defaultRaydiumFixture()
		f.SetAccount("pool1", domain.RaydiumV4ProgramID, fixture.bytes())
		f.SetAccount(fixture.baseVault, domain.RaydiumV4ProgramID, tokenAccountBytes(1000))
		f.SetAccount(fixture.quoteVault, domain.SPLTokenProgramID, tokenAccountBytes(100000))
		adapter := newRaydiumAdapter(t, f, nil)
		_, err := adapter.GetPoolInfo(ctx, "pool1")
		if !errors.Is(err, domain.ErrOwnershipMismatch) {
			t.Errorf("err = %v, want ErrOwnershipMismatch", err)
		}
	})

	t.Run("pool owned by wrong program", func(t *testing.T) {
		f := stub.NewAccountFetcher()
		fixture := defaultRaydiumFixture()
		f.SetAccount("pool1", domain.OrcaWhirlpoolProgramID, fixture.bytes())
		adapter := newRaydiumAdapter(t, f, nil)
		_, err := adapter.GetPoolInfo(ctx, "pool1")
		if !errors.Is(err, domain.ErrOwnershipMismatch) {
			t.Errorf("err = %v, want ErrOwnershipMismatch", err)
		}
	})
}

func TestAdapterGetSwapQuote(t *testing.T) {
	f := stub.NewAccountFetcher()
	fixture := defaultRaydiumFixture()
	fixture.feeNum, fixture.feeDen = 0, 10000
	seedRaydiumPool(f, "pool1", fixture)

	adapter := newRaydiumAdapter(t, f, nil)

	quote, err := adapter.GetSwapQuote(context.Background(), "pool1", 10, domain.WSOLMint)
	if err != nil {
		t.Fatalf("GetSwapQuote: %v", err)
	}
	if quote.AmountOut != 991 {
		t.Errorf("amount_out = %d, want 991", quote.AmountOut)
	}
	if quote.MinAmountOut != 982 {
		t.Errorf("min_amount_out = %d, want 982 after default slippage", quote.MinAmountOut)
	}
	if quote.Venue != domain.VenueRaydiumV4 {
		t.Errorf("venue = %s, want raydium", quote.Venue)
	}
}

func TestAdapterGetSwapQuoteErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("zero amount", func(t *testing.T) {
		f := stub.NewAccountFetcher()
		adapter := newRaydiumAdapter(t, f, nil)
		_, err := adapter.GetSwapQuote(ctx, "pool1", 0, domain.WSOLMint)
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("err = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("inactive pool", func(t *testing.T) {
		f := stub.NewAccountFetcher()
		fixture := defaultRaydiumFixture()
		fixture.status = 4
		seedRaydiumPool(f, "pool1", fixture)
		adapter := newRaydiumAdapter(t, f, nil)
		_, err := adapter.GetSwapQuote(ctx, "pool1", 10, domain.WSOLMint)
		if !errors.Is(err, domain.ErrUnsupportedState) {
			t.Errorf("err = %v, want ErrUnsupportedState", err)
		}
	})

	t.Run("zero reserve", func(t *testing.T) {
		f := stub.NewAccountFetcher()
		fixture := defaultRaydiumFixture()
		f.SetAccount("pool1", domain.RaydiumV4ProgramID, fixture.bytes())
		f.SetAccount(fixture.baseVault, domain.SPLTokenProgramID, tokenAccountBytes(0))
		f.SetAccount(fixture.quoteVault, domain.SPLTokenProgramID, tokenAccountBytes(100000))
		adapter := newRaydiumAdapter(t, f, nil)
		_, err := adapter.GetSwapQuote(ctx, "pool1", 10, domain.WSOLMint)
		if !errors.Is(err, domain.ErrMalformedAccount) {
			t.Errorf("err = %v, want ErrMalformedAccount", err)
		}
	})
}

func TestAdapterCreateSwapInstructionRaydium(t *testing.T) {
	f := stub.NewAccountFetcher()
	fixture := defaultRaydiumFixture()
	seedRaydiumPool(f, "pool1", fixture)

	adapter := newRaydiumAdapter(t, f, nil)

	ctx := context.Background()
	quote, err := adapter.GetSwapQuote(ctx, "pool1", 10, domain.WSOLMint)
	if err != nil {
		t.Fatalf("GetSwapQuote: %v", err)
	}

	ix, err := adapter.CreateSwapInstruction(ctx, quote, "trader1")
	if err != nil {
		t.Fatalf("CreateSwapInstruction: %v", err)
	}

	if ix.ProgramID != domain.RaydiumV4ProgramID {
		t.Errorf("program = %s, want raydium v4", ix.ProgramID)
	}
	if len(ix.Data) != 17 || ix.Data[0] != raydiumSwapDiscriminator {
		t.Fatalf("data = %x, want 17 bytes starting with 0x09", ix.Data)
	}
	if got := binary.LittleEndian.Uint64(ix.Data[1:]); got != quote.AmountIn {
		t.Errorf("amount_in on the wire = %d, want %d", got, quote.AmountIn)
	}
	if got := binary.LittleEndian.Uint64(ix.Data[9:]); got != quote.MinAmountOut {
		t.Errorf("min_out on the wire = %d, want %d", got, quote.MinAmountOut)
	}
}

func TestAdapterCreateSwapInstructionOrca(t *testing.T) {
	f := stub.NewAccountFetcher()
	fixture := defaultOrcaFixture()
	f.SetAccount("whirl1", domain.OrcaWhirlpoolProgramID, fixture.bytes())
	f.SetAccount(fixture.vaultA, domain.SPLTokenProgramID, tokenAccountBytes(1000))
	f.SetAccount(fixture.vaultB, domain.SPLTokenProgramID, tokenAccountBytes(100000))

	adapter, err := NewAdapter(AdapterOptions{
		Venue:      domain.VenueOrcaWhirlpool,
		Fetcher:    f,
		TokenAHint: solToken(),
		TokenBHint: usdcToken(),
	})
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}

	ctx := context.Background()
	quote, err := adapter.GetSwapQuote(ctx, "whirl1", 10, domain.WSOLMint)
	if err != nil {
		t.Fatalf("GetSwapQuote: %v", err)
	}

	ix, err := adapter.CreateSwapInstruction(ctx, quote, "trader1")
	if err != nil {
		t.Fatalf("CreateSwapInstruction: %v", err)
	}

	if len(ix.Data) != 42 {
		t.Fatalf("data length = %d, want 42", len(ix.Data))
	}
	if !bytes.Equal(ix.Data[:8], orcaSwapDiscriminator) {
		t.Errorf("discriminator = %x, want %x", ix.Data[:8], orcaSwapDiscriminator)
	}
	if got := binary.LittleEndian.Uint64(ix.Data[8:]); got != quote.AmountIn {
		t.Errorf("amount on the wire = %d, want %d", got, quote.AmountIn)
	}
	// sqrt_price_limit must stay all zero, amount_specified_is_input set,
	// a_to_b set for a SOL-in swap.
	if !bytes.Equal(ix.Data[24:40], make([]byte, 16)) {
		t.Errorf("sqrt_price_limit = %x, want zero", ix.Data[24:40])
	}
	if ix.Data[40] != 1 {
		t.Errorf("amount_specified_is_input = %d, want 1", ix.Data[40])
	}
	if ix.Data[41] != 1 {
		t.Errorf("a_to_b = %d, want 1", ix.Data[41])
	}
}

func TestAdapterCreateSwapInstructionRejectsForeignQuote(t *testing.T) {
	f := stub.NewAccountFetcher()
	adapter := newRaydiumAdapter(t, f, nil)

	quote := &domain.SwapQuote{Venue: domain.VenueOrcaWhirlpool, PoolAddress: "whirl1"}
	_, err := adapter.CreateSwapInstruction(context.Background(), quote, "trader1")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
