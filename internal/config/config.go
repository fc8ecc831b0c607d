// Package config loads and validates scanner configuration. Values merge
// from a config file, ARB_-prefixed environment variables, and flags; the
// result is an immutable struct passed into constructors, never a global.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"solana-arb-scanner/internal/domain"
)

// TokenHint carries the externally supplied identity of one pool token.
type TokenHint struct {
	Mint     string
	Symbol   string
	Decimals uint8
}

// Config holds every setting the scanner pipeline needs.
type Config struct {
	RPCURL     string
	RPCTimeout time.Duration

	// TradeAmountUI is the fixed trade size in UI units of the base token,
	// converted to smallest units with the base token's decimals.
	TradeAmountUI float64
	BaseToken     TokenHint
	QuoteToken    TokenHint

	SlippageBps  uint32
	MinProfitBps int32
	PriorityFee  uint64 // lamports
	RentMinimum  uint64 // lamports

	Concurrency  int
	ScanDeadline time.Duration
	CacheTTL     time.Duration

	Pools      []string
	VenueTable map[string]domain.Venue

	// Program ID overrides; empty means the venue's mainnet program.
	RaydiumProgramID string
	OrcaProgramID    string

	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ARB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc-timeout", 30*time.Second)
	v.SetDefault("trade-amount", 1.0)
	v.SetDefault("base-token.mint", domain.WSOLMint)
	v.SetDefault("base-token.symbol", "SOL")
	v.SetDefault("base-token.decimals", 9)
	v.SetDefault("quote-token.mint", domain.USDCMint)
	v.SetDefault("quote-token.symbol", "USDC")
	v.SetDefault("quote-token.decimals", 6)
	v.SetDefault("slippage-bps", 100)
	v.SetDefault("min-profit-bps", 50)
	v.SetDefault("priority-fee", 5000)
	v.SetDefault("rent-minimum", 2039280)
	v.SetDefault("concurrency", 4)
	v.SetDefault("scan-deadline", 30*time.Second)
	v.SetDefault("cache-ttl", 2*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	venueTable, err := parseVenueTable(v.GetStringMapString("venue-table"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:        v.GetString("rpc-url"),
		RPCTimeout:    v.GetDuration("rpc-timeout"),
		TradeAmountUI: v.GetFloat64("trade-amount"),
		BaseToken: TokenHint{
			Mint:     v.GetString("base-token.mint"),
			Symbol:   v.GetString("base-token.symbol"),
			Decimals: uint8(v.GetUint("base-token.decimals")),
		},
		QuoteToken: TokenHint{
			Mint:     v.GetString("quote-token.mint"),
			Symbol:   v.GetString("quote-token.symbol"),
			Decimals: uint8(v.GetUint("quote-token.decimals")),
		},
		SlippageBps:      uint32(v.GetUint("slippage-bps")),
		MinProfitBps:     v.GetInt32("min-profit-bps"),
		PriorityFee:      v.GetUint64("priority-fee"),
		RentMinimum:      v.GetUint64("rent-minimum"),
		Concurrency:      v.GetInt("concurrency"),
		ScanDeadline:     v.GetDuration("scan-deadline"),
		CacheTTL:         v.GetDuration("cache-ttl"),
		Pools:            v.GetStringSlice("pools"),
		VenueTable:       venueTable,
		RaydiumProgramID: v.GetString("raydium-program-id"),
		OrcaProgramID:    v.GetString("orca-program-id"),
		LogLevel:         v.GetString("log-level"),
	}

	return cfg, nil
}

func parseVenueTable(raw map[string]string) (map[string]domain.Venue, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	table := make(map[string]domain.Venue, len(raw))
	for address, name := range raw {
		venue, err := domain.ParseVenue(name)
		if err != nil {
			return nil, fmt.Errorf("venue table entry %s: %w", address, err)
		}
		table[address] = venue
	}
	return table, nil
}

// Validate checks every invariant the pipeline depends on.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("config: rpc-url is required")
	}
	if c.TradeAmountUI <= 0 {
		return fmt.Errorf("config: trade-amount must be positive, got %v", c.TradeAmountUI)
	}
	if c.SlippageBps > 10000 {
		return fmt.Errorf("config: slippage-bps %d exceeds 10000", c.SlippageBps)
	}
	if len(c.Pools) < 2 {
		return fmt.Errorf("config: at least two pool addresses are required, got %d", len(c.Pools))
	}
	if c.BaseToken.Mint == "" || c.QuoteToken.Mint == "" {
		return fmt.Errorf("config: base and quote token mints are required")
	}
	if c.BaseToken.Mint == c.QuoteToken.Mint {
		return fmt.Errorf("config: base and quote tokens must differ")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config: concurrency must not be negative")
	}
	return nil
}

// TradeAmount converts the UI trade size into smallest units of the base
// token. The only float-to-integer crossing in the pipeline.
func (c Config) TradeAmount() domain.Amount {
	return domain.FromUI(c.TradeAmountUI, c.BaseToken.Decimals)
}

// BaseTokenHint returns the base token as a domain value.
func (c Config) BaseTokenHint() domain.Token {
	return domain.Token{Mint: c.BaseToken.Mint, Symbol: c.BaseToken.Symbol, Decimals: c.BaseToken.Decimals}
}

// QuoteTokenHint returns the quote token as a domain value.
func (c Config) QuoteTokenHint() domain.Token {
	return domain.Token{Mint: c.QuoteToken.Mint, Symbol: c.QuoteToken.Symbol, Decimals: c.QuoteToken.Decimals}
}
