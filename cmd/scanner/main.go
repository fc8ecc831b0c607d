package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"solana-arb-scanner/internal/config"
	"solana-arb-scanner/internal/dexes"
	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/poolcache"
	"solana-arb-scanner/internal/report"
	"solana-arb-scanner/internal/scanner"
	"solana-arb-scanner/internal/solana"
)

func main() {
	root := &cobra.Command{
		Use:          "arb-scanner",
		Short:        "Cross-venue Solana AMM arbitrage scanner",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the configured pools once and print a report",
		RunE:  runScan,
	}

	scanCmd.Flags().String("rpc-url", "", "Solana RPC URL")
	scanCmd.Flags().Duration("rpc-timeout", 30*time.Second, "RPC request timeout")
	scanCmd.Flags().Float64("trade-amount", 1.0, "trade size in UI units of the base token")
	scanCmd.Flags().Uint32("slippage-bps", 100, "slippage tolerance in basis points")
	scanCmd.Flags().Int32("min-profit-bps", 50, "minimum margin to qualify an opportunity")
	scanCmd.Flags().Uint64("priority-fee", 5000, "priority fee in lamports")
	scanCmd.Flags().Uint64("rent-minimum", 2039280, "non-refundable rent in lamports")
	scanCmd.Flags().Int("concurrency", 4, "concurrent pair scans")
	scanCmd.Flags().Duration("scan-deadline", 30*time.Second, "overall scan deadline")
	scanCmd.Flags().Duration("cache-ttl", 2*time.Second, "pool cache TTL")
	scanCmd.Flags().StringSlice("pools", nil, "pool addresses (comma-separated)")
	scanCmd.Flags().String("out", "", "report output path, empty for stdout")
	scanCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(scanCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := solana.NewHTTPClient(cfg.RPCURL,
		solana.WithTimeout(cfg.RPCTimeout),
		solana.WithLogger(logger))
	cache := poolcache.New(cfg.CacheTTL)

	adapters, err := buildAdapters(cfg, fetcher, cache, logger)
	if err != nil {
		return err
	}

	tradeAmount := cfg.TradeAmount()
	s, err := scanner.New(scanner.Options{
		Adapters:    adapters,
		VenueTable:  cfg.VenueTable,
		TradeAmount: tradeAmount.Value,
		PriorityFee: cfg.PriorityFee,
		RentFee:     cfg.RentMinimum,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	logger.Info("scan start",
		zap.String("rpc", cfg.RPCURL),
		zap.Int("pools", len(cfg.Pools)),
		zap.Float64("trade_amount_ui", cfg.TradeAmountUI),
		zap.Uint64("trade_amount", tradeAmount.Value),
		zap.Uint32("slippage_bps", cfg.SlippageBps),
		zap.Int32("min_profit_bps", cfg.MinProfitBps),
		zap.Int("concurrency", cfg.Concurrency))

	scanCtx := ctx
	if cfg.ScanDeadline > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, cfg.ScanDeadline)
		defer cancel()
	}

	result, err := s.Scan(scanCtx, cfg.Pools)
	if err != nil {
		return err
	}

	rep := report.Build(result, report.Options{
		TradeAmount:  tradeAmount.Value,
		SlippageBps:  cfg.SlippageBps,
		MinProfitBps: cfg.MinProfitBps,
		PriorityFee:  cfg.PriorityFee,
		RentFee:      cfg.RentMinimum,
	})

	out, closeOut, err := reportWriter(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	return rep.Write(out)
}

func buildAdapters(cfg config.Config, fetcher solana.AccountFetcher, cache *poolcache.Cache, logger *zap.Logger) ([]scanner.VenueAdapter, error) {
	programIDs := map[domain.Venue]string{
		domain.VenueRaydiumV4:     cfg.RaydiumProgramID,
		domain.VenueOrcaWhirlpool: cfg.OrcaProgramID,
	}

	var adapters []scanner.VenueAdapter
	for _, venue := range domain.Venues() {
		adapter, err := dexes.NewAdapter(dexes.AdapterOptions{
			Venue:       venue,
			ProgramID:   programIDs[venue],
			Fetcher:     fetcher,
			Cache:       cache,
			TokenAHint:  cfg.BaseTokenHint(),
			TokenBHint:  cfg.QuoteTokenHint(),
			SlippageBps: cfg.SlippageBps,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("adapter for %s: %w", venue, err)
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}

func reportWriter(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("out")
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create report file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
