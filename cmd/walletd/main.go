// Command walletd serves the wallet HTTP API for one local keystore.
//
//	@title		Goldium Wallet API
//	@version	1.0
//	@BasePath	/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/api"
	"github.com/AlexZinkM/goldium-wallet/internal/assets"
	"github.com/AlexZinkM/goldium-wallet/internal/balance"
	"github.com/AlexZinkM/goldium-wallet/internal/client"
	"github.com/AlexZinkM/goldium-wallet/internal/config"
	"github.com/AlexZinkM/goldium-wallet/internal/handler"
	"github.com/AlexZinkM/goldium-wallet/internal/history"
	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/notify"
	"github.com/AlexZinkM/goldium-wallet/internal/scheduler"
	"github.com/AlexZinkM/goldium-wallet/internal/swap"
	"github.com/AlexZinkM/goldium-wallet/internal/transfer"
	"github.com/AlexZinkM/goldium-wallet/internal/wallet"
	"github.com/AlexZinkM/goldium-wallet/solana"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	historyLoadLimit  = 500
	shutdownTimeout   = 10 * time.Second
	aggregatorTimeout = 15 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, using environment")
	}

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Get()

	logger.InitLogger(cfg.Stage, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if err := config.PromptForPassword(); err != nil {
		logger.Fatal("failed to read password", zap.Error(err))
	}

	registry, err := loadAssets(cfg)
	if err != nil {
		logger.Fatal("failed to load asset list", zap.Error(err))
	}

	ledger := client.NewSolanaClient(config.GetSolanaRPCURL())
	aggregator := client.NewJupiterClient(cfg.JupiterAPIURL, cfg.JupiterRateLimit,
		client.WithHTTPClient(&http.Client{Timeout: aggregatorTimeout}))

	poller := scheduler.NewPoller()
	poller.Start()
	defer poller.Stop()

	feed := notify.NewFeed(0)
	notifier := notify.Multi{notify.LogNotifier{}, feed}

	store := history.NewStore(openRecorder(cfg.HistoryDBPath))
	defer store.Close()
	if err := store.Load(historyLoadLimit); err != nil {
		logger.Warn("failed to load transfer history", zap.Error(err))
	}

	balances := balance.New(ledger, registry, poller, notifier, balance.Options{
		PollInterval: cfg.BalancePollInterval,
	})
	session := wallet.NewSession(balances)

	svc := solana.NewService(solana.Deps{
		KeystorePath: config.GetSolanaFilePath(),
		Assets:       registry,
		Aggregator:   aggregator,
		Session:      session,
		Balances:     balances,
		Transfers: transfer.New(ledger, session, balances, store, notifier, registry, transfer.Options{
			ConfirmTimeout: cfg.ConfirmTimeout,
			SettleDelay:    cfg.RefreshSettleDelay,
		}),
		Swaps: swap.New(aggregator, ledger, session, balances, store, notifier, registry, swap.Options{
			ConfirmTimeout:           cfg.ConfirmTimeout,
			SettleDelay:              cfg.RefreshSettleDelay,
			DefaultSlippageBps:       cfg.DefaultSlippageBps,
			PriorityFeeMicroLamports: cfg.PriorityFeeMicroLamports,
		}),
		History:  store,
		Feed:     feed,
		Notifier: notifier,
	}, cfg.QuoteDebounce)
	defer svc.Close()

	server := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           api.SetupRouter(handler.NewWalletHandler(svc, nil)),
		ReadHeaderTimeout: 20 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting",
			zap.String("port", config.GetPort()),
			zap.String("network", config.GetNetwork()),
			zap.String("rpc", config.GetSolanaRPCURL()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}

func loadAssets(cfg *config.Config) (*assets.Registry, error) {
	if cfg.AssetsFile != "" {
		return assets.Load(cfg.Network, cfg.AssetsFile)
	}
	return assets.Default(cfg.Network)
}

// openRecorder falls back to in-memory history when the database cannot be opened
func openRecorder(path string) history.Recorder {
	if path == "" {
		return history.NewNoopRecorder()
	}
	rec, err := history.NewSQLiteRecorder(path)
	if err != nil {
		logger.Warn("failed to open history database, using noop", zap.String("path", path), zap.Error(err))
		return history.NewNoopRecorder()
	}
	logger.Info("transfer history persisted", zap.String("path", path))
	return rec
}
