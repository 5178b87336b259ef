package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/saasradar/saasradar/internal/api"
	"github.com/saasradar/saasradar/internal/cli"
	"github.com/saasradar/saasradar/internal/config"
	"github.com/saasradar/saasradar/internal/fetcher"
	"github.com/saasradar/saasradar/internal/logger"
	"github.com/saasradar/saasradar/internal/notify"
	"github.com/saasradar/saasradar/internal/scoring"
	"github.com/saasradar/saasradar/internal/storage"
	"github.com/saasradar/saasradar/internal/worker"
)

func main() {
	once := flag.Bool("once", false, "run a single discovery pass and exit")
	hashPassword := flag.Bool("hash-password", false, "print a bcrypt hash for API auth and exit")
	flag.Parse()

	if *hashPassword {
		cli.HandleHashPassword()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}

	zlog, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalln(err)
	}
	defer zlog.Sync()

	store, err := storage.Open(zlog, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	defer store.Close()

	backends := []fetcher.Scraper{
		fetcher.NewGatewayClient(zlog, fetcher.GatewayConfig{
			AccountsFile:   cfg.AccountsFile,
			RateLimitDelay: cfg.RateLimitDelay,
		}),
		fetcher.NewHarvestClient(zlog, fetcher.HarvestConfig{
			APIToken: cfg.HarvestToken,
		}),
	}
	if cfg.BrowserEnabled {
		backends = append(backends, fetcher.NewBrowserClient(zlog, fetcher.BrowserConfig{
			Workers: cfg.BrowserWorkers,
		}))
	}

	manager := fetcher.NewManager(zlog, cfg.RequestTimeout, backends...)

	initCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := manager.Initialize(initCtx); err != nil {
		cancel()
		zlog.Fatal("no acquisition backend available", zap.Error(err))
	}
	cancel()
	defer manager.Close()

	notifier, err := notify.New(zlog, cfg.DiscordWebhookID, cfg.DiscordWebhookToken, cfg.NotifyMinScore)
	if err != nil {
		zlog.Fatal("failed to set up notifications", zap.Error(err))
	}

	scorer := scoring.NewScorer(cfg.Thresholds)
	w := worker.NewWorker(zlog, manager, scorer, store, notifier, cfg)

	if *once {
		w.DiscoverAll()
		if _, _, err := w.LastRun(); err != nil {
			zlog.Fatal("discovery failed", zap.Error(err))
		}
		return
	}

	w.Start(cfg.ScrapeInterval)
	defer w.Stop()

	// First pass right away instead of waiting a full interval.
	go w.DiscoverAll()

	router := api.NewRouter(&api.Handler{
		Log:     zlog,
		Store:   store,
		Manager: manager,
		Worker:  w,
		Config:  cfg,
	})

	zlog.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := router.Run(cfg.ListenAddr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
