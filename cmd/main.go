package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/ramazansancar/stock-cost-calculator/docs"
	"github.com/ramazansancar/stock-cost-calculator/internal/app"
	"github.com/ramazansancar/stock-cost-calculator/internal/config"
	"github.com/ramazansancar/stock-cost-calculator/internal/controller"
	"github.com/ramazansancar/stock-cost-calculator/internal/handler"
	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/service"
	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/wmPubsub"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/pubsub"
	"github.com/ramazansancar/stock-cost-calculator/pkg/utils"

	"github.com/gin-gonic/gin"
)

// @title Portfoy API
// @version 1.0
// @description Weighted average cost portfolio tracking API

// @host localhost:2008
// @BasePath /

func main() {
	if err := utils.LoadEnv(); err != nil {
		log.Fatal("Failed to load .env:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load(utils.GetEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := controller.NewHub(10)
	priceCh := make(chan []byte, 10)
	pricePublisher := wmPubsub.New(
		wmPubsub.WithChannel(priceCh),
		wmPubsub.WithContext(ctx),
		wmPubsub.WithTopic(pubsub.TopicPrices),
		wmPubsub.WithLogger(logger),
		wmPubsub.WithHandler(hub.Handle),
		wmPubsub.WithDropWhenFull(),
	)
	if err := pricePublisher.Subscribe(); err != nil {
		log.Fatal("Failed to start price subscriber:", err)
	}

	a, err := app.New(cfg, logger, pricePublisher)
	if err != nil {
		log.Fatal("Failed to initialize app:", err)
	}
	defer a.Close()

	autoRefresh, err := service.NewAutoRefresh(
		service.WithAutoRefreshContext(ctx),
		service.WithAutoRefreshLogger(logger),
		service.WithAutoRefreshStore(a.Repo),
		service.WithAutoRefreshSource(a.Ledger),
		service.WithRefresher(a.Refresh),
	)
	if err != nil {
		log.Fatal("Failed to create auto refresh:", err)
	}
	a.Ledger.OnChange(func([]models.Transaction) {
		if err := autoRefresh.Sync(); err != nil {
			logger.Error("failed to sync auto refresh", "error", err)
		}
	})

	ctrl, err := controller.New(
		controller.WithLedger(a.Ledger),
		controller.WithProfiles(a.Profiles),
		controller.WithImportLogs(a.Repo),
		controller.WithPriceBook(a.Book),
		controller.WithRefresher(a.Refresh),
		controller.WithSymbolLister(a.Feeds.Crypto),
		controller.WithAutoRefresh(autoRefresh),
		controller.WithFormatter(a.Formatter),
		controller.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("Failed to create controller:", err)
	}

	r := gin.Default()
	r.Static("/static", "./static")

	h, err := handler.New(
		handler.WithEngine(r),
		handler.WithController(ctrl),
		handler.WithPriceHub(hub),
		handler.WithSwagger(),
	)
	if err != nil {
		log.Fatal("Failed to create handler:", err)
	}
	if err := h.Setup(); err != nil {
		log.Fatal("Failed to setup routes:", err)
	}

	// prime the book so the first summary has prices
	go a.Refresh.Refresh(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down...")
		autoRefresh.Stop()
		cancel()
		a.Close()
		os.Exit(0)
	}()

	logger.Info("starting portfoy", "port", cfg.Server.Port, "db", cfg.Database.Path)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
