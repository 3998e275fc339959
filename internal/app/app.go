// Package app assembles the storage, profile and pricing components shared
// by the server and the command line tool.
package app

import (
	"log/slog"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/config"
	"github.com/ramazansancar/stock-cost-calculator/internal/ledger"
	"github.com/ramazansancar/stock-cost-calculator/internal/profile"
	"github.com/ramazansancar/stock-cost-calculator/internal/repo"
	"github.com/ramazansancar/stock-cost-calculator/internal/report"
	"github.com/ramazansancar/stock-cost-calculator/internal/service"
	"github.com/ramazansancar/stock-cost-calculator/pkg/database"
	"github.com/ramazansancar/stock-cost-calculator/pkg/id"
	"github.com/ramazansancar/stock-cost-calculator/pkg/identity"
	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/prices"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/pubsub"

	"github.com/pkg/errors"
)

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *database.Database
	Repo      *repo.Repository
	Identity  *identity.Provider
	Profiles  *profile.Store
	Ledger    *ledger.Ledger
	Book      *service.PriceBook
	Feeds     *prices.Feeds
	Refresh   *service.RefreshService
	Formatter report.Formatter
}

// New opens the database and initializes the profile store. publisher may
// be nil.
func New(cfg *config.Config, logger *slog.Logger, publisher pubsub.Publisher) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := database.New(database.WithLogger(logger), database.WithPath(cfg.Database.Path))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	a := &App{Config: cfg, Logger: logger, DB: db}

	if err := a.build(publisher); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(publisher pubsub.Publisher) error {
	var err error
	if a.Repo, err = repo.New(a.DB.Get()); err != nil {
		return err
	}
	if err := a.Repo.Migrate(); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	if keep := a.Config.Database.KeepImportLogs; keep > 0 {
		removed, err := a.Repo.PruneImportLogs(keep)
		if err != nil {
			return errors.Wrap(err, "failed to prune import logs")
		}
		if removed > 0 {
			a.Logger.Info("import logs pruned", "removed", removed, "kept", keep)
		}
	}

	a.Identity, err = identity.New(
		identity.WithStore(a.Repo),
		identity.WithLogger(a.Logger),
	)
	if err != nil {
		return err
	}

	a.Profiles, err = profile.New(
		profile.WithStore(a.Repo),
		profile.WithIdentity(a.Identity),
		profile.WithLogger(a.Logger),
	)
	if err != nil {
		return err
	}
	if err := a.Profiles.Initialize(); err != nil {
		return errors.Wrap(err, "failed to initialize profiles")
	}

	a.Ledger, err = ledger.New(
		ledger.WithProfiles(a.Profiles),
		ledger.WithIDGenerator(id.NewGenerator(time.Now)),
		ledger.WithLogger(a.Logger),
		ledger.WithImportRecorder(a.Repo),
		ledger.WithConfirmWord(a.Config.Ledger.ConfirmWord),
	)
	if err != nil {
		return err
	}

	a.Book = service.NewPriceBook(a.Config.Crypto.LocalRate)
	a.Feeds = prices.NewFeeds(prices.Config{
		StocksURL: a.Config.Feeds.StocksURL,
		MarketURL: a.Config.Feeds.MarketURL,
		CryptoURL: a.Config.Feeds.CryptoURL,
		Timeout:   a.Config.Feeds.Timeout,
		SymbolTTL: a.Config.Crypto.SymbolTTL,
	})

	a.Refresh, err = service.NewRefreshService(
		service.WithRefreshLogger(a.Logger),
		service.WithRefreshSource(a.Ledger),
		service.WithRefreshPriceBook(a.Book),
		service.WithRefreshStockFetcher(a.Feeds.Stocks),
		service.WithRefreshMarketFetcher(a.Feeds.Market),
		service.WithRefreshCryptoFetcher(a.Feeds.Crypto),
		service.WithRefreshPublisher(publisher),
		service.WithRefreshTimeout(a.Config.Feeds.Timeout*2),
	)
	if err != nil {
		return err
	}

	a.Formatter = report.NewFormatter(a.Config.Report.Currency)
	return nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
