package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/ledger"
	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/report"
	"github.com/ramazansancar/stock-cost-calculator/internal/service"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"
	repotypes "github.com/ramazansancar/stock-cost-calculator/pkg/types/repo"
)

// ProfileReader is the read side of the profile store.
type ProfileReader interface {
	ActiveID() string
	OwnerID() string
	Profiles() []models.Profile
	Profile(id string) (models.Profile, bool)
}

type ImportLogReader interface {
	ListImportLogs(filter repotypes.ImportLogFilter) ([]models.ImportLog, error)
	GetImportLogByID(id int64) (*models.ImportLog, error)
}

type Refresher interface {
	Refresh(ctx context.Context) service.RefreshResult
}

// SymbolLister lists the tradable crypto pairs.
type SymbolLister interface {
	Symbols(ctx context.Context) ([]prices.CryptoSymbol, error)
}

type AutoRefresh interface {
	Settings() service.RefreshSettings
	SetEnabled(enabled bool) error
	SetInterval(seconds int) error
}

type Controller struct {
	ledger      *ledger.Ledger
	profiles    ProfileReader
	imports     ImportLogReader
	book        *service.PriceBook
	refresher   Refresher
	symbols     SymbolLister
	autoRefresh AutoRefresh
	formatter   report.Formatter
	logger      *slog.Logger
	now         func() time.Time
}

type Option func(*Controller)

func WithLedger(l *ledger.Ledger) Option {
	return func(c *Controller) {
		c.ledger = l
	}
}

func WithProfiles(p ProfileReader) Option {
	return func(c *Controller) {
		c.profiles = p
	}
}

func WithImportLogs(l ImportLogReader) Option {
	return func(c *Controller) {
		c.imports = l
	}
}

func WithPriceBook(b *service.PriceBook) Option {
	return func(c *Controller) {
		c.book = b
	}
}

func WithRefresher(r Refresher) Option {
	return func(c *Controller) {
		c.refresher = r
	}
}

func WithSymbolLister(s SymbolLister) Option {
	return func(c *Controller) {
		c.symbols = s
	}
}

func WithAutoRefresh(a AutoRefresh) Option {
	return func(c *Controller) {
		c.autoRefresh = a
	}
}

func WithFormatter(f report.Formatter) Option {
	return func(c *Controller) {
		c.formatter = f
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func (c *Controller) IsValid() error {
	switch {
	case c.ledger == nil:
		return ErrNilLedger
	case c.profiles == nil:
		return ErrNilProfiles
	case c.book == nil:
		return ErrNilPriceBook
	case c.logger == nil:
		return ErrNilLogger
	default:
		return nil
	}
}

// New requires a ledger, the profile store, a price book and a logger. The
// refresher, symbol lister, auto refresh and import log reader are optional;
// their endpoints answer 503 without them.
func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		formatter: report.NewFormatter(report.DefaultCurrency),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.IsValid(); err != nil {
		return nil, err
	}
	return c, nil
}
