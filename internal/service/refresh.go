package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/pubsub"

	"github.com/pkg/errors"
)

var ErrInvalidRefreshConfig = errors.New("invalid refresh service config")

// TransactionSource yields the log whose assets need prices.
type TransactionSource interface {
	Transactions() []models.Transaction
}

type RefreshService struct {
	logger    *slog.Logger
	source    TransactionSource
	book      *PriceBook
	stocks    prices.StockFetcher
	market    prices.MarketFetcher
	crypto    prices.CryptoFetcher
	publisher pubsub.Publisher
	timeout   time.Duration
	now       func() time.Time
}

type RefreshOption func(*RefreshService)

func WithRefreshLogger(l *slog.Logger) RefreshOption {
	return func(s *RefreshService) {
		s.logger = l
	}
}

func WithRefreshSource(src TransactionSource) RefreshOption {
	return func(s *RefreshService) {
		s.source = src
	}
}

func WithRefreshPriceBook(b *PriceBook) RefreshOption {
	return func(s *RefreshService) {
		s.book = b
	}
}

func WithRefreshStockFetcher(f prices.StockFetcher) RefreshOption {
	return func(s *RefreshService) {
		s.stocks = f
	}
}

func WithRefreshMarketFetcher(f prices.MarketFetcher) RefreshOption {
	return func(s *RefreshService) {
		s.market = f
	}
}

func WithRefreshCryptoFetcher(f prices.CryptoFetcher) RefreshOption {
	return func(s *RefreshService) {
		s.crypto = f
	}
}

// WithRefreshPublisher is optional; without it refreshed quotes are only
// kept in the price book.
func WithRefreshPublisher(p pubsub.Publisher) RefreshOption {
	return func(s *RefreshService) {
		s.publisher = p
	}
}

// WithRefreshTimeout bounds one whole refresh cycle.
func WithRefreshTimeout(d time.Duration) RefreshOption {
	return func(s *RefreshService) {
		s.timeout = d
	}
}

func WithRefreshClock(now func() time.Time) RefreshOption {
	return func(s *RefreshService) {
		s.now = now
	}
}

func (s *RefreshService) IsValid() error {
	switch {
	case s.logger == nil:
		return errors.Wrap(ErrInvalidRefreshConfig, "logger cannot be nil")
	case s.source == nil:
		return errors.Wrap(ErrInvalidRefreshConfig, "source cannot be nil")
	case s.book == nil:
		return errors.Wrap(ErrInvalidRefreshConfig, "price book cannot be nil")
	case s.stocks == nil:
		return errors.Wrap(ErrInvalidRefreshConfig, "stock fetcher cannot be nil")
	case s.market == nil:
		return errors.Wrap(ErrInvalidRefreshConfig, "market fetcher cannot be nil")
	case s.crypto == nil:
		return errors.Wrap(ErrInvalidRefreshConfig, "crypto fetcher cannot be nil")
	default:
		return nil
	}
}

func NewRefreshService(opts ...RefreshOption) (*RefreshService, error) {
	s := &RefreshService{
		timeout: 30 * time.Second,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RefreshService) PriceBook() *PriceBook {
	return s.book
}

type RefreshResult struct {
	UpdatedAt time.Time         `json:"updatedAt"`
	Feeds     []string          `json:"feeds"`
	Failures  map[string]string `json:"failures,omitempty"`
}

// OK reports whether every requested feed succeeded.
func (r RefreshResult) OK() bool {
	return len(r.Failures) == 0
}

// needs lists what the log requires from each feed.
type needs struct {
	stocks []string
	market bool
	crypto []string
}

func collectNeeds(transactions []models.Transaction) needs {
	var n needs
	stocks := map[string]struct{}{}
	crypto := map[string]struct{}{}
	for _, tx := range transactions {
		switch tx.AssetType {
		case models.AssetStock:
			if _, ok := stocks[tx.Symbol]; !ok {
				stocks[tx.Symbol] = struct{}{}
				n.stocks = append(n.stocks, tx.Symbol)
			}
		case models.AssetCurrency, models.AssetGold, models.AssetBank:
			n.market = true
		case models.AssetCrypto:
			if _, ok := crypto[tx.SymbolName]; !ok {
				crypto[tx.SymbolName] = struct{}{}
				n.crypto = append(n.crypto, tx.SymbolName)
			}
		}
	}
	return n
}

// Refresh fetches every feed the active log needs concurrently and waits for
// all of them. A failing feed is reported and logged; the others still land
// in the price book.
func (s *RefreshService) Refresh(ctx context.Context) RefreshResult {
	n := collectNeeds(s.source.Transactions())
	res := RefreshResult{Feeds: []string{}}
	if len(n.stocks) == 0 && !n.market && len(n.crypto) == 0 {
		return res
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures = map[string]string{}
	)
	run := func(source string, fetch func() error) {
		res.Feeds = append(res.Feeds, source)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				s.logger.Warn("price feed failed", "source", source, "error", err)
				mu.Lock()
				failures[source] = err.Error()
				mu.Unlock()
			}
		}()
	}

	if len(n.stocks) > 0 {
		run(prices.SourceForeks, func() error {
			quotes, err := s.stocks.FetchStocks(ctx, n.stocks...)
			if err != nil {
				return err
			}
			s.book.SetStocks(quotes, s.now())
			return nil
		})
	}
	if n.market {
		run(prices.SourceBorsa, func() error {
			quotes, err := s.market.FetchMarket(ctx)
			if err != nil {
				return err
			}
			s.book.SetMarket(quotes, s.now())
			return nil
		})
	}
	if len(n.crypto) > 0 {
		run(prices.SourceBinance, func() error {
			quotes, err := s.crypto.FetchCrypto(ctx, n.crypto...)
			if err != nil {
				return err
			}
			s.book.SetCrypto(quotes, s.now())
			return nil
		})
	}
	wg.Wait()

	sort.Strings(res.Feeds)
	res.UpdatedAt = s.now()
	if len(failures) > 0 {
		res.Failures = failures
	}

	if len(failures) < len(res.Feeds) {
		s.publish()
	}
	s.logger.Debug("prices refreshed", "feeds", res.Feeds, "failures", len(failures))
	return res
}

func (s *RefreshService) publish() {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(s.book.Quotes())
	if err != nil {
		s.logger.Error("failed to marshal prices", "error", err)
		return
	}
	if err := s.publisher.Publish(data); err != nil {
		s.logger.Warn("failed to publish prices", "error", err)
	}
}
