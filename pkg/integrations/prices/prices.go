// Package prices bundles the upstream feeds one refresh cycle reads from.
package prices

import (
	"strings"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/memcache"
	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/prices/binanceprices"
	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/prices/borsaprices"
	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/prices/foreksprices"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"
)

type Config struct {
	StocksURL string
	MarketURL string
	CryptoURL string
	Timeout   time.Duration
	SymbolTTL time.Duration
}

type Feeds struct {
	Stocks *foreksprices.PriceFetcher
	Market *borsaprices.PriceFetcher
	Crypto *binanceprices.PriceFetcher
}

// NewFeeds builds the three adapters. Empty fields keep each adapter's
// default.
func NewFeeds(cfg Config) *Feeds {
	stocks := foreksprices.NewPriceFetcher()
	market := borsaprices.NewPriceFetcher()

	if cfg.StocksURL != "" {
		stocks.BaseURL = strings.TrimRight(cfg.StocksURL, "/")
	}
	if cfg.MarketURL != "" {
		market.BaseURL = strings.TrimRight(cfg.MarketURL, "/")
	}
	if cfg.Timeout > 0 {
		stocks.Client.Timeout = cfg.Timeout
		market.Client.Timeout = cfg.Timeout
	}

	ttl := cfg.SymbolTTL
	if ttl <= 0 {
		ttl = binanceprices.DefaultCacheTTL
	}
	crypto := binanceprices.NewPriceFetcher(
		binanceprices.WithBaseURL(cfg.CryptoURL),
		binanceprices.WithTimeout(cfg.Timeout),
		binanceprices.WithSymbolCache(memcache.New[string, []prices.CryptoSymbol](memcache.WithTTL(ttl))),
	)

	return &Feeds{Stocks: stocks, Market: market, Crypto: crypto}
}

// Sources names the feeds in the order a refresh reports them.
func Sources() []string {
	return []string{prices.SourceForeks, prices.SourceBorsa, prices.SourceBinance}
}
