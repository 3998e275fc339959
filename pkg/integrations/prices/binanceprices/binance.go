package binanceprices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/memcache"
	"github.com/ramazansancar/stock-cost-calculator/pkg/pairs"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/cache"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"
)

var (
	_ prices.CryptoFetcher = (*PriceFetcher)(nil)
)

const (
	DefaultBaseURL  = "https://api.binance.com/api/v3"
	DefaultCacheTTL = 5 * time.Minute

	symbolsKey = "symbols"
)

type PriceFetcher struct {
	BaseURL string
	Client  *http.Client

	symbols cache.Cache[string, []prices.CryptoSymbol]
}

type Option func(*PriceFetcher)

func WithBaseURL(url string) Option {
	return func(p *PriceFetcher) {
		if url != "" {
			p.BaseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(p *PriceFetcher) {
		if d > 0 {
			p.Client = &http.Client{Timeout: d}
		}
	}
}

func WithSymbolCache(c cache.Cache[string, []prices.CryptoSymbol]) Option {
	return func(p *PriceFetcher) {
		p.symbols = c
	}
}

func NewPriceFetcher(opts ...Option) *PriceFetcher {
	p := &PriceFetcher{
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.symbols == nil {
		p.symbols = memcache.New[string, []prices.CryptoSymbol](memcache.WithTTL(DefaultCacheTTL))
	}
	return p
}

func (b *PriceFetcher) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (b *PriceFetcher) tickers(ctx context.Context) (map[string]float64, error) {
	var results []pairs.Pair
	if err := b.get(ctx, "/ticker/price", &results); err != nil {
		return nil, err
	}
	return pairs.PairMap(results), nil
}

// FetchCrypto returns the USDT price of each requested pair's base asset,
// keyed by the pair as given. Pairs with no market, direct or bridged, are
// left out.
func (b *PriceFetcher) FetchCrypto(ctx context.Context, symbols ...string) (map[string]float64, error) {
	all, err := b.tickers(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		pair := strings.ToUpper(strings.TrimSpace(symbol))
		if price, err := pairs.InQuote(pair, all); err == nil {
			out[symbol] = price
		}
	}
	return out, nil
}

type exchangeInfo struct {
	Symbols []struct {
		Symbol               string `json:"symbol"`
		BaseAsset            string `json:"baseAsset"`
		QuoteAsset           string `json:"quoteAsset"`
		Status               string `json:"status"`
		IsSpotTradingAllowed bool   `json:"isSpotTradingAllowed"`
	} `json:"symbols"`
}

// Symbols lists spot pairs quoted in USDT that are trading, with their last
// price. The list is cached for the configured TTL.
func (b *PriceFetcher) Symbols(ctx context.Context) ([]prices.CryptoSymbol, error) {
	if cached, ok := b.symbols.Get(symbolsKey); ok {
		return cached, nil
	}

	var info exchangeInfo
	if err := b.get(ctx, "/exchangeInfo", &info); err != nil {
		return nil, err
	}
	all, err := b.tickers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]prices.CryptoSymbol, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.QuoteAsset != pairs.Quote || s.Status != "TRADING" || !s.IsSpotTradingAllowed {
			continue
		}
		out = append(out, prices.CryptoSymbol{
			Symbol:     s.Symbol,
			BaseAsset:  s.BaseAsset,
			QuoteAsset: s.QuoteAsset,
			Status:     s.Status,
			Price:      formatPrice(all[s.Symbol]),
		})
	}

	b.symbols.Set(symbolsKey, out)
	return out, nil
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%g", v)
}
