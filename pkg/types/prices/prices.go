package prices

import (
	"context"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
)

const (
	SourceForeks  = "foreks"
	SourceBorsa   = "borsa"
	SourceBinance = "binance"
)

// Lookup returns the current unit price of a transaction's asset in local
// currency, or 0 when no price is known. It must not panic.
type Lookup interface {
	CurrentPrice(tx models.Transaction) float64
}

type LookupFunc func(tx models.Transaction) float64

func (f LookupFunc) CurrentPrice(tx models.Transaction) float64 {
	return f(tx)
}

type StockQuote struct {
	Symbol             string  `json:"symbol"`
	Last               float64 `json:"last"`
	DailyChange        float64 `json:"dailyChange"`
	DailyChangePercent float64 `json:"dailyChangePercent"`
}

type CurrencyQuote struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type GoldQuote struct {
	Name string  `json:"name"`
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

type BankQuote struct {
	CurrencyCode string  `json:"currencyCode"`
	Name         string  `json:"name"`
	Buy          float64 `json:"buy"`
	Sell         float64 `json:"sell"`
	Change       float64 `json:"change"`
}

// MarketQuotes is one response of the combined currency/gold/bank feed.
type MarketQuotes struct {
	Currencies map[string]CurrencyQuote `json:"currencies"`
	Gold       map[string]GoldQuote     `json:"gold"`
	Bank       map[string]BankQuote     `json:"bank"`
}

type CryptoSymbol struct {
	Symbol     string `json:"symbol"`
	BaseAsset  string `json:"baseAsset"`
	QuoteAsset string `json:"quoteAsset"`
	Status     string `json:"status"`
	Price      string `json:"price"`
}

type StockFetcher interface {
	FetchStocks(ctx context.Context, symbols ...string) (map[string]StockQuote, error)
}

type MarketFetcher interface {
	FetchMarket(ctx context.Context) (*MarketQuotes, error)
}

// CryptoFetcher returns quote-asset prices keyed by exchange pair (e.g. BTCUSDT).
type CryptoFetcher interface {
	FetchCrypto(ctx context.Context, pairs ...string) (map[string]float64, error)
}
