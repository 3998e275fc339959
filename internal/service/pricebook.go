package service

import (
	"maps"
	"sync"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"
)

var _ prices.Lookup = (*PriceBook)(nil)

// DefaultCryptoRate converts quote-asset crypto prices to local currency.
const DefaultCryptoRate = 34.0

// PriceBook holds the latest price per slot. Every write replaces only the
// slots it carries; the last completed write wins.
type PriceBook struct {
	mu         sync.RWMutex
	cryptoRate float64
	stocks     map[string]prices.StockQuote
	currencies map[string]prices.CurrencyQuote
	gold       map[string]prices.GoldQuote
	bank       map[string]prices.BankQuote
	crypto     map[string]float64
	updatedAt  time.Time
}

func NewPriceBook(cryptoRate float64) *PriceBook {
	if cryptoRate <= 0 {
		cryptoRate = DefaultCryptoRate
	}
	return &PriceBook{
		cryptoRate: cryptoRate,
		stocks:     map[string]prices.StockQuote{},
		currencies: map[string]prices.CurrencyQuote{},
		gold:       map[string]prices.GoldQuote{},
		bank:       map[string]prices.BankQuote{},
		crypto:     map[string]float64{},
	}
}

func (b *PriceBook) CryptoRate() float64 {
	return b.cryptoRate
}

func (b *PriceBook) SetStocks(quotes map[string]prices.StockQuote, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range quotes {
		b.stocks[k] = v
	}
	b.touch(at)
}

func (b *PriceBook) SetMarket(m *prices.MarketQuotes, at time.Time) {
	if m == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range m.Currencies {
		b.currencies[k] = v
	}
	for k, v := range m.Gold {
		b.gold[k] = v
	}
	for k, v := range m.Bank {
		b.bank[k] = v
	}
	b.touch(at)
}

func (b *PriceBook) SetCrypto(quotes map[string]float64, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, v := range quotes {
		b.crypto[k] = v
	}
	b.touch(at)
}

// touch must be called with the write lock held.
func (b *PriceBook) touch(at time.Time) {
	if at.After(b.updatedAt) {
		b.updatedAt = at
	}
}

// CurrentPrice returns the local-currency unit price for tx, 0 when unknown.
func (b *PriceBook) CurrentPrice(tx models.Transaction) float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	switch tx.AssetType {
	case models.AssetStock:
		return b.stocks[tx.Symbol].Last
	case models.AssetCurrency:
		return b.currencies[tx.Symbol].Value
	case models.AssetGold:
		return b.gold[tx.Symbol].Buy
	case models.AssetBank:
		return b.bank[tx.Symbol].Buy
	case models.AssetCrypto:
		return b.crypto[tx.SymbolName] * b.cryptoRate
	default:
		return 0
	}
}

// Quotes is a copy of the book, as published to stream clients.
type Quotes struct {
	Stocks     map[string]prices.StockQuote    `json:"stocks"`
	Currencies map[string]prices.CurrencyQuote `json:"currencies"`
	Gold       map[string]prices.GoldQuote     `json:"gold"`
	Bank       map[string]prices.BankQuote     `json:"bank"`
	Crypto     map[string]float64              `json:"crypto"`
	CryptoRate float64                         `json:"cryptoRate"`
	UpdatedAt  time.Time                       `json:"updatedAt"`
}

func (b *PriceBook) Quotes() Quotes {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Quotes{
		Stocks:     maps.Clone(b.stocks),
		Currencies: maps.Clone(b.currencies),
		Gold:       maps.Clone(b.gold),
		Bank:       maps.Clone(b.bank),
		Crypto:     maps.Clone(b.crypto),
		CryptoRate: b.cryptoRate,
		UpdatedAt:  b.updatedAt,
	}
}
