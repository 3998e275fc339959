// Package valuation derives position summaries and portfolio totals from a
// transaction log using weighted-average cost. All functions are pure and
// total: missing prices, empty logs and over-sold positions yield zeros.
package valuation

import (
	"math"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"
)

type position struct {
	first    models.Transaction
	quantity float64
	cost     float64
}

// apply folds one transaction into the running position. A sell removes cost
// at the pre-sell average, or nothing when there is no positive holding.
func (p *position) apply(tx models.Transaction) {
	switch tx.Type {
	case models.TradeBuy:
		p.quantity += tx.Quantity
		p.cost += tx.Quantity * tx.Price
	case models.TradeSell:
		if p.quantity > 0 {
			p.cost -= tx.Quantity * (p.cost / p.quantity)
		}
		p.quantity -= tx.Quantity
	}
}

// group partitions transactions by position key, preserving both the order
// keys first appear in and the order within each key.
func group(transactions []models.Transaction) []*position {
	index := make(map[models.PositionKey]*position)
	var ordered []*position
	for _, tx := range transactions {
		key := tx.Key()
		p, ok := index[key]
		if !ok {
			p = &position{first: tx}
			index[key] = p
			ordered = append(ordered, p)
		}
		p.apply(tx)
	}
	return ordered
}

// Summarize returns one summary per position key. A nil lookup prices
// everything at zero.
func Summarize(transactions []models.Transaction, lookup prices.Lookup) []models.PositionSummary {
	groups := group(transactions)
	out := make([]models.PositionSummary, 0, len(groups))
	for _, p := range groups {
		s := models.PositionSummary{
			Symbol:        p.first.Symbol,
			SymbolDetails: p.first.SymbolDetails,
			AssetType:     p.first.AssetType,
			TotalQuantity: p.quantity,
			TotalCost:     p.cost,
		}
		if p.quantity > 0 {
			s.AverageCost = p.cost / p.quantity
		}

		s.CurrentPrice = currentPrice(lookup, p.first)
		s.MarketValue = s.TotalQuantity * s.CurrentPrice
		s.ProfitLoss = s.MarketValue - s.TotalCost
		s.ProfitLossPercentage = percentage(s.ProfitLoss, s.TotalCost)
		out = append(out, s)
	}
	return out
}

func currentPrice(lookup prices.Lookup, tx models.Transaction) float64 {
	if lookup == nil {
		return 0
	}
	price := lookup.CurrentPrice(tx)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return price
}

func percentage(profitLoss, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	pct := profitLoss / cost * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

// ActiveHoldings keeps the summaries with a positive quantity.
func ActiveHoldings(summaries []models.PositionSummary) []models.PositionSummary {
	out := make([]models.PositionSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.TotalQuantity > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Aggregate totals the active holdings. TransactionCount is left to the
// caller since summaries do not carry it.
func Aggregate(summaries []models.PositionSummary) models.Totals {
	var t models.Totals
	for _, s := range ActiveHoldings(summaries) {
		t.MarketValue += s.MarketValue
		t.TotalCost += s.TotalCost
		t.ProfitLoss += s.ProfitLoss
	}
	t.ProfitLossPercentage = percentage(t.ProfitLoss, t.TotalCost)
	return t
}

// Portfolio is the full valuation of one log.
type Portfolio struct {
	Positions []models.PositionSummary `json:"positions"`
	Holdings  []models.PositionSummary `json:"holdings"`
	Totals    models.Totals            `json:"totals"`
}

func Value(transactions []models.Transaction, lookup prices.Lookup) Portfolio {
	positions := Summarize(transactions, lookup)
	totals := Aggregate(positions)
	totals.TransactionCount = len(transactions)
	return Portfolio{
		Positions: positions,
		Holdings:  ActiveHoldings(positions),
		Totals:    totals,
	}
}

// AvailableQuantity is the net quantity held for one position key.
func AvailableQuantity(transactions []models.Transaction, symbol string, assetType models.AssetType) float64 {
	key := models.PositionKey{Symbol: symbol, AssetType: assetType}
	var p position
	for _, tx := range transactions {
		if tx.Key() == key {
			p.apply(tx)
		}
	}
	return p.quantity
}

func ComputeStats(transactions []models.Transaction) models.Stats {
	var st models.Stats
	keys := make(map[models.PositionKey]struct{})
	for _, tx := range transactions {
		switch tx.Type {
		case models.TradeBuy:
			st.BuyCount++
		case models.TradeSell:
			st.SellCount++
		}
		keys[tx.Key()] = struct{}{}
		st.TradedVolume += tx.Quantity * tx.Price
	}
	st.UniqueAssets = len(keys)
	return st
}
