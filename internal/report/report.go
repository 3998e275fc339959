// Package report renders a plain-text portfolio summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/valuation"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "TRY"

type Formatter struct {
	currency string
}

// NewFormatter falls back to DefaultCurrency for codes go-money does not know.
func NewFormatter(currency string) Formatter {
	if money.GetCurrency(strings.ToUpper(currency)) == nil {
		currency = DefaultCurrency
	}
	return Formatter{currency: strings.ToUpper(currency)}
}

func (f Formatter) Currency() string {
	return f.currency
}

// Money formats amount in major units, rounded to the currency's fraction.
func (f Formatter) Money(amount float64) string {
	cur := money.GetCurrency(f.currency)
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), f.currency).Display()
}

// Percent renders a signed percentage with two decimals.
func (f Formatter) Percent(pct float64) string {
	d := decimal.NewFromFloat(pct).Round(2)
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

func (f Formatter) Quantity(q float64) string {
	return decimal.NewFromFloat(q).String()
}

func outcome(profitLoss float64) string {
	if profitLoss >= 0 {
		return "Profit"
	}
	return "Loss"
}

// Write renders the holdings and totals of p. It writes nothing and returns
// false when there are no active holdings.
func Write(w io.Writer, p valuation.Portfolio, f Formatter) (bool, error) {
	if len(p.Holdings) == 0 {
		return false, nil
	}

	var b strings.Builder
	b.WriteString("PORTFOLIO SUMMARY\n")
	for _, h := range p.Holdings {
		writeHolding(&b, h, f)
	}

	t := p.Totals
	b.WriteString("\nTOTALS\n")
	fmt.Fprintf(&b, "Market value: %s\n", f.Money(t.MarketValue))
	fmt.Fprintf(&b, "Total cost: %s\n", f.Money(t.TotalCost))
	fmt.Fprintf(&b, "Total %s: %s (%s)\n", strings.ToLower(outcome(t.ProfitLoss)), f.Money(abs(t.ProfitLoss)), f.Percent(t.ProfitLossPercentage))
	fmt.Fprintf(&b, "Transactions: %d\n", t.TransactionCount)

	_, err := io.WriteString(w, b.String())
	return err == nil, err
}

func writeHolding(b *strings.Builder, h models.PositionSummary, f Formatter) {
	fmt.Fprintf(b, "\n[%s] %s\n", h.AssetType, h.Symbol)
	fmt.Fprintf(b, "Quantity: %s\n", f.Quantity(h.TotalQuantity))
	fmt.Fprintf(b, "Average cost: %s\n", f.Money(h.AverageCost))
	fmt.Fprintf(b, "Current price: %s\n", f.Money(h.CurrentPrice))
	fmt.Fprintf(b, "%s: %s (%s)\n", outcome(h.ProfitLoss), f.Money(abs(h.ProfitLoss)), f.Percent(h.ProfitLossPercentage))
}

// String is Write into a string; empty when there is nothing to report.
func String(p valuation.Portfolio, f Formatter) string {
	var b strings.Builder
	if ok, _ := Write(&b, p, f); !ok {
		return ""
	}
	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
