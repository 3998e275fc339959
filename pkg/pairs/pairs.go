// Package pairs resolves exchange pair prices against a quote asset,
// bridging through a common anchor when no direct market exists.
package pairs

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrPairNotFound = errors.New("price for pair not found")

// Quote is the asset crypto holdings are valued in before local conversion.
const Quote = "USDT"

var (
	// anchors ordered by market count on the exchange
	anchors = []string{"USDT", "BTC", "ETH", "BNB", "FDUSD", "USDC", "TRY", "EUR"}

	stablecoins = map[string]struct{}{
		"USDT": {}, "USDC": {}, "FDUSD": {}, "TUSD": {}, "BUSD": {}, "DAI": {}, "USDP": {},
	}
)

// Pair is one ticker row. Prices arrive as strings.
type Pair struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func PairMap(pairs []Pair) map[string]float64 {
	priceMap := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		priceMap[pair.Symbol] = parsePrice(pair.Price)
	}
	return priceMap
}

func parsePrice(s string) float64 {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return price
}

// Split returns base and anchor of a pair symbol such as BTCUSDT.
func Split(pair string) (string, string, bool) {
	for _, anchor := range anchors {
		if strings.HasSuffix(pair, anchor) && len(pair) > len(anchor) {
			return strings.TrimSuffix(pair, anchor), anchor, true
		}
	}
	return "", "", false
}

// Resolve prices pair in terms of its own quote asset. A missing market is
// rebuilt from base/anchor and anchor/quote with one hop.
func Resolve(pair string, prices map[string]float64) (float64, error) {
	if price, ok := prices[pair]; ok && price > 0 {
		return price, nil
	}

	base, quote, ok := Split(pair)
	if !ok {
		return 0, errors.Wrap(ErrPairNotFound, pair)
	}
	if _, stable := stablecoins[base]; stable {
		if _, quoteStable := stablecoins[quote]; quoteStable {
			return 1, nil
		}
	}

	for _, anchor := range anchors {
		if anchor == quote || anchor == base {
			continue
		}
		leg, ok := prices[base+anchor]
		if !ok || leg <= 0 {
			continue
		}
		bridge, ok := prices[anchor+quote]
		if !ok || bridge <= 0 {
			continue
		}
		return leg * bridge, nil
	}
	return 0, errors.Wrap(ErrPairNotFound, pair)
}

// InQuote prices the base asset of pair in Quote, whatever the pair's own
// quote asset is. BTCTRY is valued as BTCUSDT.
func InQuote(pair string, prices map[string]float64) (float64, error) {
	base, _, ok := Split(pair)
	if !ok {
		return 0, errors.Wrap(ErrPairNotFound, pair)
	}
	return Resolve(base+Quote, prices)
}
