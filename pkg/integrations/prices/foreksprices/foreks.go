// Package foreksprices reads equity quotes from the foreks symbols API.
package foreksprices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"
)

var (
	_ prices.StockFetcher = (*PriceFetcher)(nil)
)

const DefaultBaseURL = "https://publicapi.ramazansancar.com.tr"

type PriceFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewPriceFetcher() *PriceFetcher {
	return &PriceFetcher{
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type response struct {
	Success bool `json:"success"`
	Data    []struct {
		Symbol      string  `json:"symbol"`
		Last        float64 `json:"last"`
		DailyChange float64 `json:"dailyChange"`
	} `json:"data"`
}

// FetchStocks returns the latest quote per symbol. Symbols the API does not
// price are left out of the map.
func (f *PriceFetcher) FetchStocks(ctx context.Context, symbols ...string) (map[string]prices.StockQuote, error) {
	out := make(map[string]prices.StockQuote, len(symbols))
	wanted := unique(symbols)
	if len(wanted) == 0 {
		return out, nil
	}

	escaped := make([]string, len(wanted))
	for i, s := range wanted {
		escaped[i] = url.PathEscape(s)
	}
	endpoint := fmt.Sprintf("%s/foreks/symbols/%s", strings.TrimRight(f.BaseURL, "/"), strings.Join(escaped, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stock prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("stock api reported failure")
	}

	for _, row := range result.Data {
		if row.Symbol == "" || row.Last == 0 {
			continue
		}
		out[row.Symbol] = prices.StockQuote{
			Symbol:             row.Symbol,
			Last:               row.Last,
			DailyChange:        row.DailyChange,
			DailyChangePercent: changePercent(row.Last, row.DailyChange),
		}
	}
	return out, nil
}

// changePercent is the change relative to the previous close.
func changePercent(last, change float64) float64 {
	prev := last - change
	if prev == 0 {
		return 0
	}
	return change / prev * 100
}

func unique(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
