// Package borsaprices reads the combined currency, gold and bank quote feed.
package borsaprices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"
)

var (
	_ prices.MarketFetcher = (*PriceFetcher)(nil)
)

const DefaultBaseURL = "https://borsa.ramazansancar.com.tr"

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

// number accepts both JSON numbers and numeric strings; the feed has used both.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*n = number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = number(v)
	return nil
}

type response struct {
	Status string `json:"status"`
	Datas  struct {
		Doviz *struct {
			Data []struct {
				Name  string `json:"name"`
				Value number `json:"value"`
			} `json:"data"`
		} `json:"doviz"`
		ManisaKuyum *struct {
			Data []struct {
				Name string `json:"name"`
				Buy  number `json:"buy"`
				Sell number `json:"sell"`
			} `json:"data"`
		} `json:"manisaKuyum"`
		SeninBankan *struct {
			Data []struct {
				CurrencyCode string `json:"currencyCode"`
				Name         string `json:"name"`
				Buy          number `json:"buy"`
				Sell         number `json:"sell"`
				Change       number `json:"change"`
			} `json:"data"`
		} `json:"seninBankan"`
	} `json:"datas"`
}

// FetchMarket returns every quote in the feed. Sections missing from the
// response come back as empty maps.
func (f *PriceFetcher) FetchMarket(ctx context.Context) (*prices.MarketQuotes, error) {
	endpoint := strings.TrimRight(f.BaseURL, "/") + "/api/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("market api status %q", result.Status)
	}

	out := &prices.MarketQuotes{
		Currencies: map[string]prices.CurrencyQuote{},
		Gold:       map[string]prices.GoldQuote{},
		Bank:       map[string]prices.BankQuote{},
	}
	if d := result.Datas.Doviz; d != nil {
		for _, row := range d.Data {
			out.Currencies[row.Name] = prices.CurrencyQuote{Name: row.Name, Value: float64(row.Value)}
		}
	}
	if d := result.Datas.ManisaKuyum; d != nil {
		for _, row := range d.Data {
			out.Gold[row.Name] = prices.GoldQuote{Name: row.Name, Buy: float64(row.Buy), Sell: float64(row.Sell)}
		}
	}
	if d := result.Datas.SeninBankan; d != nil {
		for _, row := range d.Data {
			out.Bank[row.CurrencyCode] = prices.BankQuote{
				CurrencyCode: row.CurrencyCode,
				Name:         row.Name,
				Buy:          float64(row.Buy),
				Sell:         float64(row.Sell),
				Change:       float64(row.Change),
			}
		}
	}
	return out, nil
}
