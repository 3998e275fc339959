package prices

import (
	"testing"
	"time"

	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/prices/binanceprices"
	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/prices/borsaprices"
	"github.com/ramazansancar/stock-cost-calculator/pkg/integrations/prices/foreksprices"
	"github.com/ramazansancar/stock-cost-calculator/pkg/types/prices"

	"github.com/stretchr/testify/assert"
)

func TestNewFeeds_Defaults(t *testing.T) {
	feeds := NewFeeds(Config{})
	assert.Equal(t, foreksprices.DefaultBaseURL, feeds.Stocks.BaseURL)
	assert.Equal(t, borsaprices.DefaultBaseURL, feeds.Market.BaseURL)
	assert.Equal(t, binanceprices.DefaultBaseURL, feeds.Crypto.BaseURL)
}

func TestNewFeeds_Overrides(t *testing.T) {
	feeds := NewFeeds(Config{
		StocksURL: "http://stocks.local/",
		MarketURL: "http://market.local",
		CryptoURL: "http://crypto.local/api/v3/",
		Timeout:   3 * time.Second,
	})
	assert.Equal(t, "http://stocks.local", feeds.Stocks.BaseURL)
	assert.Equal(t, "http://market.local", feeds.Market.BaseURL)
	assert.Equal(t, "http://crypto.local/api/v3", feeds.Crypto.BaseURL)
	assert.Equal(t, 3*time.Second, feeds.Stocks.Client.Timeout)
	assert.Equal(t, 3*time.Second, feeds.Market.Client.Timeout)
	assert.Equal(t, 3*time.Second, feeds.Crypto.Client.Timeout)
}

func TestSources(t *testing.T) {
	assert.Equal(t, []string{prices.SourceForeks, prices.SourceBorsa, prices.SourceBinance}, Sources())
}
