package foreksprices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFetcher_FetchStocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/foreks/symbols/THYAO,GARAN", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[
			{"symbol":"THYAO","last":110,"dailyChange":10},
			{"symbol":"GARAN","last":50},
			{"symbol":"ZERO","last":0,"dailyChange":1},
			{"last":5}
		]}`))
	}))
	defer server.Close()

	fetcher := NewPriceFetcher()
	fetcher.BaseURL = server.URL

	got, err := fetcher.FetchStocks(context.Background(), "THYAO", "GARAN", "THYAO", " ")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 110.0, got["THYAO"].Last)
	assert.Equal(t, 10.0, got["THYAO"].DailyChange)
	assert.InDelta(t, 10, got["THYAO"].DailyChangePercent, 1e-9)
	assert.Zero(t, got["GARAN"].DailyChangePercent)
}

func TestPriceFetcher_FetchStocks_NoSymbols(t *testing.T) {
	fetcher := NewPriceFetcher()
	fetcher.BaseURL = "http://127.0.0.1:0"

	got, err := fetcher.FetchStocks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPriceFetcher_FetchStocks_Failure(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"unsuccessful": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"data":[]}`))
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			fetcher := NewPriceFetcher()
			fetcher.BaseURL = server.URL
			_, err := fetcher.FetchStocks(context.Background(), "THYAO")
			assert.Error(t, err)
		})
	}
}

func TestChangePercent(t *testing.T) {
	assert.InDelta(t, -50, changePercent(50, -50), 1e-9)
	assert.Zero(t, changePercent(5, 5))
}
