package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dnldd/revscan/shared"
	"github.com/peterldowns/testy/assert"
)

func TestNewBinanceClient(t *testing.T) {
	// Ensure the client requires a base url.
	_, err := NewBinanceClient(&BinanceConfig{})
	assert.Error(t, err)

	client, err := NewBinanceClient(&BinanceConfig{BaseURL: BaseURL})
	assert.NoError(t, err)
	if client == nil {
		t.Fatal("expected a client")
	}
}

func TestBinanceFormURL(t *testing.T) {
	client, err := NewBinanceClient(&BinanceConfig{BaseURL: BaseURL})
	assert.NoError(t, err)

	url := client.formURL("/api/v3/klines", "interval=15m&limit=50&symbol=ETHUSDT")
	assert.Equal(t, url, "https://api.binance.com/api/v3/klines?interval=15m&limit=50&symbol=ETHUSDT")

	// Ensure the url buffer resets between calls.
	url = client.formURL("/api/v3/klines", "symbol=SOLUSDT")
	assert.Equal(t, url, "https://api.binance.com/api/v3/klines?symbol=SOLUSDT")
}

func TestFetchCandlesticks(t *testing.T) {
	// Two closed candles followed by the forming one, closing far in the
	// future relative to the test run.
	const klines = `[
		[1738678500000, "2800.0", "2810.0", "2790.0", "2805.0", "120.5", 1738679399999],
		[1738679400000, "2805.0", "2815.0", "2795.0", "2800.0", "98.2", 1738680299999],
		[1738680300000, "2800.0", "2808.0", "2798.0", "2803.0", "15.1", 4102444800000]
	]`

	var gotPath string
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, klines)
	}))
	defer server.Close()

	client, err := NewBinanceClient(&BinanceConfig{BaseURL: server.URL})
	assert.NoError(t, err)

	candles, err := client.FetchCandlesticks(context.Background(), "ETHUSDT", shared.FifteenMinute, 50)
	assert.NoError(t, err)

	assert.Equal(t, gotPath, "/api/v3/klines")
	assert.Equal(t, gotQuery, "interval=15m&limit=50&symbol=ETHUSDT")

	// Ensure the forming candle is dropped and the rest parse oldest first.
	assert.Equal(t, len(candles), 2)
	assert.Equal(t, candles[0].Close, float64(2805))
	assert.Equal(t, candles[1].Close, float64(2800))
	assert.Equal(t, candles[1].Volume, float64(98.2))
	assert.Equal(t, candles[0].Market, "ETHUSDT")
	assert.Equal(t, candles[0].Timeframe, shared.FifteenMinute)
}

func TestFetchCandlesticksErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"code":-1003,"msg":"Too many requests."}`)
	}))
	defer server.Close()

	client, err := NewBinanceClient(&BinanceConfig{BaseURL: server.URL})
	assert.NoError(t, err)

	_, err = client.FetchCandlesticks(context.Background(), "ETHUSDT", shared.FifteenMinute, 50)
	assert.Error(t, err)
}
