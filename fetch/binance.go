package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dnldd/revscan/shared"
	"github.com/tidwall/gjson"
)

const (
	// BaseURL is the binance spot api base url.
	BaseURL = "https://api.binance.com"
)

// BinanceConfig represents the configuration for the binance client.
type BinanceConfig struct {
	// BaseURL is the exchange api base url.
	BaseURL string
}

// BinanceClient represents the binance market data client.
type BinanceClient struct {
	cfg   *BinanceConfig
	httpc http.Client
	buf   *bytes.Buffer
}

// Ensure the binance client implements the MarketFetcher interface.
var _ shared.MarketFetcher = (*BinanceClient)(nil)

// NewBinanceClient instantiates a new binance client.
func NewBinanceClient(cfg *BinanceConfig) (*BinanceClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base url cannot be an empty string")
	}

	return &BinanceClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: time.Second * 5},
		buf:   bytes.NewBuffer(make([]byte, 0, 512)),
	}, nil
}

// formURL creates full urls including parameters for the api.
func (c *BinanceClient) formURL(path string, params string) string {
	c.buf.WriteString(c.cfg.BaseURL)
	c.buf.WriteString(path)
	c.buf.WriteString("?")
	c.buf.WriteString(params)
	url := c.buf.String()
	c.buf.Reset()

	return url
}

// FetchCandlesticks fetches the most recent closed candles for the provided
// market, oldest first. The forming candle included in the provider response
// is dropped.
func (c *BinanceClient) FetchCandlesticks(ctx context.Context, market string, timeframe shared.Timeframe, limit int) ([]shared.Candlestick, error) {
	const klinesPath = "/api/v3/klines"

	params := url.Values{}
	params.Add("symbol", market)
	params.Add("interval", timeframe.String())
	params.Add("limit", strconv.Itoa(limit))

	formedURL := c.formURL(klinesPath, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, formedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating klines request for %s: %w", market, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching klines (%s) for %s: %w", timeframe.String(), market, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching klines for %s: unexpected status %d: %s",
			market, resp.StatusCode, string(body))
	}

	data := gjson.ParseBytes(body).Array()

	candles, err := shared.ParseCandlesticks(data, market, timeframe, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("parsing candlesticks for %s: %w", market, err)
	}

	return candles, nil
}
