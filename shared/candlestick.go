package shared

import (
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"
)

// Sentiment represents the candlestick sentiment.
type Sentiment int

const (
	Neutral Sentiment = iota
	Bullish
	Bearish
)

// String stringifies the provided sentiment.
func (s Sentiment) String() string {
	switch s {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "neutral"
	}
}

// Candlestick represents a unit candlestick for a market.
type Candlestick struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Metadata fields.
	Market    string
	Timeframe Timeframe
}

// FetchSentiment returns the provided candlestick's sentiment.
func (c *Candlestick) FetchSentiment() Sentiment {
	sentiment := c.Close - c.Open
	switch {
	case sentiment < 0:
		return Bearish
	case sentiment > 0:
		return Bullish
	default:
		return Neutral
	}
}

// Body returns the absolute size of the candlestick body.
func (c *Candlestick) Body() float64 {
	return math.Abs(c.Close - c.Open)
}

// UpperShadow returns the range between the candlestick high and the body top.
func (c *Candlestick) UpperShadow() float64 {
	return c.High - math.Max(c.Open, c.Close)
}

// LowerShadow returns the range between the body bottom and the candlestick low.
func (c *Candlestick) LowerShadow() float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

// ParseCandlesticks parses closed candlesticks from the provided kline data.
// Klines are arrays of the form [openTime, open, high, low, close, volume,
// closeTime, ...]. Entries whose close time has not yet elapsed are dropped so
// a still forming candle never reaches analysis.
func ParseCandlesticks(data []gjson.Result, market string, timeframe Timeframe, now time.Time) ([]Candlestick, error) {
	candles := make([]Candlestick, 0, len(data))

	for idx := range data {
		fields := data[idx].Array()
		if len(fields) < 7 {
			return nil, fmt.Errorf("malformed kline entry: expected at least 7 fields, got %d", len(fields))
		}

		var candle Candlestick

		candle.Open = fields[1].Float()
		candle.High = fields[2].Float()
		candle.Low = fields[3].Float()
		candle.Close = fields[4].Float()
		candle.Volume = fields[5].Float()
		candle.Date = time.UnixMilli(fields[0].Int()).UTC()

		candle.Market = market
		candle.Timeframe = timeframe

		closeTime := time.UnixMilli(fields[6].Int()).UTC()
		if closeTime.After(now) {
			// The candle is still forming.
			continue
		}

		candles = append(candles, candle)
	}

	return candles, nil
}
