package shared

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the format layout for journal timestamps.
	DateLayout = "2006-01-02 15:04:05"
	// CandleTimeLayout is the format layout for signal candle times.
	CandleTimeLayout = "2006-01-02 15:04"
)

// Timeframe represents the market data time period.
type Timeframe int

const (
	FiveMinute Timeframe = iota
	FifteenMinute
	OneHour
)

// String stringifies the provided timeframe.
func (t Timeframe) String() string {
	switch t {
	case FiveMinute:
		return "5m"
	case FifteenMinute:
		return "15m"
	case OneHour:
		return "1h"
	default:
		return "unknown"
	}
}

// Duration returns the interval length of the provided timeframe.
func (t Timeframe) Duration() time.Duration {
	switch t {
	case FiveMinute:
		return time.Minute * 5
	case FifteenMinute:
		return time.Minute * 15
	case OneHour:
		return time.Hour
	default:
		return 0
	}
}

// ParseTimeframe parses a timeframe from the provided string.
func ParseTimeframe(timeframe string) (Timeframe, error) {
	switch timeframe {
	case "5m":
		return FiveMinute, nil
	case "15m":
		return FifteenMinute, nil
	case "1h":
		return OneHour, nil
	default:
		return 0, fmt.Errorf("unknown timeframe provided: %s", timeframe)
	}
}
