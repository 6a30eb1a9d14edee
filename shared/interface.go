package shared

import (
	"context"
	"errors"
)

// ErrInsufficientHistory indicates a candle series too short to evaluate.
var ErrInsufficientHistory = errors.New("insufficient candle history")

// MarketFetcher defines the requirements for fetching closed market candles.
type MarketFetcher interface {
	// FetchCandlesticks fetches the most recent closed candles for the provided market.
	FetchCandlesticks(ctx context.Context, market string, timeframe Timeframe, limit int) ([]Candlestick, error)
}

// Notifier defines the requirements for pushing signal notifications.
type Notifier interface {
	// Send pushes the provided message to the notification sink.
	Send(ctx context.Context, message string) error
}

// SignalRecorder defines the requirements for recording emitted signals.
type SignalRecorder interface {
	// Record appends the provided signal to the signal log.
	Record(signal *Signal) error
}
