package indicator

import (
	"fmt"
	"math"

	"github.com/dnldd/revscan/shared"
)

// FrameConfig represents the configuration for an indicator frame.
type FrameConfig struct {
	// RSIPeriod is the relative strength index period.
	RSIPeriod int
	// EMAFastPeriod is the fast exponential moving average period.
	EMAFastPeriod int
	// EMASlowPeriod is the slow exponential moving average period.
	EMASlowPeriod int
}

// Snapshot represents the indicator state at a single candle.
type Snapshot struct {
	RSI     float64
	EMAFast float64
	EMASlow float64
}

// Frame holds indicator series computed over a candlestick series, one value
// per candle.
type Frame struct {
	RSI     []float64
	EMAFast []float64
	EMASlow []float64

	length int
}

// NewFrame computes an indicator frame for the provided candles.
func NewFrame(cfg *FrameConfig, candles []*shared.Candlestick) *Frame {
	closes := make([]float64, len(candles))
	for idx := range candles {
		closes[idx] = candles[idx].Close
	}

	return &Frame{
		RSI:     NewRSI(cfg.RSIPeriod).Compute(closes),
		EMAFast: NewEMA(cfg.EMAFastPeriod).Compute(closes),
		EMASlow: NewEMA(cfg.EMASlowPeriod).Compute(closes),
		length:  len(closes),
	}
}

// At returns the indicator snapshot at the provided candle index. The index
// has to reference a candle with a warmed up rsi value.
func (f *Frame) At(idx int) (*Snapshot, error) {
	if idx < 0 || idx >= f.length {
		return nil, fmt.Errorf("indicator index %d out of range for %d candles: %w",
			idx, f.length, shared.ErrInsufficientHistory)
	}

	if math.IsNaN(f.RSI[idx]) {
		return nil, fmt.Errorf("rsi not warmed up at index %d: %w", idx, shared.ErrInsufficientHistory)
	}

	return &Snapshot{
		RSI:     f.RSI[idx],
		EMAFast: f.EMAFast[idx],
		EMASlow: f.EMASlow[idx],
	}, nil
}
