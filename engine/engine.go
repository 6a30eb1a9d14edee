package engine

import (
	"fmt"

	"github.com/dnldd/revscan/indicator"
	"github.com/dnldd/revscan/pattern"
	"github.com/dnldd/revscan/shared"
)

// EngineConfig represents the signal engine configuration.
type EngineConfig struct {
	// Classifier is the candlestick shape classifier.
	Classifier *pattern.Classifier
	// VolumeMultiplier scales the average volume floor for the volume filter.
	VolumeMultiplier float64
	// VolumeWindow is the trailing window for the average volume reference.
	VolumeWindow int
	// RSIOversold is the maximum rsi allowed for a hammer signal. Deliberately
	// looser than the textbook 30 to raise signal frequency, tunable.
	RSIOversold float64
	// RSIOverbought is the minimum rsi allowed for a shooting star signal.
	RSIOverbought float64
	// TrendWindow is the number of candles preceding the pattern candle used
	// for trend confirmation.
	TrendWindow int
	// TrendRequiredCount is the minimum number of directional candles required
	// in the trend window.
	TrendRequiredCount int
}

// Engine evaluates closed candlestick series for confirmed reversal signals.
// Evaluation is a pure function of its inputs, the engine holds no state
// across calls.
type Engine struct {
	cfg *EngineConfig
}

// NewEngine initializes a new signal engine.
func NewEngine(cfg *EngineConfig) *Engine {
	return &Engine{
		cfg: cfg,
	}
}

// Evaluate applies the composite reversal rule to the most recent closed
// candle of the provided snapshot. A signal requires the shape match, trend
// confirmation, the volume filter, the ema regime filter and the rsi filter to
// all hold. Indicator state is read at the candle immediately preceding the
// pattern candle.
func (e *Engine) Evaluate(snapshot *shared.CandlestickSnapshot, frame *indicator.Frame) ([]shared.Signal, error) {
	count := int(snapshot.Count())
	if count < e.cfg.TrendWindow+1 {
		return nil, fmt.Errorf("%d candles cannot cover a trend window of %d: %w",
			count, e.cfg.TrendWindow, shared.ErrInsufficientHistory)
	}

	set := snapshot.LastN(int32(e.cfg.TrendWindow + 1))
	window := set[:len(set)-1]
	patternCandle := set[len(set)-1]

	indicators, err := frame.At(count - 2)
	if err != nil {
		return nil, err
	}

	lastVolume := patternCandle.Volume
	averageVolume := snapshot.AverageVolumeN(int32(e.cfg.VolumeWindow))
	volumeOK := lastVolume >= averageVolume*e.cfg.VolumeMultiplier

	var signals []shared.Signal

	if e.cfg.Classifier.IsHammer(patternCandle) &&
		pattern.ConfirmTrend(window, shared.Bearish, e.cfg.TrendRequiredCount) &&
		volumeOK &&
		indicators.EMAFast < indicators.EMASlow &&
		indicators.RSI <= e.cfg.RSIOversold {
		signals = append(signals, shared.NewSignal(patternCandle.Market, patternCandle.Timeframe,
			shared.Hammer, shared.Long, patternCandle.Close, patternCandle.Date,
			indicators.RSI, lastVolume, averageVolume))
	}

	if e.cfg.Classifier.IsShootingStar(patternCandle) &&
		pattern.ConfirmTrend(window, shared.Bullish, e.cfg.TrendRequiredCount) &&
		volumeOK &&
		indicators.EMAFast > indicators.EMASlow &&
		indicators.RSI >= e.cfg.RSIOverbought {
		signals = append(signals, shared.NewSignal(patternCandle.Market, patternCandle.Timeframe,
			shared.ShootingStar, shared.Short, patternCandle.Close, patternCandle.Date,
			indicators.RSI, lastVolume, averageVolume))
	}

	return signals, nil
}
