package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Pattern represents a reversal candlestick pattern.
type Pattern int

const (
	Hammer Pattern = iota
	ShootingStar
)

// String stringifies the provided pattern.
func (p Pattern) String() string {
	switch p {
	case Hammer:
		return "HAMMER"
	case ShootingStar:
		return "SHOOTING_STAR"
	default:
		return "unknown"
	}
}

// Direction represents the trade direction of a signal.
type Direction int

const (
	Long Direction = iota
	Short
)

// String stringifies the provided direction.
func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "unknown"
	}
}

// Signal represents a confirmed reversal signal for a market.
type Signal struct {
	ID            string
	Market        string
	Timeframe     Timeframe
	Pattern       Pattern
	Direction     Direction
	Price         float64
	CandleTime    time.Time
	RSI           float64
	LastVolume    float64
	AverageVolume float64
	CreatedOn     time.Time
}

// NewSignal initializes a new signal.
func NewSignal(market string, timeframe Timeframe, pattern Pattern, direction Direction,
	price float64, candleTime time.Time, rsi float64, lastVolume float64, averageVolume float64) Signal {
	return Signal{
		ID:            uuid.NewString(),
		Market:        market,
		Timeframe:     timeframe,
		Pattern:       pattern,
		Direction:     direction,
		Price:         price,
		CandleTime:    candleTime,
		RSI:           rsi,
		LastVolume:    lastVolume,
		AverageVolume: averageVolume,
		CreatedOn:     time.Now().UTC(),
	}
}

// Message formats the provided signal as a notification message.
func (s *Signal) Message() string {
	var title string
	switch s.Pattern {
	case Hammer:
		title = "🟢 Hammer (confirmed)"
	case ShootingStar:
		title = "🔴 Shooting Star (confirmed)"
	}

	return fmt.Sprintf("%s\nMarket: %s\nPattern time (closed): %s UTC\nDirection: %s\nPrice: %v\n"+
		"RSI: %.1f | vol: %.3f (avg %.3f)\nTF: %s",
		title, s.Market, s.CandleTime.UTC().Format(CandleTimeLayout), s.Direction.String(),
		s.Price, s.RSI, s.LastVolume, s.AverageVolume, s.Timeframe.String())
}
