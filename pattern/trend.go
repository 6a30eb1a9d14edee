package pattern

import "github.com/dnldd/revscan/shared"

// ConfirmTrend reports whether the provided candles confirm a directional bias.
// The window holds only candles strictly preceding the pattern candle, oldest
// first. A bearish sentiment requires at least requiredCount bearish candles
// and a net decline across the window, a bullish sentiment is symmetric.
func ConfirmTrend(window []*shared.Candlestick, sentiment shared.Sentiment, requiredCount int) bool {
	if len(window) == 0 {
		return false
	}

	var count int
	for idx := range window {
		if window[idx].FetchSentiment() == sentiment {
			count++
		}
	}

	first := window[0]
	last := window[len(window)-1]

	switch sentiment {
	case shared.Bearish:
		return count >= requiredCount && last.Close < first.Close
	case shared.Bullish:
		return count >= requiredCount && last.Close > first.Close
	default:
		return false
	}
}
