package indicator

import "math"

// RSI represents the relative strength index indicator.
type RSI struct {
	period int
}

// NewRSI initializes an RSI indicator with the provided period.
func NewRSI(period int) *RSI {
	if period <= 0 {
		period = 14
	}

	return &RSI{
		period: period,
	}
}

// Compute returns the rsi value for each entry of the provided closing prices.
// The gain and loss averages are simple rolling means over a trailing window of
// period deltas, values are NaN until the window is filled. A window with no
// losses saturates the rsi at 100.
func (r *RSI) Compute(closes []float64) []float64 {
	values := make([]float64, len(closes))
	for idx := range values {
		values[idx] = math.NaN()
	}

	if len(closes) < r.period+1 {
		return values
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for idx := 1; idx < len(closes); idx++ {
		delta := closes[idx] - closes[idx-1]
		switch {
		case delta > 0:
			gains[idx] = delta
		case delta < 0:
			losses[idx] = -delta
		}
	}

	var gainSum, lossSum float64
	for idx := 1; idx < len(closes); idx++ {
		gainSum += gains[idx]
		lossSum += losses[idx]

		if idx < r.period {
			continue
		}
		if idx > r.period {
			// Slide the trailing window forward.
			gainSum -= gains[idx-r.period]
			lossSum -= losses[idx-r.period]
		}

		averageGain := gainSum / float64(r.period)
		averageLoss := lossSum / float64(r.period)
		if averageLoss == 0 {
			// The relative strength ratio is unbounded without losses.
			values[idx] = 100
			continue
		}

		values[idx] = 100 - 100/(1+averageGain/averageLoss)
	}

	return values
}
