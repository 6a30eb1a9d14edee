package indicator

// EMA represents the exponential moving average indicator.
type EMA struct {
	period int
	alpha  float64
}

// NewEMA initializes an EMA indicator with the provided period.
func NewEMA(period int) *EMA {
	if period <= 0 {
		period = 1
	}

	return &EMA{
		period: period,
		alpha:  2 / float64(period+1),
	}
}

// Compute returns the ema value for each entry of the provided closing prices.
// The average is seeded with the first observation and is defined for every
// entry, though accuracy is asymptotic until about a period's worth of samples
// have been absorbed.
func (e *EMA) Compute(closes []float64) []float64 {
	values := make([]float64, len(closes))
	if len(closes) == 0 {
		return values
	}

	values[0] = closes[0]
	for idx := 1; idx < len(closes); idx++ {
		values[idx] = e.alpha*closes[idx] + (1-e.alpha)*values[idx-1]
	}

	return values
}
