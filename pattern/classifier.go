package pattern

import "github.com/dnldd/revscan/shared"

// ClassifierConfig represents the shape strictness thresholds for the classifier.
type ClassifierConfig struct {
	// ShadowRatioHigh is the minimum dominant shadow to body ratio for a match.
	ShadowRatioHigh float64
	// ShadowRatioLow is the maximum opposing shadow to body ratio for a match.
	ShadowRatioLow float64
}

// Classifier classifies single candlesticks against reversal shapes.
type Classifier struct {
	cfg *ClassifierConfig
}

// NewClassifier initializes a new classifier.
func NewClassifier(cfg *ClassifierConfig) *Classifier {
	return &Classifier{
		cfg: cfg,
	}
}

// IsHammer reports whether the provided candlestick matches the hammer shape,
// a dominant lower shadow with a small upper shadow. A bodiless doji matches
// nothing.
func (c *Classifier) IsHammer(candle *shared.Candlestick) bool {
	body := candle.Body()
	if body == 0 {
		return false
	}

	return candle.LowerShadow() > body*c.cfg.ShadowRatioHigh &&
		candle.UpperShadow() < body*c.cfg.ShadowRatioLow
}

// IsShootingStar reports whether the provided candlestick matches the shooting
// star shape, the mirror of the hammer.
func (c *Classifier) IsShootingStar(candle *shared.Candlestick) bool {
	body := candle.Body()
	if body == 0 {
		return false
	}

	return candle.UpperShadow() > body*c.cfg.ShadowRatioHigh &&
		candle.LowerShadow() < body*c.cfg.ShadowRatioLow
}
