package indicators

import (
	"math"

	"intraday-alert-bot/internal/market"
)

// ============================================================================
// PIVOT POINTS
// ============================================================================

// PivotPoints holds classic floor-trader pivot levels.
type PivotPoints struct {
	PP float64
	R1 float64
	R2 float64
	R3 float64
	S1 float64
	S2 float64
	S3 float64
}

// CalculatePivotPoints calculates classic pivot levels from a single prior bar.
func CalculatePivotPoints(prior market.Candle) PivotPoints {
	high, low, close := prior.High, prior.Low, prior.Close
	pp := (high + low + close) / 3

	return PivotPoints{
		PP: pp,
		R1: 2*pp - low,
		S1: 2*pp - high,
		R2: pp + (high - low),
		S2: pp - (high - low),
		R3: high + 2*(pp-low),
		S3: low - 2*(high-pp),
	}
}

// Levels returns all pivot levels, resistances first.
func (p PivotPoints) Levels() []float64 {
	return []float64{p.R3, p.R2, p.R1, p.PP, p.S1, p.S2, p.S3}
}

// levelNames matches the order of Levels.
var levelNames = []string{"R3", "R2", "R1", "PP", "S1", "S2", "S3"}

// CheckPivotConfirmation reports whether price sits within the fractional
// threshold of any pivot level, which the trigger reads as a breakout or
// bounce at that level.
func CheckPivotConfirmation(price float64, pivots PivotPoints, threshold float64) (bool, string) {
	tolerance := price * threshold
	for i, level := range pivots.Levels() {
		if math.Abs(price-level) <= tolerance {
			return true, levelNames[i]
		}
	}
	return false, ""
}

// NearestLevel returns the pivot level closest to price and its name.
func (p PivotPoints) NearestLevel(price float64) (float64, string) {
	nearest := p.PP
	name := "PP"
	minDiff := math.Abs(price - p.PP)
	for i, level := range p.Levels() {
		if diff := math.Abs(price - level); diff < minDiff {
			minDiff = diff
			nearest = level
			name = levelNames[i]
		}
	}
	return nearest, name
}

// ============================================================================
// SUPPORT AND RESISTANCE
// ============================================================================

// FindSupportResistance returns the lowest low and highest high of the
// trailing period as naive support/resistance levels.
func FindSupportResistance(candles []market.Candle, period int) (support, resistance float64) {
	if period <= 0 || len(candles) < period {
		return 0, 0
	}

	start := len(candles) - period
	support = candles[start].Low
	resistance = candles[start].High
	for i := start; i < len(candles); i++ {
		if candles[i].High > resistance {
			resistance = candles[i].High
		}
		if candles[i].Low < support {
			support = candles[i].Low
		}
	}
	return support, resistance
}

// IsNearLevel reports whether price is within the fractional tolerance of a
// level. Zero levels never match.
func IsNearLevel(price, level, tolerance float64) bool {
	if level == 0 {
		return false
	}
	return math.Abs(price-level) <= level*tolerance
}
