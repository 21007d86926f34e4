package market

import (
	"math"
	"time"
)

// Candle represents a single OHLCV bar. Candles are immutable once appended
// and arrive in strictly increasing timestamp order per timeframe.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Range returns the full high-low range of the candle.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// Body returns the absolute size of the candle body.
func (c Candle) Body() float64 {
	return math.Abs(c.Close - c.Open)
}

// IsGreen reports whether the candle closed above its open.
func (c Candle) IsGreen() bool {
	return c.Close > c.Open
}

// IsRed reports whether the candle closed below its open.
func (c Candle) IsRed() bool {
	return c.Close < c.Open
}

// UpperWick returns the distance from the body top to the high.
func (c Candle) UpperWick() float64 {
	return c.High - math.Max(c.Open, c.Close)
}

// LowerWick returns the distance from the body bottom to the low.
func (c Candle) LowerWick() float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

// TypicalPrice returns (high + low + close) / 3.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

// Closes extracts the close series from a candle window.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// LastClose returns the most recent close, or 0 for an empty window.
func LastClose(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	return candles[len(candles)-1].Close
}
