// Package indicators provides the stateless numeric transforms the alert
// engine is built on. Every function is deterministic and side-effect free,
// maps a trailing candle window to one or more values, and degrades to a safe
// neutral result (never NaN or Inf) when the window is too short or the input
// is degenerate.
package indicators

import (
	"math"

	"intraday-alert-bot/internal/market"
)

// ============================================================================
// MOVING AVERAGES
// ============================================================================

// CalculateSMA calculates the Simple Moving Average of closes over the
// trailing period.
func CalculateSMA(candles []market.Candle, period int) float64 {
	if period <= 0 || len(candles) < period {
		return 0
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period)
}

// CalculateEMA calculates the Exponential Moving Average of closes, seeded
// with the SMA of the first period.
func CalculateEMA(candles []market.Candle, period int) float64 {
	series := emaSeries(market.Closes(candles), period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// emaSeries computes a full-length EMA series over raw values. Indexes before
// the seed point carry the running mean so the series never contains NaN.
func emaSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	out := make([]float64, len(values))
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
		out[i] = sum / float64(i+1)
	}

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		out[i] = values[i]*multiplier + out[i-1]*(1-multiplier)
	}
	return out
}

// ============================================================================
// RSI (Relative Strength Index)
// ============================================================================

// CalculateRSISeries computes Wilder-style RSI using the average gain/loss of
// the trailing period for each bar. Returns an empty series when the window
// has period bars or fewer.
func CalculateRSISeries(candles []market.Candle, period int) []float64 {
	if period <= 0 || len(candles) <= period {
		return nil
	}

	out := make([]float64, 0, len(candles)-period)
	for end := period + 1; end <= len(candles); end++ {
		gains := 0.0
		losses := 0.0
		for i := end - period; i < end; i++ {
			change := candles[i].Close - candles[i-1].Close
			if change > 0 {
				gains += change
			} else {
				losses += -change
			}
		}

		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)

		if avgLoss == 0 {
			out = append(out, 100.0)
			continue
		}

		rs := avgGain / avgLoss
		out = append(out, 100-(100/(1+rs)))
	}
	return out
}

// CalculateRSI returns the latest RSI value, or 50 (neutral) when the window
// is too short.
func CalculateRSI(candles []market.Candle, period int) float64 {
	series := CalculateRSISeries(candles, period)
	if len(series) == 0 {
		return 50.0
	}
	return series[len(series)-1]
}

// ============================================================================
// MACD (Moving Average Convergence Divergence)
// ============================================================================

// MACDResult holds MACD indicator values.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// CalculateMACD calculates the MACD line, its signal EMA and the histogram.
func CalculateMACD(candles []market.Candle, fastPeriod, slowPeriod, signalPeriod int) MACDResult {
	if len(candles) < slowPeriod+signalPeriod {
		return MACDResult{}
	}

	closes := market.Closes(candles)
	fast := emaSeries(closes, fastPeriod)
	slow := emaSeries(closes, slowPeriod)

	macdLine := make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = fast[i] - slow[i]
	}

	signal := emaSeries(macdLine, signalPeriod)
	last := len(closes) - 1
	return MACDResult{
		MACD:      macdLine[last],
		Signal:    signal[last],
		Histogram: macdLine[last] - signal[last],
	}
}

// ============================================================================
// BOLLINGER BANDS
// ============================================================================

// BollingerBandsResult holds Bollinger Band levels.
type BollingerBandsResult struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bandwidth returns the band width as a fraction of the middle band.
func (b BollingerBandsResult) Bandwidth() float64 {
	if b.Middle == 0 {
		return 0
	}
	return (b.Upper - b.Lower) / b.Middle
}

// CalculateBollingerBands calculates SMA +/- multiplier * population standard
// deviation over the trailing period.
func CalculateBollingerBands(candles []market.Candle, period int, stdDevMultiplier float64) BollingerBandsResult {
	if period <= 0 || len(candles) < period {
		return BollingerBandsResult{}
	}

	middle := CalculateSMA(candles, period)

	variance := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		diff := candles[i].Close - middle
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / float64(period))

	return BollingerBandsResult{
		Upper:  middle + stdDev*stdDevMultiplier,
		Middle: middle,
		Lower:  middle - stdDev*stdDevMultiplier,
	}
}

// ============================================================================
// ATR (Average True Range)
// ============================================================================

// trueRanges returns the per-bar true range series. The first bar falls back
// to its own high-low range.
func trueRanges(candles []market.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		if i == 0 {
			out[i] = c.Range()
			continue
		}
		prevClose := candles[i-1].Close
		out[i] = math.Max(c.Range(), math.Max(
			math.Abs(c.High-prevClose),
			math.Abs(c.Low-prevClose),
		))
	}
	return out
}

// CalculateATRSeries computes the EMA of true range for every bar.
func CalculateATRSeries(candles []market.Candle, period int) []float64 {
	if len(candles) == 0 {
		return nil
	}
	return emaSeries(trueRanges(candles), period)
}

// CalculateATR returns the latest ATR value, or 0 when the window is too short.
func CalculateATR(candles []market.Candle, period int) float64 {
	if len(candles) < period+1 {
		return 0
	}
	series := CalculateATRSeries(candles, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// CalculateATRSlope returns the per-bar expansion rate of the ATR series over
// the trailing slopeLookback bars. Positive values mean volatility is
// expanding.
func CalculateATRSlope(candles []market.Candle, period, slopeLookback int) float64 {
	if slopeLookback <= 0 || len(candles) < period+slopeLookback+1 {
		return 0
	}

	series := CalculateATRSeries(candles, period)
	n := len(series)
	if n <= slopeLookback {
		return 0
	}
	return (series[n-1] - series[n-1-slopeLookback]) / float64(slopeLookback)
}
