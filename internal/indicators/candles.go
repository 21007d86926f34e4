package indicators

import (
	"math"

	"intraday-alert-bot/internal/market"
)

// ============================================================================
// HEIKIN-ASHI
// ============================================================================

// CalculateHeikinAshi converts a candle window into Heikin-Ashi candles.
// Timestamps and volume carry over unchanged.
func CalculateHeikinAshi(candles []market.Candle) []market.Candle {
	if len(candles) == 0 {
		return nil
	}

	out := make([]market.Candle, len(candles))
	for i, c := range candles {
		haClose := (c.Open + c.High + c.Low + c.Close) / 4

		var haOpen float64
		if i == 0 {
			haOpen = (c.Open + c.Close) / 2
		} else {
			haOpen = (out[i-1].Open + out[i-1].Close) / 2
		}

		out[i] = market.Candle{
			Timestamp: c.Timestamp,
			Open:      haOpen,
			High:      math.Max(c.High, math.Max(haOpen, haClose)),
			Low:       math.Min(c.Low, math.Min(haOpen, haClose)),
			Close:     haClose,
			Volume:    c.Volume,
		}
	}
	return out
}

// ============================================================================
// RSI DIVERGENCE
// ============================================================================

// DivergenceResult flags price/RSI divergence over the inspected window.
type DivergenceResult struct {
	Bullish bool
	Bearish bool
}

// DetectDivergence compares the price and RSI extremes of the older and newer
// halves of the trailing lookback window. A lower price low with a higher RSI
// low is bullish divergence; a higher price high with a lower RSI high is
// bearish.
func DetectDivergence(candles []market.Candle, rsiPeriod, lookback int) DivergenceResult {
	if lookback < 4 || len(candles) < rsiPeriod+lookback+1 {
		return DivergenceResult{}
	}

	rsi := CalculateRSISeries(candles, rsiPeriod)
	if len(rsi) < lookback {
		return DivergenceResult{}
	}

	// Align the tails: rsi[len-1] corresponds to candles[len-1].
	closes := market.Closes(candles)
	tailC := closes[len(closes)-lookback:]
	tailR := rsi[len(rsi)-lookback:]

	half := lookback / 2
	oldLowC, oldLowR := minPair(tailC[:half], tailR[:half])
	newLowC, newLowR := minPair(tailC[half:], tailR[half:])
	oldHighC, oldHighR := maxPair(tailC[:half], tailR[:half])
	newHighC, newHighR := maxPair(tailC[half:], tailR[half:])

	return DivergenceResult{
		Bullish: newLowC < oldLowC && newLowR > oldLowR,
		Bearish: newHighC > oldHighC && newHighR < oldHighR,
	}
}

// minPair returns the minimum close in the slice and the RSI at that bar.
func minPair(closes, rsi []float64) (float64, float64) {
	idx := 0
	for i := range closes {
		if closes[i] < closes[idx] {
			idx = i
		}
	}
	return closes[idx], rsi[idx]
}

// maxPair returns the maximum close in the slice and the RSI at that bar.
func maxPair(closes, rsi []float64) (float64, float64) {
	idx := 0
	for i := range closes {
		if closes[i] > closes[idx] {
			idx = i
		}
	}
	return closes[idx], rsi[idx]
}
