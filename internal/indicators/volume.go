package indicators

import (
	"math"

	"intraday-alert-bot/internal/market"
)

// ============================================================================
// VWAP (Volume-Weighted Average Price)
// ============================================================================

// vwapAtTolerance is the fractional distance from VWAP inside which price
// reads as AT_VWAP. The same 0.1% tolerance drives the cooldown retest.
const vwapAtTolerance = 0.001

// VWAPResult holds the VWAP value, its bands and price position.
type VWAPResult struct {
	Value    float64
	Upper    float64
	Lower    float64
	Position VWAPPosition
}

// CalculateVWAP calculates cumulative (typical price * volume) / cumulative
// volume over the entire supplied window. Bands are VWAP +/- 2 standard
// deviations of typical price. A zero-volume window falls back to the plain
// mean of typical prices.
func CalculateVWAP(candles []market.Candle) VWAPResult {
	if len(candles) == 0 {
		return VWAPResult{Position: AtVWAP}
	}

	var pvSum, volSum, tpSum float64
	for _, c := range candles {
		tp := c.TypicalPrice()
		pvSum += tp * c.Volume
		volSum += c.Volume
		tpSum += tp
	}

	var vwap float64
	if volSum > 0 {
		vwap = pvSum / volSum
	} else {
		vwap = tpSum / float64(len(candles))
	}

	variance := 0.0
	for _, c := range candles {
		diff := c.TypicalPrice() - vwap
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / float64(len(candles)))

	result := VWAPResult{
		Value: vwap,
		Upper: vwap + 2*stdDev,
		Lower: vwap - 2*stdDev,
	}
	result.Position = result.classify(candles[len(candles)-1].Close)
	return result
}

func (r VWAPResult) classify(price float64) VWAPPosition {
	if r.Value > 0 && math.Abs(price-r.Value) <= r.Value*vwapAtTolerance {
		return AtVWAP
	}
	switch {
	case price > r.Upper:
		return AboveUpperBand
	case price > r.Value:
		return AboveVWAP
	case price < r.Lower:
		return BelowLowerBand
	default:
		return BelowVWAP
	}
}

// IsNearVWAP reports whether price is within tolerance (fractional) of VWAP.
func (r VWAPResult) IsNearVWAP(price, tolerance float64) bool {
	if r.Value == 0 {
		return false
	}
	return math.Abs(price-r.Value) <= r.Value*tolerance
}

// ============================================================================
// RVOL (Relative Volume)
// ============================================================================

// CalculateRVOL returns the current bar's volume relative to the mean volume
// of the lookback bars immediately preceding it. The current bar is excluded
// from the baseline. Returns 1.0 (neutral) when history or volume is missing.
func CalculateRVOL(candles []market.Candle, lookback int) float64 {
	if lookback <= 0 || len(candles) < lookback+1 {
		return 1.0
	}

	end := len(candles) - 1
	sum := 0.0
	for i := end - lookback; i < end; i++ {
		sum += candles[i].Volume
	}
	avg := sum / float64(lookback)
	if avg == 0 {
		return 1.0
	}
	return candles[end].Volume / avg
}
