package indicators

import (
	"math"

	"intraday-alert-bot/internal/market"
)

// ============================================================================
// ADX (Average Directional Index) WITH DIRECTIONAL MOVEMENT
// ============================================================================

// ADXResult holds ADX and directional movement values.
type ADXResult struct {
	ADX       float64
	PlusDI    float64
	MinusDI   float64
	Direction TrendDirection
	Strength  TrendStrength
	Rising    bool
	Falling   bool
}

// diMargin is how far +DI must exceed -DI (or vice versa) before the reading
// counts as directional.
const diMargin = 5.0

// CalculateADX calculates ADX, +DI and -DI using Wilder's running-sum
// smoothing (not EMA). Needs 2*period+1 bars; degrades to a neutral zero
// result below that.
func CalculateADX(candles []market.Candle, period int) ADXResult {
	neutral := ADXResult{Direction: DirectionNeutral, Strength: StrengthNoTrend}
	if period <= 0 || len(candles) < 2*period+1 {
		return neutral
	}

	n := len(candles)
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)

	for i := 1; i < n; i++ {
		cur, prev := candles[i], candles[i-1]
		tr[i] = math.Max(cur.Range(), math.Max(
			math.Abs(cur.High-prev.Close),
			math.Abs(cur.Low-prev.Close),
		))

		upMove := cur.High - prev.High
		downMove := prev.Low - cur.Low
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	// Wilder running-sum smoothing: seed with the sum of the first period,
	// then s = s - s/period + current.
	var smTR, smPlus, smMinus float64
	for i := 1; i <= period; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	var plusDI, minusDI float64
	dx := make([]float64, 0, n-period)
	for i := period + 1; i < n; i++ {
		smTR = smTR - smTR/float64(period) + tr[i]
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]

		if smTR == 0 {
			plusDI, minusDI = 0, 0
		} else {
			plusDI = 100 * smPlus / smTR
			minusDI = 100 * smMinus / smTR
		}

		diSum := plusDI + minusDI
		if diSum == 0 {
			dx = append(dx, 0)
		} else {
			dx = append(dx, 100*math.Abs(plusDI-minusDI)/diSum)
		}
	}

	if len(dx) < period {
		return neutral
	}

	// ADX is Wilder-smoothed DX; keep the previous value for the rising check.
	adx := 0.0
	for i := 0; i < period; i++ {
		adx += dx[i]
	}
	adx /= float64(period)
	prevADX := adx
	for i := period; i < len(dx); i++ {
		prevADX = adx
		adx = (adx*float64(period-1) + dx[i]) / float64(period)
	}

	result := ADXResult{
		ADX:     adx,
		PlusDI:  plusDI,
		MinusDI: minusDI,
		Rising:  adx > prevADX,
		Falling: adx < prevADX,
	}

	switch {
	case plusDI-minusDI > diMargin:
		result.Direction = DirectionBullish
	case minusDI-plusDI > diMargin:
		result.Direction = DirectionBearish
	default:
		result.Direction = DirectionNeutral
	}

	switch {
	case adx < 15:
		result.Strength = StrengthNoTrend
	case adx < 25:
		result.Strength = StrengthWeak
	case adx < 40:
		result.Strength = StrengthModerate
	case adx < 50:
		result.Strength = StrengthStrong
	default:
		result.Strength = StrengthVeryStrong
	}

	return result
}

// ============================================================================
// SUPERTREND
// ============================================================================

// SuperTrendResult holds the trailing stop value, the current trend and the
// per-bar trend series used for hysteresis checks.
type SuperTrendResult struct {
	Value  float64
	Trend  TrendDirection
	Signal SignalAction
	Trends []TrendDirection
}

// CalculateSuperTrend calculates an ATR-banded trailing stop. The upper band
// only ratchets downward unless price closes above it, the lower band only
// ratchets upward unless price closes below it. Signal fires BUY/SELL only on
// the bar where the trend flips.
func CalculateSuperTrend(candles []market.Candle, period int, multiplier float64) SuperTrendResult {
	if period <= 0 || len(candles) < period+1 {
		return SuperTrendResult{Trend: DirectionNeutral, Signal: ActionHold}
	}

	n := len(candles)
	atr := CalculateATRSeries(candles, period)

	finalUpper := make([]float64, n)
	finalLower := make([]float64, n)
	trends := make([]TrendDirection, n)

	for i := 0; i < n; i++ {
		mid := (candles[i].High + candles[i].Low) / 2
		basicUpper := mid + multiplier*atr[i]
		basicLower := mid - multiplier*atr[i]

		if i == 0 {
			finalUpper[i] = basicUpper
			finalLower[i] = basicLower
			trends[i] = DirectionBullish
			continue
		}

		prevClose := candles[i-1].Close
		if basicUpper < finalUpper[i-1] || prevClose > finalUpper[i-1] {
			finalUpper[i] = basicUpper
		} else {
			finalUpper[i] = finalUpper[i-1]
		}
		if basicLower > finalLower[i-1] || prevClose < finalLower[i-1] {
			finalLower[i] = basicLower
		} else {
			finalLower[i] = finalLower[i-1]
		}

		if trends[i-1] == DirectionBullish {
			if candles[i].Close < finalLower[i] {
				trends[i] = DirectionBearish
			} else {
				trends[i] = DirectionBullish
			}
		} else {
			if candles[i].Close > finalUpper[i] {
				trends[i] = DirectionBullish
			} else {
				trends[i] = DirectionBearish
			}
		}
	}

	result := SuperTrendResult{
		Trend:  trends[n-1],
		Signal: ActionHold,
		Trends: trends,
	}
	if trends[n-1] == DirectionBullish {
		result.Value = finalLower[n-1]
		if trends[n-2] == DirectionBearish {
			result.Signal = ActionBuy
		}
	} else {
		result.Value = finalUpper[n-1]
		if trends[n-2] == DirectionBullish {
			result.Signal = ActionSell
		}
	}
	return result
}

// ============================================================================
// EWO (Elliott Wave Oscillator)
// ============================================================================

// EWOResult holds the oscillator value, the prior bar's value and the
// zero-cross signal.
type EWOResult struct {
	Value  float64
	Prev   float64
	Rising bool
	Signal SignalAction
}

// CalculateEWO calculates the difference of two close EMAs. Signal fires only
// on the bar where the oscillator crosses zero.
func CalculateEWO(candles []market.Candle, shortPeriod, longPeriod int) EWOResult {
	if len(candles) < longPeriod+1 {
		return EWOResult{Signal: ActionHold}
	}

	closes := market.Closes(candles)
	short := emaSeries(closes, shortPeriod)
	long := emaSeries(closes, longPeriod)

	n := len(closes)
	value := short[n-1] - long[n-1]
	prev := short[n-2] - long[n-2]

	result := EWOResult{
		Value:  value,
		Prev:   prev,
		Rising: value > prev,
		Signal: ActionHold,
	}
	if prev <= 0 && value > 0 {
		result.Signal = ActionBuy
	} else if prev >= 0 && value < 0 {
		result.Signal = ActionSell
	}
	return result
}

// ============================================================================
// ICHIMOKU CLOUD
// ============================================================================

// IchimokuResult holds Ichimoku component values. Spans are intentionally NOT
// forward-shifted by 26 bars: the cloud bounds reflect the current-bar spanA
// and spanB, which is what the real-time bias pipeline consumes.
type IchimokuResult struct {
	Tenkan      float64
	Kijun       float64
	SpanA       float64
	SpanB       float64
	CloudTop    float64
	CloudBottom float64
}

// midpoint returns (highest high + lowest low) / 2 over the trailing period.
func midpoint(candles []market.Candle, period int) float64 {
	start := len(candles) - period
	highest := candles[start].High
	lowest := candles[start].Low
	for i := start; i < len(candles); i++ {
		if candles[i].High > highest {
			highest = candles[i].High
		}
		if candles[i].Low < lowest {
			lowest = candles[i].Low
		}
	}
	return (highest + lowest) / 2
}

// CalculateIchimoku calculates tenkan, kijun and the unshifted senkou spans.
func CalculateIchimoku(candles []market.Candle, tenkanPeriod, kijunPeriod, senkouBPeriod int) IchimokuResult {
	if len(candles) < senkouBPeriod {
		return IchimokuResult{}
	}

	tenkan := midpoint(candles, tenkanPeriod)
	kijun := midpoint(candles, kijunPeriod)
	spanA := (tenkan + kijun) / 2
	spanB := midpoint(candles, senkouBPeriod)

	return IchimokuResult{
		Tenkan:      tenkan,
		Kijun:       kijun,
		SpanA:       spanA,
		SpanB:       spanB,
		CloudTop:    math.Max(spanA, spanB),
		CloudBottom: math.Min(spanA, spanB),
	}
}

// PriceLocation classifies price relative to the cloud. An undefined cloud
// (too little history) reads as inside, which is the conservative answer for
// every consumer.
func (r IchimokuResult) PriceLocation(price float64) CloudPosition {
	if r.CloudTop == 0 && r.CloudBottom == 0 {
		return InsideCloud
	}
	if price > r.CloudTop {
		return AboveCloud
	}
	if price < r.CloudBottom {
		return BelowCloud
	}
	return InsideCloud
}
