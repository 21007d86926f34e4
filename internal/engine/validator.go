package engine

import (
	"intraday-alert-bot/internal/indicators"
	"intraday-alert-bot/internal/market"
)

// evaluateValidator runs the 2-minute confirmation gate. Each side needs all
// five of its conditions; the final state additionally requires agreement
// with the Director. Runs fresh every cycle, never cached. When the 2-minute
// window is too short for a meaningful ADX, the 1-minute window stands in for
// that one check.
func (e *Engine) evaluateValidator(m2, m1 []market.Candle, director *DirectorResult) ValidatorResult {
	price := market.LastClose(m2)
	vwap := indicators.CalculateVWAP(m2)
	st := indicators.CalculateSuperTrend(m2, e.cfg.SuperTrendPeriod, e.cfg.SuperTrendMultiplier)
	rsiSeries := indicators.CalculateRSISeries(m2, e.cfg.RSIPeriod)
	ewo := indicators.CalculateEWO(m2, e.cfg.EWOShortPeriod, e.cfg.EWOLongPeriod)

	adxWindow := m2
	if len(m2) < e.cfg.MinBars2m {
		adxWindow = m1
	}
	adx := indicators.CalculateADX(adxWindow, e.cfg.ADXPeriod)

	rsi, rsiPrev := 50.0, 50.0
	if n := len(rsiSeries); n > 0 {
		rsi = rsiSeries[n-1]
		if n > 1 {
			rsiPrev = rsiSeries[n-2]
		}
	}

	adxOK := adx.ADX >= 18 || adx.Rising

	result := ValidatorResult{
		Long: SideConditions{
			PriceVsVWAP: price > vwap.Value,
			SuperTrend:  st.Trend == indicators.DirectionBullish,
			RSI:         rsi >= 52 && rsi > rsiPrev,
			EWO:         ewo.Value > 0 || ewo.Rising,
			ADX:         adxOK,
		},
		Short: SideConditions{
			PriceVsVWAP: price < vwap.Value && price > 0,
			SuperTrend:  st.Trend == indicators.DirectionBearish,
			RSI:         rsi <= 48 && rsi < rsiPrev,
			EWO:         ewo.Value < 0 || ewo.Value < ewo.Prev,
			ADX:         adxOK,
		},
	}

	result.LongValid = result.Long.All()
	result.ShortValid = result.Short.All()

	result.State = ValidatorNeutral
	if result.LongValid && director.State == DirectorBull {
		result.State = ValidatorBull
	} else if result.ShortValid && director.State == DirectorBear {
		result.State = ValidatorBear
	}
	return result
}
