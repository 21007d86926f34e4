package engine

import (
	"fmt"

	"intraday-alert-bot/internal/indicators"
	"intraday-alert-bot/internal/market"
)

// evaluateTrigger runs the 1-minute entry-timing check. It only produces a
// direction when Director and Validator agree on a side, and then requires
// all nine confirming conditions simultaneously. Like the Validator it is
// all-or-nothing: partial credit belongs to the confidence scorer, not here.
func (e *Engine) evaluateTrigger(m1 []market.Candle, director *DirectorResult, validator ValidatorResult, pivots indicators.PivotPoints) TriggerResult {
	result := TriggerResult{Direction: DirectionNone}

	var direction Direction
	switch {
	case director.State == DirectorBull && validator.State == ValidatorBull:
		direction = DirectionLong
	case director.State == DirectorBear && validator.State == ValidatorBear:
		direction = DirectionShort
	default:
		result.Reason = "director/validator disagree"
		return result
	}

	if len(m1) < 3 {
		result.Reason = "insufficient 1m history"
		return result
	}

	n := len(m1)
	price := m1[n-1].Close
	vwap := indicators.CalculateVWAP(m1)
	st := indicators.CalculateSuperTrend(m1, e.cfg.SuperTrendPeriod, e.cfg.SuperTrendMultiplier)
	rvol := indicators.CalculateRVOL(m1, e.cfg.RVOLLookback)
	adx := indicators.CalculateADX(m1, e.cfg.ADXPeriod)
	rsiSeries := indicators.CalculateRSISeries(m1, e.cfg.RSIPeriod)
	ewo := indicators.CalculateEWO(m1, e.cfg.EWOShortPeriod, e.cfg.EWOLongPeriod)
	cloud := indicators.CalculateIchimoku(m1, e.cfg.TenkanPeriod, e.cfg.KijunPeriod, e.cfg.SenkouBPeriod)

	rsi, rsiPrev := 50.0, 50.0
	if len(rsiSeries) > 1 {
		rsi = rsiSeries[len(rsiSeries)-1]
		rsiPrev = rsiSeries[len(rsiSeries)-2]
	}

	long := direction == DirectionLong
	cond := TriggerConditions{
		RVOL:           rvol >= e.cfg.RVOLThreshold,
		ADX:            adx.ADX >= 18 && !adx.Falling,
		NotInsideCloud: cloud.PriceLocation(price) != indicators.InsideCloud,
	}

	// Two-consecutive-bar hysteresis on VWAP side and SuperTrend color
	// debounces single-bar noise.
	if long {
		cond.VWAPHysteresis = m1[n-1].Close > vwap.Value && m1[n-2].Close > vwap.Value
		cond.SuperTrendHysteresis = len(st.Trends) >= 2 &&
			st.Trends[n-1] == indicators.DirectionBullish &&
			st.Trends[n-2] == indicators.DirectionBullish
		cond.RSI = rsi >= 52 && rsi > rsiPrev
		cond.EWO = ewo.Value > 0 && ewo.Rising
	} else {
		cond.VWAPHysteresis = m1[n-1].Close < vwap.Value && m1[n-2].Close < vwap.Value
		cond.SuperTrendHysteresis = len(st.Trends) >= 2 &&
			st.Trends[n-1] == indicators.DirectionBearish &&
			st.Trends[n-2] == indicators.DirectionBearish
		cond.RSI = rsi <= 48 && rsi < rsiPrev
		cond.EWO = ewo.Value < 0 && !ewo.Rising
	}

	pivotOK, pivotLevel := indicators.CheckPivotConfirmation(price, pivots, e.cfg.PivotTolerance)
	cond.Pivot = pivotOK

	cond.BollingerExpansion = e.bollingerExpanding(m1)

	result.Conditions = cond
	result.Valid = cond.All()
	if result.Valid {
		result.Direction = direction
		result.Reason = fmt.Sprintf("%s squeeze confirmed at %s", direction, pivotLevel)
	} else {
		result.Reason = "trigger conditions not met"
	}
	return result
}

// bollingerExpanding reports whether the current bandwidth has grown by more
// than 10% versus the bandwidth five bars ago.
func (e *Engine) bollingerExpanding(m1 []market.Candle) bool {
	const lag = 5
	if len(m1) < e.cfg.BollingerPeriod+lag {
		return false
	}

	now := indicators.CalculateBollingerBands(m1, e.cfg.BollingerPeriod, e.cfg.BollingerStdDev).Bandwidth()
	then := indicators.CalculateBollingerBands(m1[:len(m1)-lag], e.cfg.BollingerPeriod, e.cfg.BollingerStdDev).Bandwidth()
	if then <= 0 {
		return now > 0
	}
	return now > then*1.10
}
