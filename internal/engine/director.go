package engine

import (
	"time"

	"intraday-alert-bot/internal/indicators"
	"intraday-alert-bot/internal/market"
)

// evaluateDirector classifies the 5-minute bias. The previous result is
// reused unchanged until its lock expires, which pins the bias for every
// intra-candle invocation and prevents flicker. A fresh result locks until
// the next 5-minute boundary after now.
func (e *Engine) evaluateDirector(m5 []market.Candle, now time.Time, prev *DirectorResult) *DirectorResult {
	if prev != nil && now.Before(prev.LockedUntil) {
		return prev
	}

	lockedUntil := market.TF5m.NextBoundary(now)
	if len(m5) < e.cfg.MinBars5m {
		return &DirectorResult{State: DirectorChop, LockedUntil: lockedUntil}
	}

	price := market.LastClose(m5)
	st := indicators.CalculateSuperTrend(m5, e.cfg.SuperTrendPeriod, e.cfg.SuperTrendMultiplier)
	vwap := indicators.CalculateVWAP(m5)
	rsi := indicators.CalculateRSI(m5, e.cfg.RSIPeriod)
	ewo := indicators.CalculateEWO(m5, e.cfg.EWOShortPeriod, e.cfg.EWOLongPeriod)
	adx := indicators.CalculateADX(m5, e.cfg.ADXPeriod)
	cloud := indicators.CalculateIchimoku(m5, e.cfg.TenkanPeriod, e.cfg.KijunPeriod, e.cfg.SenkouBPeriod)

	var votes BiasVotes

	switch st.Trend {
	case indicators.DirectionBullish:
		votes.SuperTrend = 1
	case indicators.DirectionBearish:
		votes.SuperTrend = -1
	}

	switch vwap.Position {
	case indicators.AboveVWAP, indicators.AboveUpperBand:
		votes.VWAP = 1
	case indicators.BelowVWAP, indicators.BelowLowerBand:
		votes.VWAP = -1
	}

	if rsi > 55 {
		votes.RSI = 1
	} else if rsi < 45 {
		votes.RSI = -1
	}

	if ewo.Value > 0 && ewo.Rising {
		votes.EWO = 1
	} else if ewo.Value < 0 && !ewo.Rising {
		votes.EWO = -1
	}

	// ADX only votes when the trend has both strength and expansion; a DI
	// direction that disagrees with SuperTrend simply fails to add, it is
	// never an error.
	if adx.ADX >= 18 && adx.Rising {
		switch adx.Direction {
		case indicators.DirectionBullish:
			votes.ADX = 1
		case indicators.DirectionBearish:
			votes.ADX = -1
		}
	}

	location := cloud.PriceLocation(price)
	insideCloud := location == indicators.InsideCloud
	switch location {
	case indicators.AboveCloud:
		votes.Ichimoku = 1
	case indicators.BelowCloud:
		votes.Ichimoku = -1
	}

	score := votes.Sum()
	state := DirectorChop
	switch {
	case insideCloud:
		state = DirectorChop
	case score >= 3:
		state = DirectorBull
	case score <= -3:
		state = DirectorBear
	}

	return &DirectorResult{
		State:       state,
		BiasScore:   score,
		Votes:       votes,
		LockedUntil: lockedUntil,
		InsideCloud: insideCloud,
	}
}
