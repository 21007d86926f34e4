package engine

import (
	"intraday-alert-bot/internal/indicators"
	"intraday-alert-bot/internal/market"
)

// Chop filter veto reasons, also used as suppression labels.
const (
	chopInsideCloud   = "inside_cloud"
	chopWeakADX       = "adx_weak_falling"
	chopVWAPChurn     = "vwap_churn"
	chopTightBands    = "tight_bands_at_vwap"
	vwapChurnLookback = 10
	vwapChurnCrosses  = 3
)

// isChop is the cross-timeframe noise veto consulted before the Trigger. Any
// true condition short-circuits the cycle with no alert.
func (e *Engine) isChop(director *DirectorResult, m5, m2, m1 []market.Candle) (bool, string) {
	if director.InsideCloud {
		return true, chopInsideCloud
	}

	for _, window := range [][]market.Candle{m5, m2} {
		adx := indicators.CalculateADX(window, e.cfg.ADXPeriod)
		if adx.ADX > 0 && adx.ADX < 16 && adx.Falling {
			return true, chopWeakADX
		}
	}

	if countVWAPCrosses(m1, vwapChurnLookback) >= vwapChurnCrosses {
		return true, chopVWAPChurn
	}

	bb := indicators.CalculateBollingerBands(m1, e.cfg.BollingerPeriod, e.cfg.BollingerStdDev)
	vwap := indicators.CalculateVWAP(m1)
	price := market.LastClose(m1)
	if bb.Middle > 0 && bb.Bandwidth() < 0.01 && vwap.IsNearVWAP(price, 0.001) {
		return true, chopTightBands
	}

	return false, ""
}

// countVWAPCrosses counts how many times the close flipped sides of the
// window VWAP across the trailing lookback bars.
func countVWAPCrosses(m1 []market.Candle, lookback int) int {
	if len(m1) < 2 {
		return 0
	}

	vwap := indicators.CalculateVWAP(m1).Value
	if vwap == 0 {
		return 0
	}

	start := len(m1) - lookback
	if start < 1 {
		start = 1
	}

	crosses := 0
	for i := start; i < len(m1); i++ {
		prevAbove := m1[i-1].Close > vwap
		curAbove := m1[i].Close > vwap
		if prevAbove != curAbove {
			crosses++
		}
	}
	return crosses
}
