package engine

import (
	"intraday-alert-bot/internal/indicators"
	"intraday-alert-bot/internal/market"
)

// trapLevelTolerance is how close (fractionally) a wick extreme must come to
// a pivot or Bollinger level to count as a liquidity sweep of that level.
const trapLevelTolerance = 0.001

// evaluateTrap runs the 1-minute liquidity-wick detector. An active,
// unexpired state is carried forward unchanged; otherwise the most recent bar
// is examined against the preceding baseline. All four trap conditions must
// hold to arm a new trap.
func (e *Engine) evaluateTrap(m1 []market.Candle, pivots indicators.PivotPoints, barIndex int, prev TrapModeState) TrapModeState {
	if prev.Active && barIndex < prev.ExpiresAtIndex {
		return prev
	}

	inactive := TrapModeState{Type: TrapNone}
	baseline := e.cfg.TrapBaselineBars
	if len(m1) < baseline+1 {
		return inactive
	}

	bar := m1[len(m1)-1]
	barRange := bar.Range()
	if barRange <= 0 {
		return inactive
	}

	var volSum, rangeSum float64
	for i := len(m1) - 1 - baseline; i < len(m1)-1; i++ {
		volSum += m1[i].Volume
		rangeSum += m1[i].Range()
	}
	avgVol := volSum / float64(baseline)
	avgRange := rangeSum / float64(baseline)
	if avgVol == 0 || avgRange == 0 {
		return inactive
	}

	if bar.Volume < e.cfg.TrapVolumeMult*avgVol || barRange < e.cfg.TrapRangeMult*avgRange {
		return inactive
	}

	if !e.wickAtKeyLevel(bar, m1, pivots) {
		return inactive
	}

	// One wick must consume enough of the range opposite the close direction:
	// a long upper wick into a red close sweeps buyers, a long lower wick
	// into a green close sweeps sellers.
	trapType := TrapNone
	if bar.UpperWick() >= e.cfg.TrapWickFraction*barRange && bar.IsRed() {
		trapType = TrapUpWick
	} else if bar.LowerWick() >= e.cfg.TrapWickFraction*barRange && bar.IsGreen() {
		trapType = TrapDownWick
	}
	if trapType == TrapNone {
		return inactive
	}

	return TrapModeState{
		Active:         true,
		Type:           trapType,
		ExpiresAtIndex: barIndex + e.cfg.TrapExpiryBars,
		WickHigh:       bar.High,
		WickLow:        bar.Low,
		TrapCandle:     bar,
	}
}

// wickAtKeyLevel reports whether the bar's high or low tags a pivot or
// Bollinger-band level within tolerance.
func (e *Engine) wickAtKeyLevel(bar market.Candle, m1 []market.Candle, pivots indicators.PivotPoints) bool {
	levels := pivots.Levels()
	bb := indicators.CalculateBollingerBands(m1, e.cfg.BollingerPeriod, e.cfg.BollingerStdDev)
	if bb.Middle > 0 {
		levels = append(levels, bb.Upper, bb.Lower)
	}

	for _, level := range levels {
		if indicators.IsNearLevel(bar.High, level, trapLevelTolerance) ||
			indicators.IsNearLevel(bar.Low, level, trapLevelTolerance) {
			return true
		}
	}
	return false
}

// confirmFade checks whether the current bars resolve an active trap into a
// fade entry. An UP_WICK trap fades short once sellers take control; a
// DOWN_WICK trap fades long on the mirror conditions.
func (e *Engine) confirmFade(m1 []market.Candle, trap TrapModeState) (bool, Direction) {
	if !trap.Active || len(m1) < 2 {
		return false, DirectionNone
	}

	cur := m1[len(m1)-1]
	prior := m1[len(m1)-2]
	vwap := indicators.CalculateVWAP(m1).Value
	rsi := indicators.CalculateRSI(m1, e.cfg.RSIPeriod)

	switch trap.Type {
	case TrapUpWick:
		if cur.Close < vwap && prior.Close < vwap &&
			cur.High < prior.High && rsi < 50 && cur.IsRed() {
			return true, DirectionShort
		}
	case TrapDownWick:
		if cur.Close > vwap && prior.Close > vwap &&
			cur.Low > prior.Low && rsi > 50 && cur.IsGreen() {
			return true, DirectionLong
		}
	}
	return false, DirectionNone
}
