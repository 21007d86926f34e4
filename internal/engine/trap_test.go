package engine

import (
	"testing"
	"time"

	"intraday-alert-bot/internal/indicators"
	"intraday-alert-bot/internal/market"
)

// trapBaseline builds a quiet tape the wick bar can stand out against.
func trapBaseline(n int, price float64) []market.Candle {
	return flat(time.Minute, n, price)
}

// upWickBar is a red bar with a long upper wick, double baseline volume and
// an expanded range, closing just under its open.
func upWickBar(after []market.Candle, wickHigh float64) market.Candle {
	prev := after[len(after)-1]
	return market.Candle{
		Timestamp: prev.Timestamp.Add(time.Minute),
		Open:      prev.Close + 0.3,
		High:      wickHigh,
		Low:       prev.Close - 0.2,
		Close:     prev.Close - 0.1,
		Volume:    300,
	}
}

func TestTrapArmsOnUpWickAtPivot(t *testing.T) {
	e := testEngine()

	m1 := trapBaseline(30, 100)
	bar := upWickBar(m1, 103)
	m1 = append(m1, bar)

	pivots := indicators.PivotPoints{R1: 103}
	trap := e.evaluateTrap(m1, pivots, 31, TrapModeState{Type: TrapNone})

	if !trap.Active {
		t.Fatal("trap should arm on a high-volume wide-range wick at a pivot")
	}
	if trap.Type != TrapUpWick {
		t.Errorf("Type = %v, want %v", trap.Type, TrapUpWick)
	}
	if want := 31 + e.cfg.TrapExpiryBars; trap.ExpiresAtIndex != want {
		t.Errorf("ExpiresAtIndex = %d, want %d", trap.ExpiresAtIndex, want)
	}
	if trap.WickHigh != bar.High || trap.WickLow != bar.Low {
		t.Errorf("wick bounds = (%v, %v), want (%v, %v)", trap.WickHigh, trap.WickLow, bar.High, bar.Low)
	}
}

func TestTrapRequiresAllConditions(t *testing.T) {
	e := testEngine()
	pivots := indicators.PivotPoints{R1: 103}

	t.Run("normal volume", func(t *testing.T) {
		m1 := trapBaseline(30, 100)
		bar := upWickBar(m1, 103)
		bar.Volume = 100
		m1 = append(m1, bar)

		if trap := e.evaluateTrap(m1, pivots, 31, TrapModeState{Type: TrapNone}); trap.Active {
			t.Error("trap armed without a volume spike")
		}
	})

	t.Run("wick away from any level", func(t *testing.T) {
		m1 := trapBaseline(30, 100)
		m1 = append(m1, upWickBar(m1, 103))

		if trap := e.evaluateTrap(m1, indicators.PivotPoints{R1: 150}, 31, TrapModeState{Type: TrapNone}); trap.Active {
			t.Error("trap armed with the wick tagging no key level")
		}
	})

	t.Run("green close rejects an up-wick", func(t *testing.T) {
		m1 := trapBaseline(30, 100)
		bar := upWickBar(m1, 103)
		bar.Close = bar.Open + 0.1 // same wick, green body
		m1 = append(m1, bar)

		if trap := e.evaluateTrap(m1, pivots, 31, TrapModeState{Type: TrapNone}); trap.Active {
			t.Error("up-wick trap requires a red close")
		}
	})
}

func TestTrapCarriesForwardUntilExpiry(t *testing.T) {
	e := testEngine()

	armed := TrapModeState{Active: true, Type: TrapUpWick, ExpiresAtIndex: 34}
	m1 := trapBaseline(31, 100)

	carried := e.evaluateTrap(m1, indicators.PivotPoints{}, 32, armed)
	if carried != armed {
		t.Errorf("unexpired trap mutated: %+v", carried)
	}

	// Past the expiry index the state is re-derived from the (quiet) tape.
	expired := e.evaluateTrap(m1, indicators.PivotPoints{}, 34, armed)
	if expired.Active {
		t.Errorf("trap survived expiry: %+v", expired)
	}
}

func TestConfirmFadeShort(t *testing.T) {
	e := testEngine()

	// Sellers in control after the up-wick: declining closes under VWAP,
	// lower highs, weak RSI, red final bar.
	m1 := trending(time.Minute, 40, 130, -0.5)
	trap := TrapModeState{Active: true, Type: TrapUpWick, ExpiresAtIndex: 100}

	ok, direction := e.confirmFade(m1, trap)
	if !ok || direction != DirectionShort {
		t.Errorf("confirmFade = (%v, %v), want (true, %v)", ok, direction, DirectionShort)
	}
}

func TestConfirmFadeLong(t *testing.T) {
	e := testEngine()

	m1 := trending(time.Minute, 40, 100, 0.5)
	trap := TrapModeState{Active: true, Type: TrapDownWick, ExpiresAtIndex: 100}

	ok, direction := e.confirmFade(m1, trap)
	if !ok || direction != DirectionLong {
		t.Errorf("confirmFade = (%v, %v), want (true, %v)", ok, direction, DirectionLong)
	}
}

func TestConfirmFadeRejectsCounterTape(t *testing.T) {
	e := testEngine()

	// Price climbing after an up-wick trap: no fade.
	m1 := trending(time.Minute, 40, 100, 0.5)
	trap := TrapModeState{Active: true, Type: TrapUpWick, ExpiresAtIndex: 100}

	if ok, _ := e.confirmFade(m1, trap); ok {
		t.Error("fade confirmed against a rising tape")
	}
}
