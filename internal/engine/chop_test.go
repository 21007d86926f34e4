package engine

import (
	"testing"
	"time"
)

func TestChopInsideCloudVetoes(t *testing.T) {
	e := testEngine()

	chop, reason := e.isChop(&DirectorResult{InsideCloud: true},
		trending(5*time.Minute, 60, 90, 0.5),
		trending(2*time.Minute, 40, 100, 0.3),
		trending(time.Minute, 60, 95, 0.35))

	if !chop || reason != chopInsideCloud {
		t.Errorf("isChop = (%v, %q), want (true, %q)", chop, reason, chopInsideCloud)
	}
}

func TestChopVWAPChurn(t *testing.T) {
	e := testEngine()

	// 1m tape whipsawing across its VWAP every bar.
	closes := make([]float64, 40)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 99
		} else {
			closes[i] = 101
		}
	}
	m1 := candlesFromCloses(time.Minute, closes...)

	chop, reason := e.isChop(&DirectorResult{},
		flat(5*time.Minute, 60, 100),
		flat(2*time.Minute, 40, 100),
		m1)

	if !chop || reason != chopVWAPChurn {
		t.Errorf("isChop = (%v, %q), want (true, %q)", chop, reason, chopVWAPChurn)
	}
}

func TestChopTightBandsAtVWAP(t *testing.T) {
	e := testEngine()

	chop, reason := e.isChop(&DirectorResult{},
		flat(5*time.Minute, 60, 100),
		flat(2*time.Minute, 40, 100),
		flat(time.Minute, 60, 100))

	if !chop || reason != chopTightBands {
		t.Errorf("isChop = (%v, %q), want (true, %q)", chop, reason, chopTightBands)
	}
}

func TestChopPassesTrendingTape(t *testing.T) {
	e := testEngine()

	chop, reason := e.isChop(&DirectorResult{},
		trending(5*time.Minute, 60, 90, 0.5),
		trending(2*time.Minute, 40, 100, 0.3),
		trending(time.Minute, 60, 95, 0.35))

	if chop {
		t.Errorf("trending tape vetoed as chop: %q", reason)
	}
}
