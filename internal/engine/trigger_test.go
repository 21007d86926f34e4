package engine

import (
	"testing"
	"time"

	"intraday-alert-bot/internal/indicators"
)

func TestTriggerRequiresAgreement(t *testing.T) {
	e := testEngine()
	m1 := zigzagUp(time.Minute, 60, 95, 6)

	tests := []struct {
		name      string
		director  DirectorState
		validator ValidatorState
	}{
		{"bull director, neutral validator", DirectorBull, ValidatorNeutral},
		{"chop director, bull validator", DirectorChop, ValidatorBull},
		{"opposed states", DirectorBull, ValidatorBear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.evaluateTrigger(m1,
				&DirectorResult{State: tt.director},
				ValidatorResult{State: tt.validator},
				indicators.PivotPoints{})

			if res.Valid || res.Direction != DirectionNone {
				t.Errorf("trigger fired without agreement: %+v", res)
			}
		})
	}
}

func TestTriggerAllConditionsLong(t *testing.T) {
	e := testEngine()

	m1 := zigzagUp(time.Minute, 60, 95, 6)
	m1[len(m1)-1].Volume = 300

	// Pivot set derived from a 5m bar closing at 115 with a half-point body,
	// whose R1 sits within tolerance of the 115.5 entry.
	m5 := trending(5*time.Minute, 52, 90, 0.5)
	pivots := indicators.CalculatePivotPoints(m5[len(m5)-2])

	res := e.evaluateTrigger(m1,
		&DirectorResult{State: DirectorBull},
		ValidatorResult{State: ValidatorBull},
		pivots)

	if !res.Valid {
		t.Fatalf("trigger invalid, conditions: %+v", res.Conditions)
	}
	if res.Direction != DirectionLong {
		t.Errorf("Direction = %v, want %v", res.Direction, DirectionLong)
	}
	if !res.Conditions.All() {
		t.Errorf("Valid without all conditions: %+v", res.Conditions)
	}
}

func TestTriggerVetoesWeakRelativeVolume(t *testing.T) {
	e := testEngine()

	// Identical advance but the final bar trades ordinary volume.
	m1 := zigzagUp(time.Minute, 60, 95, 6)
	m5 := trending(5*time.Minute, 52, 90, 0.5)
	pivots := indicators.CalculatePivotPoints(m5[len(m5)-2])

	res := e.evaluateTrigger(m1,
		&DirectorResult{State: DirectorBull},
		ValidatorResult{State: ValidatorBull},
		pivots)

	if res.Conditions.RVOL {
		t.Error("ordinary volume should fail the RVOL gate")
	}
	if res.Valid {
		t.Errorf("trigger valid despite failed RVOL: %+v", res.Conditions)
	}
}

func TestTriggerShortHistory(t *testing.T) {
	e := testEngine()

	res := e.evaluateTrigger(flat(time.Minute, 2, 100),
		&DirectorResult{State: DirectorBull},
		ValidatorResult{State: ValidatorBull},
		indicators.PivotPoints{})

	if res.Valid {
		t.Error("trigger fired on two bars of history")
	}
}

func TestBollingerExpansion(t *testing.T) {
	e := testEngine()

	if e.bollingerExpanding(flat(time.Minute, 10, 100)) {
		t.Error("short window cannot read as expanding")
	}
	if e.bollingerExpanding(flat(time.Minute, 40, 100)) {
		t.Error("dead-flat bands cannot read as expanding")
	}
	if !e.bollingerExpanding(zigzagUp(time.Minute, 60, 95, 6)) {
		t.Error("a breakout bar should expand the bands")
	}
}
