package engine

import (
	"testing"
	"time"
)

func TestCooldownAllows(t *testing.T) {
	e := testEngine()
	alertAt := cycleTime

	tests := []struct {
		name       string
		state      CooldownState
		direction  Direction
		now        time.Time
		wantAllow  bool
		wantReason string
	}{
		{
			name:      "no prior alert",
			state:     CooldownState{},
			direction: DirectionLong,
			now:       alertAt,
			wantAllow: true,
		},
		{
			name:       "opposite inside window",
			state:      CooldownState{LastAlertDirection: DirectionLong, LastAlertTime: alertAt},
			direction:  DirectionShort,
			now:        alertAt.Add(2 * time.Minute),
			wantAllow:  false,
			wantReason: cooldownOppositeBlocked,
		},
		{
			name:      "opposite after window",
			state:     CooldownState{LastAlertDirection: DirectionLong, LastAlertTime: alertAt},
			direction: DirectionShort,
			now:       alertAt.Add(3 * time.Minute),
			wantAllow: true,
		},
		{
			name:       "same direction without retest",
			state:      CooldownState{LastAlertDirection: DirectionLong, LastAlertTime: alertAt},
			direction:  DirectionLong,
			now:        alertAt.Add(30 * time.Minute),
			wantAllow:  false,
			wantReason: cooldownAwaitingRetest,
		},
		{
			name: "same direction after retest",
			state: CooldownState{
				LastAlertDirection:       DirectionLong,
				LastAlertTime:            alertAt,
				VWAPRetestSinceLastAlert: true,
			},
			direction: DirectionLong,
			now:       alertAt.Add(5 * time.Minute),
			wantAllow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allow, reason := e.cooldownAllows(tt.state, tt.direction, tt.now)
			if allow != tt.wantAllow || reason != tt.wantReason {
				t.Errorf("cooldownAllows = (%v, %q), want (%v, %q)",
					allow, reason, tt.wantAllow, tt.wantReason)
			}
		})
	}
}

func TestAfterAlertResetsState(t *testing.T) {
	cd := afterAlert(DirectionShort, cycleTime)

	if cd.LastAlertDirection != DirectionShort {
		t.Errorf("direction = %v, want %v", cd.LastAlertDirection, DirectionShort)
	}
	if !cd.LastAlertTime.Equal(cycleTime) {
		t.Errorf("time = %v, want %v", cd.LastAlertTime, cycleTime)
	}
	if cd.VWAPRetestSinceLastAlert {
		t.Error("retest flag must reset after an alert")
	}
}
