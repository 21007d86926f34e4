package engine

import "time"

// Cooldown suppression labels.
const (
	cooldownOppositeBlocked = "opposite_direction_cooldown"
	cooldownAwaitingRetest  = "awaiting_vwap_retest"
)

// cooldownAllows applies the re-alert gate. Opposite-direction alerts are
// blocked for a fixed window after any alert; same-direction alerts stay
// blocked until price has retested VWAP since the last alert. Trap fades
// never consult this gate.
func (e *Engine) cooldownAllows(cd CooldownState, direction Direction, now time.Time) (bool, string) {
	if cd.LastAlertTime.IsZero() {
		return true, ""
	}

	if direction != cd.LastAlertDirection {
		if now.Sub(cd.LastAlertTime) < e.cfg.OppositeCooldown {
			return false, cooldownOppositeBlocked
		}
		return true, ""
	}

	if !cd.VWAPRetestSinceLastAlert {
		return false, cooldownAwaitingRetest
	}
	return true, ""
}

// afterAlert resets the cooldown state following an emitted alert.
func afterAlert(direction Direction, now time.Time) CooldownState {
	return CooldownState{
		LastAlertDirection:       direction,
		LastAlertTime:            now,
		VWAPRetestSinceLastAlert: false,
	}
}
