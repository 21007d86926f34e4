package engine

// scoreConfidence computes the additive 0-100 confidence for a squeeze alert.
// Admission into an alert is binary (Validator and Trigger are all-or-
// nothing); confidence is where partial credit applies. Each contribution is
// independent, so flipping any single condition true never lowers the total.
func (e *Engine) scoreConfidence(director *DirectorResult, validator ValidatorResult, trigger TriggerResult) int {
	score := 0

	if director.BiasScore >= 4 || director.BiasScore <= -4 {
		score += 20
	}
	if validator.State != ValidatorNeutral {
		score += 15
	}
	if trigger.Conditions.VWAPHysteresis {
		score += 15
	}
	if trigger.Conditions.RVOL {
		score += 10
	}
	if trigger.Conditions.ADX {
		score += 10
	}
	if trigger.Conditions.RSI {
		score += 10
	}
	if trigger.Conditions.EWO {
		score += 5
	}
	if trigger.Conditions.Pivot {
		score += 5
	}
	if trigger.Conditions.BollingerExpansion {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
