// Package engine implements the multi-timeframe decision pipeline that turns
// candle series into at most one actionable alert per evaluation cycle. The
// pipeline is pure and re-entrant: all cross-cycle state (Director cache,
// trap mode, cooldown) is passed in by the caller and returned updated, and
// the current time is injected, so the engine holds no hidden mutable state
// and can be sharded per symbol.
package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"intraday-alert-bot/internal/indicators"
	"intraday-alert-bot/internal/market"
)

// Suppression labels surfaced on alert-free cycles.
const (
	suppressInsufficientHistory = "insufficient_history"
	suppressTrapActive          = "trap_active"
	suppressDirectorChop        = "director_chop"
	suppressTriggerInvalid      = "trigger_invalid"
)

// trapFadeConfidence is the fixed confidence assigned to trap-fade alerts.
const trapFadeConfidence = 75

// Hold-time guidance attached to alerts.
const (
	squeezeHoldTime  = "10-20m"
	trapFadeHoldTime = "5-10m"
)

// Engine is the alert decision engine for one symbol class. It carries only
// configuration and a logger; per-symbol state lives with the caller.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// NewEngine creates an engine, filling unset config fields with defaults.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg.withDefaults(),
		log: log.With().Str("component", "engine").Logger(),
	}
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate runs one full Orchestrator cycle: Director (cache-aware) ->
// Validator -> Trap (cache-aware) -> Chop -> Trigger -> Cooldown ->
// Confidence. It is called once per closed 1-minute bar and always returns
// the updated state objects, with or without an alert. There are no error
// returns: every unresolvable condition degrades to a suppressed cycle.
func (e *Engine) Evaluate(in Input) CycleResult {
	director := e.evaluateDirector(in.M5, in.Now, in.Director)
	validator := e.evaluateValidator(in.M2, in.M1, director)

	cooldown := in.Cooldown
	if !cooldown.LastAlertTime.IsZero() && !cooldown.VWAPRetestSinceLastAlert {
		vwap := indicators.CalculateVWAP(in.M1)
		if vwap.IsNearVWAP(market.LastClose(in.M1), e.cfg.VWAPRetestTolerance) {
			cooldown.VWAPRetestSinceLastAlert = true
		}
	}

	pivots := e.pivotLevels(in.M5)
	trap := e.evaluateTrap(in.M1, pivots, in.barIndex(), in.Trap)

	res := CycleResult{
		Director:  director,
		Validator: validator,
		Trigger:   TriggerResult{Direction: DirectionNone},
		Trap:      trap,
		Cooldown:  cooldown,
	}

	if len(in.M5) < e.cfg.MinBars5m || len(in.M2) < e.cfg.MinBars2m || len(in.M1) < e.cfg.MinBars1m {
		res.Suppression = suppressInsufficientHistory
		return res
	}

	// An active trap overrides the whole squeeze path: either it resolves
	// into a fade entry now, or nothing fires until it expires.
	if trap.Active {
		if ok, direction := e.confirmFade(in.M1, trap); ok {
			alert := e.buildAlert(in, fadeAlertType(direction), direction, trapFadeConfidence,
				fmt.Sprintf("%s trap faded", trap.Type),
				e.cfg.TrapStopATR, e.cfg.TrapTargetATR, trapFadeHoldTime, director, validator)
			res.Alert = alert
			res.Trap = TrapModeState{Type: TrapNone}
			res.Cooldown = afterAlert(direction, in.Now)
			e.logAlert(alert)
			return res
		}
		res.Suppression = suppressTrapActive
		return res
	}

	if chop, reason := e.isChop(director, in.M5, in.M2, in.M1); chop {
		res.Suppression = reason
		return res
	}
	if director.State == DirectorChop {
		res.Suppression = suppressDirectorChop
		return res
	}

	trigger := e.evaluateTrigger(in.M1, director, validator, pivots)
	res.Trigger = trigger
	if !trigger.Valid {
		res.Suppression = suppressTriggerInvalid
		return res
	}

	if ok, reason := e.cooldownAllows(cooldown, trigger.Direction, in.Now); !ok {
		res.Suppression = reason
		return res
	}

	confidence := e.scoreConfidence(director, validator, trigger)
	alert := e.buildAlert(in, squeezeAlertType(trigger.Direction), trigger.Direction, confidence,
		trigger.Reason, e.cfg.SqueezeStopATR, e.cfg.SqueezeTargetATR, squeezeHoldTime, director, validator)
	res.Alert = alert
	res.Cooldown = afterAlert(trigger.Direction, in.Now)
	e.logAlert(alert)
	return res
}

// pivotLevels derives floor-trader pivots from the last completed 5-minute
// bar. The newest 5m bucket may still be forming, so the bar before it is
// the reference when available.
func (e *Engine) pivotLevels(m5 []market.Candle) indicators.PivotPoints {
	switch {
	case len(m5) >= 2:
		return indicators.CalculatePivotPoints(m5[len(m5)-2])
	case len(m5) == 1:
		return indicators.CalculatePivotPoints(m5[0])
	default:
		return indicators.PivotPoints{}
	}
}

func (e *Engine) buildAlert(in Input, alertType AlertType, direction Direction, confidence int,
	reason string, stopATR, targetATR float64, holdTime string,
	director *DirectorResult, validator ValidatorResult) *Alert {

	entry := market.LastClose(in.M1)
	atr := indicators.CalculateATR(in.M1, e.cfg.ATRPeriod)

	stop, target := entry-stopATR*atr, entry+targetATR*atr
	if direction == DirectionShort {
		stop, target = entry+stopATR*atr, entry-targetATR*atr
	}

	return &Alert{
		ID:            uuid.NewString(),
		Symbol:        in.Symbol,
		Type:          alertType,
		Timestamp:     in.Now,
		Confidence:    confidence,
		ShouldPush:    confidence >= e.cfg.ConfidencePushFloor,
		Director:      director.State,
		Validator:     validator.State,
		TriggerReason: reason,
		Explanation: fmt.Sprintf("%s: director %s (score %+d), validator %s, %s",
			alertType, director.State, director.BiasScore, validator.State, reason),
		EntryPrice:  entry,
		StopLoss:    stop,
		TargetPrice: target,
		HoldTime:    holdTime,
	}
}

func (e *Engine) logAlert(a *Alert) {
	e.log.Info().
		Str("symbol", a.Symbol).
		Str("type", string(a.Type)).
		Int("confidence", a.Confidence).
		Bool("push", a.ShouldPush).
		Float64("entry", a.EntryPrice).
		Float64("stop", a.StopLoss).
		Float64("target", a.TargetPrice).
		Msg("alert emitted")
}

func squeezeAlertType(direction Direction) AlertType {
	if direction == DirectionShort {
		return AlertSqueezeShort
	}
	return AlertSqueezeLong
}

func fadeAlertType(direction Direction) AlertType {
	if direction == DirectionShort {
		return AlertTrapFadeShort
	}
	return AlertTrapFadeLong
}
