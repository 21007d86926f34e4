package engine

import (
	"time"

	"intraday-alert-bot/internal/market"
)

// DirectorState is the 5-minute bias classification.
type DirectorState string

const (
	DirectorBull DirectorState = "BULL"
	DirectorBear DirectorState = "BEAR"
	DirectorChop DirectorState = "CHOP"
)

// ValidatorState is the 2-minute confirmation outcome.
type ValidatorState string

const (
	ValidatorBull    ValidatorState = "BULL"
	ValidatorBear    ValidatorState = "BEAR"
	ValidatorNeutral ValidatorState = "NEUTRAL"
)

// Direction is the trade side of a trigger or alert.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	DirectionNone  Direction = "NONE"
)

// TrapType classifies the liquidity wick that armed trap mode.
type TrapType string

const (
	TrapUpWick   TrapType = "UP_WICK"
	TrapDownWick TrapType = "DOWN_WICK"
	TrapNone     TrapType = "NONE"
)

// AlertType is the closed set of alert variants the engine can emit.
type AlertType string

const (
	AlertSqueezeLong   AlertType = "SQUEEZE_LONG"
	AlertSqueezeShort  AlertType = "SQUEEZE_SHORT"
	AlertTrapFadeLong  AlertType = "TRAP_FADE_LONG"
	AlertTrapFadeShort AlertType = "TRAP_FADE_SHORT"
)

// BiasVotes is the per-indicator vote breakdown behind the Director's bias
// score. Each vote is -1, 0 or +1.
type BiasVotes struct {
	SuperTrend int `json:"supertrend"`
	VWAP       int `json:"vwap"`
	RSI        int `json:"rsi"`
	EWO        int `json:"ewo"`
	ADX        int `json:"adx"`
	Ichimoku   int `json:"ichimoku"`
}

// Sum returns the total bias score in [-6, +6].
func (v BiasVotes) Sum() int {
	return v.SuperTrend + v.VWAP + v.RSI + v.EWO + v.ADX + v.Ichimoku
}

// DirectorResult is the cached 5-minute bias classification. It is refreshed
// only at 5-minute candle-close boundaries and reused unchanged for every
// intra-candle invocation until LockedUntil.
type DirectorResult struct {
	State       DirectorState `json:"state"`
	BiasScore   int           `json:"bias_score"`
	Votes       BiasVotes     `json:"votes"`
	LockedUntil time.Time     `json:"locked_until"`
	InsideCloud bool          `json:"inside_cloud"`
}

// SideConditions are the five independent checks the Validator runs per side.
type SideConditions struct {
	PriceVsVWAP bool `json:"price_vs_vwap"`
	SuperTrend  bool `json:"supertrend"`
	RSI         bool `json:"rsi"`
	EWO         bool `json:"ewo"`
	ADX         bool `json:"adx"`
}

// All reports whether every condition holds. The Validator is conjunctive:
// there is no partial credit at this stage.
func (c SideConditions) All() bool {
	return c.PriceVsVWAP && c.SuperTrend && c.RSI && c.EWO && c.ADX
}

// ValidatorResult is recomputed every invocation; it is never cached.
type ValidatorResult struct {
	State      ValidatorState `json:"state"`
	LongValid  bool           `json:"long_valid"`
	ShortValid bool           `json:"short_valid"`
	Long       SideConditions `json:"long"`
	Short      SideConditions `json:"short"`
}

// TrapModeState tracks an active liquidity-wick trap across candles. It is
// caller-owned and threaded through every invocation.
type TrapModeState struct {
	Active         bool          `json:"active"`
	Type           TrapType      `json:"type"`
	ExpiresAtIndex int           `json:"expires_at_index"`
	WickHigh       float64       `json:"wick_high"`
	WickLow        float64       `json:"wick_low"`
	TrapCandle     market.Candle `json:"trap_candle"`
}

// TriggerConditions are the nine confirming checks behind a squeeze entry.
type TriggerConditions struct {
	VWAPHysteresis       bool `json:"vwap_hysteresis"`
	SuperTrendHysteresis bool `json:"supertrend_hysteresis"`
	RVOL                 bool `json:"rvol"`
	ADX                  bool `json:"adx"`
	RSI                  bool `json:"rsi"`
	EWO                  bool `json:"ewo"`
	NotInsideCloud       bool `json:"not_inside_cloud"`
	Pivot                bool `json:"pivot"`
	BollingerExpansion   bool `json:"bollinger_expansion"`
}

// All reports whether every trigger condition holds simultaneously.
func (c TriggerConditions) All() bool {
	return c.VWAPHysteresis && c.SuperTrendHysteresis && c.RVOL && c.ADX &&
		c.RSI && c.EWO && c.NotInsideCloud && c.Pivot && c.BollingerExpansion
}

// TriggerResult is ephemeral: recomputed every cycle, never cached.
type TriggerResult struct {
	Valid      bool              `json:"valid"`
	Direction  Direction         `json:"direction"`
	Conditions TriggerConditions `json:"conditions"`
	Reason     string            `json:"reason"`
}

// CooldownState is the cross-cycle alert suppression state, mutated only by
// the Orchestrator after emitting an alert or observing a VWAP retest.
type CooldownState struct {
	LastAlertDirection       Direction `json:"last_alert_direction"`
	LastAlertTime            time.Time `json:"last_alert_time"`
	VWAPRetestSinceLastAlert bool      `json:"vwap_retest_since_last_alert"`
}

// Alert is the one actionable output of a cycle. Created at most once per
// invocation, immutable, ownership transfers to the caller.
type Alert struct {
	ID            string         `json:"id"`
	Symbol        string         `json:"symbol"`
	Type          AlertType      `json:"type"`
	Timestamp     time.Time      `json:"timestamp"`
	Confidence    int            `json:"confidence"`
	ShouldPush    bool           `json:"should_push"`
	Director      DirectorState  `json:"director"`
	Validator     ValidatorState `json:"validator"`
	TriggerReason string         `json:"trigger_reason"`
	Explanation   string         `json:"explanation"`
	EntryPrice    float64        `json:"entry_price"`
	StopLoss      float64        `json:"stop_loss"`
	TargetPrice   float64        `json:"target_price"`
	HoldTime      string         `json:"hold_time"`
}

// Direction returns the trade side implied by the alert type.
func (a *Alert) AlertDirection() Direction {
	switch a.Type {
	case AlertSqueezeLong, AlertTrapFadeLong:
		return DirectionLong
	case AlertSqueezeShort, AlertTrapFadeShort:
		return DirectionShort
	default:
		return DirectionNone
	}
}

// Input is everything one Orchestrator cycle consumes. All candle series must
// reflect data up to the same wall-clock instant; Now is injected so tests
// run deterministically without mocking a clock.
type Input struct {
	Symbol string
	Now    time.Time
	M1     []market.Candle
	M2     []market.Candle
	M5     []market.Candle

	// BarIndex is the monotonically increasing sequence number of the 1m bar
	// being evaluated. When zero, the engine falls back to len(M1)-1; live
	// callers with capped series should supply it.
	BarIndex int

	Director *DirectorResult
	Trap     TrapModeState
	Cooldown CooldownState
}

// barIndex resolves the effective 1m bar index for trap expiry accounting.
func (in Input) barIndex() int {
	if in.BarIndex > 0 {
		return in.BarIndex
	}
	return len(in.M1) - 1
}

// CycleResult carries the alert-or-nothing decision plus every updated state
// object back to the caller, which threads them into the next cycle.
type CycleResult struct {
	Alert       *Alert          `json:"alert,omitempty"`
	Director    *DirectorResult `json:"director"`
	Validator   ValidatorResult `json:"validator"`
	Trigger     TriggerResult   `json:"trigger"`
	Trap        TrapModeState   `json:"trap"`
	Cooldown    CooldownState   `json:"cooldown"`
	Suppression string          `json:"suppression,omitempty"`
}
