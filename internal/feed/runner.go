package feed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"intraday-alert-bot/internal/cache"
	"intraday-alert-bot/internal/database"
	"intraday-alert-bot/internal/engine"
	"intraday-alert-bot/internal/events"
	"intraday-alert-bot/internal/market"
	"intraday-alert-bot/internal/metrics"
	"intraday-alert-bot/internal/notification"
)

// Status is the runner's externally visible state, served by the API and
// cached for restarts.
type Status struct {
	Symbol        string                 `json:"symbol"`
	BarsProcessed int                    `json:"bars_processed"`
	LastBarTime   time.Time              `json:"last_bar_time"`
	LastCycle     *engine.CycleResult    `json:"last_cycle,omitempty"`
	Director      *engine.DirectorResult `json:"director,omitempty"`
	TrapActive    bool                   `json:"trap_active"`
	Stale2m       bool                   `json:"stale_2m"`
	Stale5m       bool                   `json:"stale_5m"`
}

// Runner drives one engine evaluation per closed 1-minute bar. It owns the
// per-symbol cross-cycle state the engine itself refuses to hold: Director
// cache, trap mode, cooldown and the bar sequence counter.
type Runner struct {
	symbol string
	agg    *market.Aggregator
	eng    *engine.Engine
	bus    *events.Bus
	met    *metrics.Metrics
	repo   *database.Repository
	cache  *cache.Cache
	notify *notification.Manager
	log    zerolog.Logger

	// evalMu enforces single-flight evaluation. A bar arriving while a cycle
	// is still running is dropped, not queued.
	evalMu sync.Mutex

	mu        sync.RWMutex
	director  *engine.DirectorResult
	trap      engine.TrapModeState
	cooldown  engine.CooldownState
	barIndex  int
	lastCycle *engine.CycleResult
	lastBar   time.Time
}

// RunnerDeps bundles the optional sinks a runner writes alerts through.
// Any of them may be nil; the evaluation loop does not depend on them.
type RunnerDeps struct {
	Bus        *events.Bus
	Metrics    *metrics.Metrics
	Repository *database.Repository
	Cache      *cache.Cache
	Notifier   *notification.Manager
}

// NewRunner creates a runner for one symbol.
func NewRunner(symbol string, agg *market.Aggregator, eng *engine.Engine, deps RunnerDeps, log zerolog.Logger) *Runner {
	return &Runner{
		symbol: symbol,
		agg:    agg,
		eng:    eng,
		bus:    deps.Bus,
		met:    deps.Metrics,
		repo:   deps.Repository,
		cache:  deps.Cache,
		notify: deps.Notifier,
		log:    log.With().Str("component", "runner").Str("symbol", symbol).Logger(),
		trap:   engine.TrapModeState{Type: engine.TrapNone},
	}
}

// OnBar ingests one closed 1-minute candle and runs a single evaluation
// cycle against the updated series. Safe for concurrent use; overlapping
// invocations are dropped rather than queued so a slow cycle can never
// build a backlog of stale evaluations.
func (r *Runner) OnBar(c market.Candle) {
	r.agg.AppendM1(c)

	if !r.evalMu.TryLock() {
		r.log.Warn().Time("bar", c.Timestamp).Msg("evaluation busy, dropping bar")
		return
	}
	defer r.evalMu.Unlock()

	r.mu.Lock()
	r.barIndex++
	barIndex := r.barIndex
	eng := r.eng
	director := r.director
	trap := r.trap
	cooldown := r.cooldown
	r.mu.Unlock()

	now := c.Timestamp.Add(market.TF1m.Duration())
	snap := r.agg.Snapshot(now)

	started := time.Now()
	res := eng.Evaluate(engine.Input{
		Symbol:   r.symbol,
		Now:      now,
		M1:       snap.M1,
		M2:       snap.M2,
		M5:       snap.M5,
		BarIndex: barIndex,
		Director: director,
		Trap:     trap,
		Cooldown: cooldown,
	})

	r.mu.Lock()
	prevDirector := r.director
	prevTrap := r.trap
	r.director = res.Director
	r.trap = res.Trap
	r.cooldown = res.Cooldown
	r.lastCycle = &res
	r.lastBar = c.Timestamp
	r.mu.Unlock()

	r.record(started, res)
	r.publish(prevDirector, prevTrap, res)

	if res.Alert != nil {
		r.deliver(res.Alert)
	}
}

// UpdateEngine swaps in an engine with new settings. Takes effect on the
// next bar.
func (r *Runner) UpdateEngine(eng *engine.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eng = eng
}

// Status returns the runner's current state snapshot.
func (r *Runner) Status() Status {
	snap := r.agg.Snapshot(time.Now().UTC())

	r.mu.RLock()
	defer r.mu.RUnlock()
	return Status{
		Symbol:        r.symbol,
		BarsProcessed: r.barIndex,
		LastBarTime:   r.lastBar,
		LastCycle:     r.lastCycle,
		Director:      r.director,
		TrapActive:    r.trap.Active,
		Stale2m:       snap.StaleM2,
		Stale5m:       snap.StaleM5,
	}
}

// OnReconnect is wired into the stream's reconnect hook.
func (r *Runner) OnReconnect() {
	if r.met != nil {
		r.met.FeedReconnect.Inc()
	}
	if r.bus != nil {
		r.bus.Publish(events.Event{Type: events.EventFeedStatus, Data: "reconnecting"})
	}
}

func (r *Runner) record(started time.Time, res engine.CycleResult) {
	if r.met == nil {
		return
	}
	r.met.CyclesTotal.Inc()
	r.met.CycleDuration.Observe(time.Since(started).Seconds())
	if res.Alert != nil {
		r.met.AlertsTotal.WithLabelValues(string(res.Alert.Type)).Inc()
	} else if res.Suppression != "" {
		r.met.Suppressions.WithLabelValues(res.Suppression).Inc()
	}
}

func (r *Runner) publish(prevDirector *engine.DirectorResult, prevTrap engine.TrapModeState, res engine.CycleResult) {
	if r.bus == nil {
		return
	}

	if res.Alert != nil {
		r.bus.Publish(events.Event{Type: events.EventAlert, Data: res.Alert})
	}
	if prevDirector == nil || (res.Director != nil && res.Director.State != prevDirector.State) {
		r.bus.Publish(events.Event{Type: events.EventDirectorShift, Data: res.Director})
	}
	if !prevTrap.Active && res.Trap.Active {
		r.bus.Publish(events.Event{Type: events.EventTrapArmed, Data: res.Trap})
	}
	if prevTrap.Active && !res.Trap.Active {
		r.bus.Publish(events.Event{Type: events.EventTrapResolved, Data: res.Trap})
	}
	r.bus.Publish(events.Event{Type: events.EventCycleComplete, Data: res})
}

// deliver fans the alert out to persistence, cache and push channels. Sink
// failures are logged and swallowed: the next cycle must not be blocked by
// a dead database or webhook.
func (r *Runner) deliver(a *engine.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if r.repo != nil {
		if err := r.repo.SaveAlert(ctx, a); err != nil {
			r.log.Error().Err(err).Str("alert_id", a.ID).Msg("persist alert failed")
		}
	}
	if r.cache != nil {
		if err := r.cache.SetLatestAlert(ctx, a); err != nil {
			r.log.Error().Err(err).Str("alert_id", a.ID).Msg("cache alert failed")
		}
	}
	if r.notify != nil {
		if err := r.notify.Push(a); err != nil {
			r.log.Error().Err(err).Str("alert_id", a.ID).Msg("push alert failed")
		}
	}
}
