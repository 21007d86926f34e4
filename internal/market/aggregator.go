package market

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of all three timeframe series, aligned to
// the same wall-clock instant. Stale flags mark timeframes whose last bar is
// lagging the 1-minute stream; the engine keeps using the last-known bars for
// those rather than blocking.
type Snapshot struct {
	Symbol  string    `json:"symbol"`
	Taken   time.Time `json:"taken"`
	M1      []Candle  `json:"-"`
	M2      []Candle  `json:"-"`
	M5      []Candle  `json:"-"`
	StaleM2 bool      `json:"stale_2m"`
	StaleM5 bool      `json:"stale_5m"`
}

// Aggregator rolls a closed 1-minute candle stream up into 2-minute and
// 5-minute series for a single symbol. Roll-up buckets are keyed by truncated
// bar start time, so partially filled slow bars are updated in place until
// their boundary passes.
type Aggregator struct {
	mu      sync.RWMutex
	symbol  string
	maxBars int
	series  map[Timeframe][]Candle
}

// NewAggregator creates an aggregator that retains at most maxBars per timeframe.
func NewAggregator(symbol string, maxBars int) *Aggregator {
	if maxBars <= 0 {
		maxBars = 500
	}
	return &Aggregator{
		symbol:  symbol,
		maxBars: maxBars,
		series:  make(map[Timeframe][]Candle),
	}
}

// Seed replaces a timeframe's series with historical bars, oldest first.
// Used at startup before the live stream attaches.
func (a *Aggregator) Seed(tf Timeframe, candles []Candle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cp := make([]Candle, len(candles))
	copy(cp, candles)
	if len(cp) > a.maxBars {
		cp = cp[len(cp)-a.maxBars:]
	}
	a.series[tf] = cp
}

// AppendM1 ingests one closed 1-minute candle and folds it into the 2m and 5m
// buckets. Out-of-order candles are dropped.
func (a *Aggregator) AppendM1(c Candle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m1 := a.series[TF1m]
	if len(m1) > 0 && !c.Timestamp.After(m1[len(m1)-1].Timestamp) {
		return
	}
	a.series[TF1m] = a.trim(append(m1, c))

	for _, tf := range []Timeframe{TF2m, TF5m} {
		a.fold(tf, c)
	}
}

// fold merges a 1m candle into the bucket it belongs to on a slower timeframe.
func (a *Aggregator) fold(tf Timeframe, c Candle) {
	bucket := tf.BucketStart(c.Timestamp)
	series := a.series[tf]

	if n := len(series); n > 0 && series[n-1].Timestamp.Equal(bucket) {
		last := &series[n-1]
		if c.High > last.High {
			last.High = c.High
		}
		if c.Low < last.Low {
			last.Low = c.Low
		}
		last.Close = c.Close
		last.Volume += c.Volume
		return
	}

	a.series[tf] = a.trim(append(series, Candle{
		Timestamp: bucket,
		Open:      c.Open,
		High:      c.High,
		Low:       c.Low,
		Close:     c.Close,
		Volume:    c.Volume,
	}))
}

func (a *Aggregator) trim(candles []Candle) []Candle {
	if len(candles) > a.maxBars {
		return candles[len(candles)-a.maxBars:]
	}
	return candles
}

// Snapshot copies all three series so the engine can run against frozen data
// while the stream keeps appending.
func (a *Aggregator) Snapshot(now time.Time) *Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := &Snapshot{
		Symbol: a.symbol,
		Taken:  now,
		M1:     copyCandles(a.series[TF1m]),
		M2:     copyCandles(a.series[TF2m]),
		M5:     copyCandles(a.series[TF5m]),
	}
	snap.StaleM2 = isStale(snap.M2, TF2m, now)
	snap.StaleM5 = isStale(snap.M5, TF5m, now)
	return snap
}

// isStale reports whether the series' newest bucket has fallen more than two
// full bars behind the clock.
func isStale(candles []Candle, tf Timeframe, now time.Time) bool {
	if len(candles) == 0 {
		return true
	}
	last := candles[len(candles)-1].Timestamp
	return now.Sub(last) > 2*tf.Duration()
}

func copyCandles(src []Candle) []Candle {
	out := make([]Candle, len(src))
	copy(out, src)
	return out
}
