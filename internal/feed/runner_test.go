package feed

import (
	"sync"
	"testing"
	"time"

	"intraday-alert-bot/internal/engine"
	"intraday-alert-bot/internal/logging"
	"intraday-alert-bot/internal/market"
)

func testRunner() *Runner {
	agg := market.NewAggregator("BTCUSDT", 500)
	eng := engine.NewEngine(engine.DefaultConfig(), logging.Nop())
	return NewRunner("BTCUSDT", agg, eng, RunnerDeps{}, logging.Nop())
}

func minuteBar(i int, close float64) market.Candle {
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	return market.Candle{
		Timestamp: start.Add(time.Duration(i) * time.Minute),
		Open:      close - 0.2,
		High:      close + 0.5,
		Low:       close - 0.5,
		Close:     close,
		Volume:    100,
	}
}

func TestRunnerProcessesBars(t *testing.T) {
	r := testRunner()

	for i := 0; i < 10; i++ {
		r.OnBar(minuteBar(i, 100+float64(i)))
	}

	st := r.Status()
	if st.BarsProcessed != 10 {
		t.Errorf("BarsProcessed = %d, want 10", st.BarsProcessed)
	}
	if st.LastCycle == nil {
		t.Error("status should carry the last cycle result")
	}
	if want := minuteBar(9, 0).Timestamp; !st.LastBarTime.Equal(want) {
		t.Errorf("LastBarTime = %v, want %v", st.LastBarTime, want)
	}
}

// TestRunnerConcurrentSettingsSwap drives bars and engine swaps from separate
// goroutines. It must stay clean under the race detector: OnBar snapshots the
// engine pointer under the state lock rather than reading it bare.
func TestRunnerConcurrentSettingsSwap(t *testing.T) {
	r := testRunner()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			r.OnBar(minuteBar(i, 100+float64(i%5)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			cfg := engine.DefaultConfig()
			cfg.RVOLThreshold = 1.5 + float64(i%4)*0.1
			r.UpdateEngine(engine.NewEngine(cfg, logging.Nop()))
		}
	}()
	wg.Wait()

	if st := r.Status(); st.BarsProcessed == 0 {
		t.Error("no bars processed during concurrent swap")
	}
}
