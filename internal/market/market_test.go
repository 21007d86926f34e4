package market

import (
	"testing"
	"time"
)

var barStart = time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

func m1Candle(i int, close float64) Candle {
	return Candle{
		Timestamp: barStart.Add(time.Duration(i) * time.Minute),
		Open:      close - 0.2,
		High:      close + 0.5,
		Low:       close - 0.5,
		Close:     close,
		Volume:    100,
	}
}

// ==================== TIMEFRAME ====================

func TestTimeframeBucketing(t *testing.T) {
	ts := time.Date(2025, 6, 2, 14, 7, 30, 0, time.UTC)

	tests := []struct {
		tf        Timeframe
		wantTrunc time.Time
		wantNext  time.Time
	}{
		{TF1m, time.Date(2025, 6, 2, 14, 7, 0, 0, time.UTC), time.Date(2025, 6, 2, 14, 8, 0, 0, time.UTC)},
		{TF2m, time.Date(2025, 6, 2, 14, 6, 0, 0, time.UTC), time.Date(2025, 6, 2, 14, 8, 0, 0, time.UTC)},
		{TF5m, time.Date(2025, 6, 2, 14, 5, 0, 0, time.UTC), time.Date(2025, 6, 2, 14, 10, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.tf), func(t *testing.T) {
			if got := tt.tf.BucketStart(ts); !got.Equal(tt.wantTrunc) {
				t.Errorf("BucketStart = %v, want %v", got, tt.wantTrunc)
			}
			if got := tt.tf.NextBoundary(ts); !got.Equal(tt.wantNext) {
				t.Errorf("NextBoundary = %v, want %v", got, tt.wantNext)
			}
		})
	}
}

// ==================== CANDLE ====================

func TestCandleWicks(t *testing.T) {
	c := Candle{Open: 100.3, High: 103, Low: 99.8, Close: 99.9}

	if !c.IsRed() || c.IsGreen() {
		t.Error("close below open should read red")
	}
	if got := c.UpperWick(); got != 103-100.3 {
		t.Errorf("UpperWick = %v, want %v", got, 103-100.3)
	}
	if got := c.LowerWick(); got != 99.9-99.8 {
		t.Errorf("LowerWick = %v, want %v", got, 99.9-99.8)
	}
	if got := c.Range(); got != 103-99.8 {
		t.Errorf("Range = %v, want %v", got, 103-99.8)
	}
}

// ==================== AGGREGATOR ====================

func TestAggregatorFoldsTimeframes(t *testing.T) {
	agg := NewAggregator("BTCUSDT", 100)
	for i := 0; i < 10; i++ {
		agg.AppendM1(m1Candle(i, 100+float64(i)))
	}

	snap := agg.Snapshot(barStart.Add(10 * time.Minute))
	if len(snap.M1) != 10 {
		t.Fatalf("m1 length = %d, want 10", len(snap.M1))
	}
	if len(snap.M2) != 5 {
		t.Fatalf("m2 length = %d, want 5", len(snap.M2))
	}
	if len(snap.M5) != 2 {
		t.Fatalf("m5 length = %d, want 2", len(snap.M5))
	}

	// First 5m bucket folds minutes 0-4: open of the first bar, close of the
	// fifth, extremes across all five, summed volume.
	first := snap.M5[0]
	if !first.Timestamp.Equal(barStart) {
		t.Errorf("bucket start = %v, want %v", first.Timestamp, barStart)
	}
	if first.Open != 99.8 {
		t.Errorf("bucket open = %v, want 99.8", first.Open)
	}
	if first.Close != 104 {
		t.Errorf("bucket close = %v, want 104", first.Close)
	}
	if first.High != 104.5 {
		t.Errorf("bucket high = %v, want 104.5", first.High)
	}
	if first.Low != 99.5 {
		t.Errorf("bucket low = %v, want 99.5", first.Low)
	}
	if first.Volume != 500 {
		t.Errorf("bucket volume = %v, want 500", first.Volume)
	}
}

func TestAggregatorDropsOutOfOrder(t *testing.T) {
	agg := NewAggregator("BTCUSDT", 100)
	agg.AppendM1(m1Candle(5, 100))
	agg.AppendM1(m1Candle(3, 200)) // older, must be ignored
	agg.AppendM1(m1Candle(5, 300)) // duplicate, must be ignored

	snap := agg.Snapshot(barStart.Add(10 * time.Minute))
	if len(snap.M1) != 1 {
		t.Fatalf("m1 length = %d, want 1", len(snap.M1))
	}
	if snap.M1[0].Close != 100 {
		t.Errorf("kept close = %v, want the original 100", snap.M1[0].Close)
	}
}

func TestAggregatorTrimsToMaxBars(t *testing.T) {
	agg := NewAggregator("BTCUSDT", 5)
	for i := 0; i < 20; i++ {
		agg.AppendM1(m1Candle(i, 100+float64(i)))
	}

	snap := agg.Snapshot(barStart.Add(21 * time.Minute))
	if len(snap.M1) != 5 {
		t.Fatalf("m1 length = %d, want capped 5", len(snap.M1))
	}
	if snap.M1[len(snap.M1)-1].Close != 119 {
		t.Errorf("newest close = %v, want 119", snap.M1[len(snap.M1)-1].Close)
	}
}

func TestSnapshotStaleness(t *testing.T) {
	agg := NewAggregator("BTCUSDT", 100)
	agg.AppendM1(m1Candle(0, 100))

	fresh := agg.Snapshot(barStart.Add(3 * time.Minute))
	if fresh.StaleM2 {
		t.Error("2m series should be fresh three minutes after its bucket opened")
	}

	stale := agg.Snapshot(barStart.Add(30 * time.Minute))
	if !stale.StaleM2 || !stale.StaleM5 {
		t.Error("both slow series should be stale after a thirty-minute gap")
	}
}

func TestSeedReplacesSeries(t *testing.T) {
	agg := NewAggregator("BTCUSDT", 100)
	seed := []Candle{m1Candle(0, 100), m1Candle(1, 101)}
	agg.Seed(TF1m, seed)

	snap := agg.Snapshot(barStart.Add(2 * time.Minute))
	if len(snap.M1) != 2 {
		t.Fatalf("m1 length = %d, want 2", len(snap.M1))
	}

	// The snapshot must be a copy, not an alias of seeded storage.
	snap.M1[0].Close = 999
	again := agg.Snapshot(barStart.Add(2 * time.Minute))
	if again.M1[0].Close == 999 {
		t.Error("snapshot mutation leaked into aggregator storage")
	}
}
