package indicators

import (
	"testing"
	"time"

	"intraday-alert-bot/internal/market"
)

// ==================== ADX ====================

func TestCalculateADXStrongUptrend(t *testing.T) {
	res := CalculateADX(trendingCandles(60, 100, 1), 14)

	if res.Direction != DirectionBullish {
		t.Errorf("Direction = %v, want %v", res.Direction, DirectionBullish)
	}
	if res.ADX < 25 {
		t.Errorf("ADX = %v, want >= 25 for a persistent one-way trend", res.ADX)
	}
	if res.PlusDI <= res.MinusDI {
		t.Errorf("+DI %v should exceed -DI %v in an uptrend", res.PlusDI, res.MinusDI)
	}
	if res.Falling {
		t.Error("ADX should not be falling while the trend persists")
	}
}

func TestCalculateADXStrongDowntrend(t *testing.T) {
	res := CalculateADX(trendingCandles(60, 200, -1), 14)

	if res.Direction != DirectionBearish {
		t.Errorf("Direction = %v, want %v", res.Direction, DirectionBearish)
	}
	if res.MinusDI <= res.PlusDI {
		t.Errorf("-DI %v should exceed +DI %v in a downtrend", res.MinusDI, res.PlusDI)
	}
}

func TestCalculateADXInsufficientData(t *testing.T) {
	res := CalculateADX(trendingCandles(20, 100, 1), 14)

	if res.ADX != 0 || res.Direction != DirectionNeutral || res.Strength != StrengthNoTrend {
		t.Errorf("short window should degrade to neutral, got %+v", res)
	}
}

func TestADXStrengthBuckets(t *testing.T) {
	// Strength classification is driven purely by the ADX level; a hard
	// one-way trend must land in the upper buckets.
	res := CalculateADX(trendingCandles(80, 100, 2), 14)
	if res.Strength != StrengthStrong && res.Strength != StrengthVeryStrong {
		t.Errorf("Strength = %v for persistent trend, want strong or very strong", res.Strength)
	}
}

// ==================== SUPERTREND ====================

func TestCalculateSuperTrendUptrend(t *testing.T) {
	candles := trendingCandles(40, 100, 1)
	res := CalculateSuperTrend(candles, 10, 3.0)

	if res.Trend != DirectionBullish {
		t.Errorf("Trend = %v, want %v", res.Trend, DirectionBullish)
	}
	if res.Signal != ActionHold {
		t.Errorf("Signal = %v, want %v (no flip on this bar)", res.Signal, ActionHold)
	}
	if last := candles[len(candles)-1].Close; res.Value >= last {
		t.Errorf("bullish stop %v should sit below price %v", res.Value, last)
	}
	if len(res.Trends) != len(candles) {
		t.Errorf("Trends length = %d, want %d", len(res.Trends), len(candles))
	}
}

func TestCalculateSuperTrendFlipFiresSell(t *testing.T) {
	candles := trendingCandles(40, 100, 1)
	last := candles[len(candles)-1]

	// One crash bar closing far below the ratcheted lower band.
	candles = append(candles, market.Candle{
		Timestamp: last.Timestamp.Add(time.Minute),
		Open:      last.Close,
		High:      last.Close,
		Low:       last.Close - 15,
		Close:     last.Close - 14,
		Volume:    100,
	})

	res := CalculateSuperTrend(candles, 10, 3.0)
	if res.Trend != DirectionBearish {
		t.Fatalf("Trend after crash = %v, want %v", res.Trend, DirectionBearish)
	}
	if res.Signal != ActionSell {
		t.Errorf("Signal on flip bar = %v, want %v", res.Signal, ActionSell)
	}
}

func TestCalculateSuperTrendShortWindow(t *testing.T) {
	res := CalculateSuperTrend(trendingCandles(5, 100, 1), 10, 3.0)
	if res.Trend != DirectionNeutral || res.Signal != ActionHold {
		t.Errorf("short window = %+v, want neutral hold", res)
	}
}

// ==================== EWO ====================

func TestCalculateEWO(t *testing.T) {
	t.Run("uptrend reads positive and rising", func(t *testing.T) {
		res := CalculateEWO(trendingCandles(60, 100, 1), 5, 35)
		if res.Value <= 0 {
			t.Errorf("Value = %v, want > 0", res.Value)
		}
		if !res.Rising {
			t.Error("oscillator should still be rising while the trend extends")
		}
	})

	t.Run("downtrend reads negative", func(t *testing.T) {
		res := CalculateEWO(trendingCandles(60, 200, -1), 5, 35)
		if res.Value >= 0 {
			t.Errorf("Value = %v, want < 0", res.Value)
		}
	})

	t.Run("short window holds", func(t *testing.T) {
		res := CalculateEWO(trendingCandles(10, 100, 1), 5, 35)
		if res.Signal != ActionHold || res.Value != 0 {
			t.Errorf("short window = %+v, want neutral hold", res)
		}
	})
}

// ==================== ICHIMOKU ====================

func TestCalculateIchimokuUptrend(t *testing.T) {
	candles := trendingCandles(60, 1, 1) // closes 1..60
	res := CalculateIchimoku(candles, 9, 26, 52)

	// Midpoints of trailing windows: tenkan (60.5+51.5)/2, kijun (60.5+34.5)/2,
	// spanB (60.5+8.5)/2.
	if !almostEqual(res.Tenkan, 56) {
		t.Errorf("Tenkan = %v, want 56", res.Tenkan)
	}
	if !almostEqual(res.Kijun, 47.5) {
		t.Errorf("Kijun = %v, want 47.5", res.Kijun)
	}
	if !almostEqual(res.SpanB, 34.5) {
		t.Errorf("SpanB = %v, want 34.5", res.SpanB)
	}
	if res.CloudTop < res.CloudBottom {
		t.Errorf("CloudTop %v below CloudBottom %v", res.CloudTop, res.CloudBottom)
	}
}

func TestIchimokuPriceLocation(t *testing.T) {
	res := CalculateIchimoku(trendingCandles(60, 1, 1), 9, 26, 52)

	tests := []struct {
		name  string
		price float64
		want  CloudPosition
	}{
		{"above cloud", 60, AboveCloud},
		{"below cloud", 20, BelowCloud},
		{"inside cloud", 40, InsideCloud},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := res.PriceLocation(tt.price); got != tt.want {
				t.Errorf("PriceLocation(%v) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestIchimokuShortWindowReadsInside(t *testing.T) {
	res := CalculateIchimoku(trendingCandles(20, 100, 1), 9, 26, 52)
	if got := res.PriceLocation(120); got != InsideCloud {
		t.Errorf("undefined cloud location = %v, want %v", got, InsideCloud)
	}
}
