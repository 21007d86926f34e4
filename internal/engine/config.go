package engine

import "time"

// Config holds every tunable threshold of the decision pipeline. Zero values
// are replaced by DefaultConfig values in NewEngine, so partially filled
// configs from the settings layer are safe.
type Config struct {
	// Minimum history per timeframe before any alert may be emitted.
	MinBars5m int `json:"min_bars_5m" yaml:"min_bars_5m"`
	MinBars2m int `json:"min_bars_2m" yaml:"min_bars_2m"`
	MinBars1m int `json:"min_bars_1m" yaml:"min_bars_1m"`

	// Indicator parameters.
	RSIPeriod            int     `json:"rsi_period" yaml:"rsi_period"`
	ADXPeriod            int     `json:"adx_period" yaml:"adx_period"`
	SuperTrendPeriod     int     `json:"supertrend_period" yaml:"supertrend_period"`
	SuperTrendMultiplier float64 `json:"supertrend_multiplier" yaml:"supertrend_multiplier"`
	EWOShortPeriod       int     `json:"ewo_short_period" yaml:"ewo_short_period"`
	EWOLongPeriod        int     `json:"ewo_long_period" yaml:"ewo_long_period"`
	BollingerPeriod      int     `json:"bollinger_period" yaml:"bollinger_period"`
	BollingerStdDev      float64 `json:"bollinger_std_dev" yaml:"bollinger_std_dev"`
	ATRPeriod            int     `json:"atr_period" yaml:"atr_period"`
	ATRSlopeLookback     int     `json:"atr_slope_lookback" yaml:"atr_slope_lookback"`
	RVOLLookback         int     `json:"rvol_lookback" yaml:"rvol_lookback"`
	TenkanPeriod         int     `json:"tenkan_period" yaml:"tenkan_period"`
	KijunPeriod          int     `json:"kijun_period" yaml:"kijun_period"`
	SenkouBPeriod        int     `json:"senkou_b_period" yaml:"senkou_b_period"`

	// Trigger thresholds.
	RVOLThreshold  float64 `json:"rvol_threshold" yaml:"rvol_threshold"`
	PivotTolerance float64 `json:"pivot_tolerance" yaml:"pivot_tolerance"`

	// Trap mode.
	TrapBaselineBars int     `json:"trap_baseline_bars" yaml:"trap_baseline_bars"`
	TrapVolumeMult   float64 `json:"trap_volume_mult" yaml:"trap_volume_mult"`
	TrapRangeMult    float64 `json:"trap_range_mult" yaml:"trap_range_mult"`
	TrapWickFraction float64 `json:"trap_wick_fraction" yaml:"trap_wick_fraction"`
	TrapExpiryBars   int     `json:"trap_expiry_bars" yaml:"trap_expiry_bars"`

	// Cooldown and push policy.
	OppositeCooldown    time.Duration `json:"opposite_cooldown" yaml:"opposite_cooldown"`
	VWAPRetestTolerance float64       `json:"vwap_retest_tolerance" yaml:"vwap_retest_tolerance"`
	ConfidencePushFloor int           `json:"confidence_push_floor" yaml:"confidence_push_floor"`

	// Entry/stop/target ATR multiples.
	SqueezeStopATR   float64 `json:"squeeze_stop_atr" yaml:"squeeze_stop_atr"`
	SqueezeTargetATR float64 `json:"squeeze_target_atr" yaml:"squeeze_target_atr"`
	TrapStopATR      float64 `json:"trap_stop_atr" yaml:"trap_stop_atr"`
	TrapTargetATR    float64 `json:"trap_target_atr" yaml:"trap_target_atr"`
}

// DefaultConfig returns the production defaults of the pipeline.
func DefaultConfig() Config {
	return Config{
		MinBars5m: 52,
		MinBars2m: 30,
		MinBars1m: 30,

		RSIPeriod:            14,
		ADXPeriod:            14,
		SuperTrendPeriod:     10,
		SuperTrendMultiplier: 3.0,
		EWOShortPeriod:       5,
		EWOLongPeriod:        35,
		BollingerPeriod:      20,
		BollingerStdDev:      2.0,
		ATRPeriod:            14,
		ATRSlopeLookback:     5,
		RVOLLookback:         20,
		TenkanPeriod:         9,
		KijunPeriod:          26,
		SenkouBPeriod:        52,

		RVOLThreshold:  1.7,
		PivotTolerance: 0.001,

		TrapBaselineBars: 20,
		TrapVolumeMult:   2.0,
		TrapRangeMult:    1.6,
		TrapWickFraction: 0.30,
		TrapExpiryBars:   3,

		OppositeCooldown:    3 * time.Minute,
		VWAPRetestTolerance: 0.001,
		ConfidencePushFloor: 72,

		SqueezeStopATR:   0.5,
		SqueezeTargetATR: 1.0,
		TrapStopATR:      0.3,
		TrapTargetATR:    0.8,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MinBars5m == 0 {
		c.MinBars5m = def.MinBars5m
	}
	if c.MinBars2m == 0 {
		c.MinBars2m = def.MinBars2m
	}
	if c.MinBars1m == 0 {
		c.MinBars1m = def.MinBars1m
	}
	if c.RSIPeriod == 0 {
		c.RSIPeriod = def.RSIPeriod
	}
	if c.ADXPeriod == 0 {
		c.ADXPeriod = def.ADXPeriod
	}
	if c.SuperTrendPeriod == 0 {
		c.SuperTrendPeriod = def.SuperTrendPeriod
	}
	if c.SuperTrendMultiplier == 0 {
		c.SuperTrendMultiplier = def.SuperTrendMultiplier
	}
	if c.EWOShortPeriod == 0 {
		c.EWOShortPeriod = def.EWOShortPeriod
	}
	if c.EWOLongPeriod == 0 {
		c.EWOLongPeriod = def.EWOLongPeriod
	}
	if c.BollingerPeriod == 0 {
		c.BollingerPeriod = def.BollingerPeriod
	}
	if c.BollingerStdDev == 0 {
		c.BollingerStdDev = def.BollingerStdDev
	}
	if c.ATRPeriod == 0 {
		c.ATRPeriod = def.ATRPeriod
	}
	if c.ATRSlopeLookback == 0 {
		c.ATRSlopeLookback = def.ATRSlopeLookback
	}
	if c.RVOLLookback == 0 {
		c.RVOLLookback = def.RVOLLookback
	}
	if c.TenkanPeriod == 0 {
		c.TenkanPeriod = def.TenkanPeriod
	}
	if c.KijunPeriod == 0 {
		c.KijunPeriod = def.KijunPeriod
	}
	if c.SenkouBPeriod == 0 {
		c.SenkouBPeriod = def.SenkouBPeriod
	}
	if c.RVOLThreshold == 0 {
		c.RVOLThreshold = def.RVOLThreshold
	}
	if c.PivotTolerance == 0 {
		c.PivotTolerance = def.PivotTolerance
	}
	if c.TrapBaselineBars == 0 {
		c.TrapBaselineBars = def.TrapBaselineBars
	}
	if c.TrapVolumeMult == 0 {
		c.TrapVolumeMult = def.TrapVolumeMult
	}
	if c.TrapRangeMult == 0 {
		c.TrapRangeMult = def.TrapRangeMult
	}
	if c.TrapWickFraction == 0 {
		c.TrapWickFraction = def.TrapWickFraction
	}
	if c.TrapExpiryBars == 0 {
		c.TrapExpiryBars = def.TrapExpiryBars
	}
	if c.OppositeCooldown == 0 {
		c.OppositeCooldown = def.OppositeCooldown
	}
	if c.VWAPRetestTolerance == 0 {
		c.VWAPRetestTolerance = def.VWAPRetestTolerance
	}
	if c.ConfidencePushFloor == 0 {
		c.ConfidencePushFloor = def.ConfidencePushFloor
	}
	if c.SqueezeStopATR == 0 {
		c.SqueezeStopATR = def.SqueezeStopATR
	}
	if c.SqueezeTargetATR == 0 {
		c.SqueezeTargetATR = def.SqueezeTargetATR
	}
	if c.TrapStopATR == 0 {
		c.TrapStopATR = def.TrapStopATR
	}
	if c.TrapTargetATR == 0 {
		c.TrapTargetATR = def.TrapTargetATR
	}
	return c
}
