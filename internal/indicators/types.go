package indicators

// TrendDirection classifies directional readings shared by ADX, SuperTrend
// and the bias pipeline.
type TrendDirection string

const (
	DirectionBullish TrendDirection = "BULLISH"
	DirectionBearish TrendDirection = "BEARISH"
	DirectionNeutral TrendDirection = "NEUTRAL"
)

// TrendStrength buckets ADX readings into trend-quality grades.
type TrendStrength string

const (
	StrengthNoTrend    TrendStrength = "NO_TREND"
	StrengthWeak       TrendStrength = "WEAK"
	StrengthModerate   TrendStrength = "MODERATE"
	StrengthStrong     TrendStrength = "STRONG"
	StrengthVeryStrong TrendStrength = "VERY_STRONG"
)

// SignalAction is a per-bar action emitted by flip/cross style indicators.
// BUY and SELL fire only on the bar where the flip happens.
type SignalAction string

const (
	ActionBuy  SignalAction = "BUY"
	ActionSell SignalAction = "SELL"
	ActionHold SignalAction = "HOLD"
)

// CloudPosition classifies price relative to the Ichimoku cloud.
type CloudPosition string

const (
	AboveCloud  CloudPosition = "ABOVE_CLOUD"
	BelowCloud  CloudPosition = "BELOW_CLOUD"
	InsideCloud CloudPosition = "INSIDE_CLOUD"
)

// VWAPPosition classifies price relative to VWAP and its bands.
type VWAPPosition string

const (
	AboveUpperBand VWAPPosition = "ABOVE_UPPER"
	AboveVWAP      VWAPPosition = "ABOVE_VWAP"
	AtVWAP         VWAPPosition = "AT_VWAP"
	BelowVWAP      VWAPPosition = "BELOW_VWAP"
	BelowLowerBand VWAPPosition = "BELOW_LOWER"
)
