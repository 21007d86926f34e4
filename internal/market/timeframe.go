package market

import "time"

// Timeframe represents a chart timeframe used by the decision pipeline.
type Timeframe string

const (
	TF1m Timeframe = "1m"
	TF2m Timeframe = "2m"
	TF5m Timeframe = "5m"
)

// EngineTimeframes lists the timeframes the alert engine consumes, fastest first.
var EngineTimeframes = []Timeframe{TF1m, TF2m, TF5m}

// Duration returns the bar duration for the timeframe.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TF1m:
		return time.Minute
	case TF2m:
		return 2 * time.Minute
	case TF5m:
		return 5 * time.Minute
	default:
		return time.Minute
	}
}

// BucketStart truncates a timestamp down to the start of its bar bucket.
func (tf Timeframe) BucketStart(ts time.Time) time.Time {
	return ts.Truncate(tf.Duration())
}

// NextBoundary returns the first bar boundary strictly after ts.
func (tf Timeframe) NextBoundary(ts time.Time) time.Time {
	return tf.BucketStart(ts).Add(tf.Duration())
}
