package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"intraday-alert-bot/internal/market"
)

// Backfill fetches recent closed 1-minute klines over REST so the engine has
// enough history at startup instead of waiting hours for the live stream to
// accumulate it.
func Backfill(ctx context.Context, baseURL, symbol string, limit int) ([]market.Candle, error) {
	if limit <= 0 || limit > 1000 {
		limit = 500
	}

	endpoint := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=1m&limit=%d", baseURL, symbol, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build backfill request: %w", err)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("klines endpoint returned %d: %s", resp.StatusCode, body)
	}

	// Each kline is a mixed-type JSON array:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var raw [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}

	candles := make([]market.Candle, 0, len(raw))
	for _, row := range raw {
		if len(row) < 6 {
			continue
		}

		var openTime int64
		if err := json.Unmarshal(row[0], &openTime); err != nil {
			return nil, fmt.Errorf("parse kline open time: %w", err)
		}

		var values [5]float64
		for i := 0; i < 5; i++ {
			var s string
			if err := json.Unmarshal(row[i+1], &s); err != nil {
				return nil, fmt.Errorf("parse kline field: %w", err)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parse kline value %q: %w", s, err)
			}
			values[i] = v
		}

		candles = append(candles, market.Candle{
			Timestamp: time.UnixMilli(openTime).UTC(),
			Open:      values[0],
			High:      values[1],
			Low:       values[2],
			Close:     values[3],
			Volume:    values[4],
		})
	}

	// The newest kline may still be forming; drop it so only closed bars
	// enter the series.
	if len(candles) > 0 {
		candles = candles[:len(candles)-1]
	}
	return candles, nil
}
