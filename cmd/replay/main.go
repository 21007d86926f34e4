// Command replay runs the alert engine over a CSV file of historical
// 1-minute candles and prints every emitted alert. Useful for tuning
// thresholds against recorded sessions without touching live data.
//
// CSV format (no header): unix_ms,open,high,low,close,volume
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"intraday-alert-bot/internal/engine"
	"intraday-alert-bot/internal/logging"
	"intraday-alert-bot/internal/market"
)

func main() {
	csvPath := flag.String("csv", "", "path to 1m candle CSV (unix_ms,open,high,low,close,volume)")
	symbol := flag.String("symbol", "BTCUSDT", "symbol label for emitted alerts")
	verbose := flag.Bool("v", false, "print suppressed cycles too")
	flag.Parse()

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -csv <file> [-symbol SYM] [-v]")
		os.Exit(1)
	}

	candles, err := loadCandles(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load candles: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "replaying %d bars of %s\n", len(candles), *symbol)

	eng := engine.NewEngine(engine.DefaultConfig(), logging.Nop())
	agg := market.NewAggregator(*symbol, len(candles)+1)

	var (
		director *engine.DirectorResult
		trap     = engine.TrapModeState{Type: engine.TrapNone}
		cooldown engine.CooldownState
		emitted  int
	)

	out := json.NewEncoder(os.Stdout)
	for i, c := range candles {
		agg.AppendM1(c)
		now := c.Timestamp.Add(market.TF1m.Duration())
		snap := agg.Snapshot(now)

		res := eng.Evaluate(engine.Input{
			Symbol:   *symbol,
			Now:      now,
			M1:       snap.M1,
			M2:       snap.M2,
			M5:       snap.M5,
			BarIndex: i + 1,
			Director: director,
			Trap:     trap,
			Cooldown: cooldown,
		})
		director, trap, cooldown = res.Director, res.Trap, res.Cooldown

		if res.Alert != nil {
			emitted++
			if err := out.Encode(res.Alert); err != nil {
				fmt.Fprintf(os.Stderr, "encode alert: %v\n", err)
				os.Exit(1)
			}
		} else if *verbose && res.Suppression != "" {
			fmt.Fprintf(os.Stderr, "%s  suppressed: %s\n",
				c.Timestamp.Format(time.RFC3339), res.Suppression)
		}
	}

	fmt.Fprintf(os.Stderr, "done: %d alerts from %d bars\n", emitted, len(candles))
}

func loadCandles(path string) ([]market.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	var candles []market.Candle
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		ms, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", record[0], err)
		}

		var values [5]float64
		for i := 0; i < 5; i++ {
			values[i], err = strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("parse field %q: %w", record[i+1], err)
			}
		}

		candles = append(candles, market.Candle{
			Timestamp: time.UnixMilli(ms).UTC(),
			Open:      values[0],
			High:      values[1],
			Low:       values[2],
			Close:     values[3],
			Volume:    values[4],
		})
	}
	return candles, nil
}
