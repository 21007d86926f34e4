// Package feed connects the engine to live market data: a websocket kline
// stream producing closed 1-minute bars, and a runner that drives one
// evaluation cycle per bar on a single-flight basis.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"intraday-alert-bot/internal/market"
)

// BarHandler receives each closed 1-minute candle.
type BarHandler func(market.Candle)

// StreamConfig configures the kline websocket stream.
type StreamConfig struct {
	BaseURL        string
	Symbol         string
	ReconnectDelay time.Duration
	PingInterval   time.Duration
}

// Stream maintains a websocket subscription to the exchange 1m kline stream
// and forwards closed bars to its handler.
type Stream struct {
	cfg     StreamConfig
	handler BarHandler
	log     zerolog.Logger
}

// NewStream creates a stream for one symbol.
func NewStream(cfg StreamConfig, handler BarHandler, log zerolog.Logger) *Stream {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	return &Stream{
		cfg:     cfg,
		handler: handler,
		log:     log.With().Str("component", "feed").Logger(),
	}
}

// klineEvent mirrors the exchange kline stream payload.
type klineEvent struct {
	EventType string `json:"e"`
	Kline     struct {
		OpenTime int64  `json:"t"`
		Open     string `json:"o"`
		High     string `json:"h"`
		Low      string `json:"l"`
		Close    string `json:"c"`
		Volume   string `json:"v"`
		Closed   bool   `json:"x"`
	} `json:"k"`
}

// Run keeps the stream connected until the context is cancelled, reconnecting
// with a fixed delay after any failure.
func (s *Stream) Run(ctx context.Context, onReconnect func()) {
	endpoint := fmt.Sprintf("%s/%s@kline_1m", s.cfg.BaseURL, strings.ToLower(s.cfg.Symbol))

	for {
		if err := s.connectAndRead(ctx, endpoint); err != nil {
			s.log.Warn().Err(err).Msg("stream disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.ReconnectDelay):
			if onReconnect != nil {
				onReconnect()
			}
		}
	}
}

func (s *Stream) connectAndRead(ctx context.Context, endpoint string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	defer conn.Close()

	s.log.Info().Str("endpoint", endpoint).Msg("stream connected")

	// Keepalive pings; the exchange drops idle connections.
	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go func() {
		ticker := time.NewTicker(s.cfg.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pingCtx.Done():
				return
			case <-ticker.C:
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	go func() {
		<-pingCtx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		candle, closed, err := parseKline(data)
		if err != nil {
			s.log.Debug().Err(err).Msg("skipping unparseable message")
			continue
		}
		if closed {
			s.handler(candle)
		}
	}
}

// parseKline decodes one stream message into a candle. Only closed bars are
// handed to the engine.
func parseKline(data []byte) (market.Candle, bool, error) {
	var event klineEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return market.Candle{}, false, fmt.Errorf("unmarshal kline: %w", err)
	}
	if event.EventType != "kline" {
		return market.Candle{}, false, nil
	}

	k := event.Kline
	fields := [5]string{k.Open, k.High, k.Low, k.Close, k.Volume}
	var values [5]float64
	for i, raw := range fields {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return market.Candle{}, false, fmt.Errorf("parse kline field %q: %w", raw, err)
		}
		values[i] = v
	}

	return market.Candle{
		Timestamp: time.UnixMilli(k.OpenTime).UTC(),
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, k.Closed, nil
}
