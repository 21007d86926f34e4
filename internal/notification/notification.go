// Package notification pushes high-confidence alerts to external channels.
// Only alerts with ShouldPush set ever reach a provider.
package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"intraday-alert-bot/internal/engine"
)

// Notifier is one push delivery provider.
type Notifier interface {
	Send(a *engine.Alert) error
	Name() string
	IsEnabled() bool
}

// Manager fans an alert out to all enabled providers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates an empty notification manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddNotifier registers a provider.
func (m *Manager) AddNotifier(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// Push sends the alert to every enabled provider. Delivery failures are
// collected, not fatal: a dead webhook must not stop the engine.
func (m *Manager) Push(a *engine.Alert) error {
	if a == nil || !a.ShouldPush {
		return nil
	}

	var lastErr error
	for _, n := range m.notifiers {
		if !n.IsEnabled() {
			continue
		}
		if err := n.Send(a); err != nil {
			lastErr = fmt.Errorf("%s: %w", n.Name(), err)
		}
	}
	return lastErr
}

// formatAlert renders the alert as a push message body.
func formatAlert(a *engine.Alert) string {
	return fmt.Sprintf(
		"%s %s\nConfidence: %d\nEntry: %.4f | SL: %.4f | TP: %.4f\nHold: %s\n%s",
		a.Type, a.Symbol, a.Confidence,
		a.EntryPrice, a.StopLoss, a.TargetPrice, a.HoldTime, a.Explanation,
	)
}

// ============================================================================
// TELEGRAM
// ============================================================================

// TelegramNotifier sends alerts through the Telegram bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	enabled  bool
	client   *http.Client
}

// NewTelegramNotifier creates a Telegram provider.
func NewTelegramNotifier(botToken, chatID string, enabled bool) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		enabled:  enabled && botToken != "" && chatID != "",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramNotifier) Name() string { return "telegram" }

func (t *TelegramNotifier) IsEnabled() bool { return t.enabled }

func (t *TelegramNotifier) Send(a *engine.Alert) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	resp, err := t.client.PostForm(endpoint, url.Values{
		"chat_id": {t.chatID},
		"text":    {formatAlert(a)},
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// ============================================================================
// DISCORD
// ============================================================================

// DiscordNotifier sends alerts through a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// NewDiscordNotifier creates a Discord provider.
func NewDiscordNotifier(webhookURL string, enabled bool) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		enabled:    enabled && webhookURL != "",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DiscordNotifier) Name() string { return "discord" }

func (d *DiscordNotifier) IsEnabled() bool { return d.enabled }

func (d *DiscordNotifier) Send(a *engine.Alert) error {
	payload, err := json.Marshal(map[string]string{
		"content": formatAlert(a),
	})
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	resp, err := d.client.Post(d.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("send discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord returned status %d", resp.StatusCode)
	}
	return nil
}
