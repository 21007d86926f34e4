package database

import (
	"context"
	"fmt"

	"intraday-alert-bot/internal/engine"
)

// Repository provides access to alert history.
type Repository struct {
	db *DB
}

// NewRepository creates a repository over the given database.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveAlert stores one emitted alert.
func (r *Repository) SaveAlert(ctx context.Context, a *engine.Alert) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO alerts (
			id, symbol, type, emitted_at, confidence, should_push,
			director, validator, trigger_reason, explanation,
			entry_price, stop_loss, target_price, hold_time
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		a.ID, a.Symbol, a.Type, a.Timestamp, a.Confidence, a.ShouldPush,
		a.Director, a.Validator, a.TriggerReason, a.Explanation,
		a.EntryPrice, a.StopLoss, a.TargetPrice, a.HoldTime,
	)
	if err != nil {
		return fmt.Errorf("save alert: %w", err)
	}
	return nil
}

// GetRecentAlerts returns the newest alerts for a symbol, newest first.
func (r *Repository) GetRecentAlerts(ctx context.Context, symbol string, limit int) ([]engine.Alert, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, symbol, type, emitted_at, confidence, should_push,
		       director, validator, trigger_reason, explanation,
		       entry_price, stop_loss, target_price, hold_time
		FROM alerts
		WHERE symbol = $1
		ORDER BY emitted_at DESC
		LIMIT $2`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// GetAlertsByType returns the newest alerts of one type for a symbol.
func (r *Repository) GetAlertsByType(ctx context.Context, symbol string, alertType engine.AlertType, limit int) ([]engine.Alert, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, symbol, type, emitted_at, confidence, should_push,
		       director, validator, trigger_reason, explanation,
		       entry_price, stop_loss, target_price, hold_time
		FROM alerts
		WHERE symbol = $1 AND type = $2
		ORDER BY emitted_at DESC
		LIMIT $3`, symbol, alertType, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts by type: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAlerts(rows rowScanner) ([]engine.Alert, error) {
	var alerts []engine.Alert
	for rows.Next() {
		var a engine.Alert
		if err := rows.Scan(
			&a.ID, &a.Symbol, &a.Type, &a.Timestamp, &a.Confidence, &a.ShouldPush,
			&a.Director, &a.Validator, &a.TriggerReason, &a.Explanation,
			&a.EntryPrice, &a.StopLoss, &a.TargetPrice, &a.HoldTime,
		); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
