package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mssd-catur/internal/domain"
)

// Setting keys mirror the browser-era storage names; each row is
// namespaced by district so instances sharing one deployment never read
// each other's values.
const (
	KeySpreadsheetID = "spreadsheetId"
	KeyScriptURL     = "scriptUrl"
	KeyEventConfig   = "eventConfig"
)

type SettingsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSettingsRepository(db *sql.DB, logger zerolog.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, logger: logger}
}

func (r *SettingsRepository) Get(ctx context.Context, district, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE district = ? AND key = ?`, district, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SettingsRepository) Set(ctx context.Context, district, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (district, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (district, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		district, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	r.logger.Debug().Str("district", district).Str("key", key).Msg("setting saved")
	return nil
}

// Credentials returns the locally saved spreadsheet credentials for the
// district. Either field may be empty when nothing was saved yet.
func (r *SettingsRepository) Credentials(ctx context.Context, district string) (domain.Credentials, error) {
	var creds domain.Credentials
	id, _, err := r.Get(ctx, district, KeySpreadsheetID)
	if err != nil {
		return creds, err
	}
	url, _, err := r.Get(ctx, district, KeyScriptURL)
	if err != nil {
		return creds, err
	}
	creds.SpreadsheetID = id
	creds.ScriptURL = url
	return creds, nil
}

func (r *SettingsRepository) SaveCredentials(ctx context.Context, district string, creds domain.Credentials) error {
	if err := r.Set(ctx, district, KeySpreadsheetID, creds.SpreadsheetID); err != nil {
		return err
	}
	return r.Set(ctx, district, KeyScriptURL, creds.ScriptURL)
}

// EventConfig returns the saved event configuration, or nil when the
// district never saved one.
func (r *SettingsRepository) EventConfig(ctx context.Context, district string) (*domain.EventConfig, error) {
	raw, ok, err := r.Get(ctx, district, KeyEventConfig)
	if err != nil || !ok {
		return nil, err
	}
	var cfg domain.EventConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		// a corrupt saved config falls back to defaults rather than
		// wedging the app
		r.logger.Warn().Err(err).Str("district", district).Msg("discarding unreadable saved event config")
		return nil, nil
	}
	return &cfg, nil
}

func (r *SettingsRepository) SaveEventConfig(ctx context.Context, district string, cfg domain.EventConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode event config: %w", err)
	}
	return r.Set(ctx, district, KeyEventConfig, string(raw))
}
