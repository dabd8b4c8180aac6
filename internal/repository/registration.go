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

// ErrNotFound is returned when a registration ID has no cached row.
var ErrNotFound = errors.New("repository: registration not found")

// RegistrationRepository caches the known registrations snapshot per
// district. Remote syncs merge into it key by key, last writer wins;
// the cache is never replaced wholesale.
type RegistrationRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRegistrationRepository(db *sql.DB, logger zerolog.Logger) *RegistrationRepository {
	return &RegistrationRepository{db: db, logger: logger}
}

func (r *RegistrationRepository) Upsert(ctx context.Context, district, regID string, reg domain.Registration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to encode registration %s: %w", regID, err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO registrations (district, reg_id, payload, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (district, reg_id) DO UPDATE SET
		   payload = excluded.payload, status = excluded.status, updated_at = excluded.updated_at`,
		district, regID, string(payload), statusOrActive(reg.Status), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert registration %s: %w", regID, err)
	}

	r.logger.Debug().Str("district", district).Str("reg_id", regID).Msg("registration cached")
	return nil
}

// MergeBatch overwrites each key present in the remote snapshot while
// leaving cached registrations absent from it untouched.
func (r *RegistrationRepository) MergeBatch(ctx context.Context, district string, regs domain.RegistrationsMap) error {
	if len(regs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for regID, reg := range regs {
		payload, err := json.Marshal(reg)
		if err != nil {
			return fmt.Errorf("failed to encode registration %s: %w", regID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO registrations (district, reg_id, payload, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (district, reg_id) DO UPDATE SET
			   payload = excluded.payload, status = excluded.status, updated_at = excluded.updated_at`,
			district, regID, string(payload), statusOrActive(reg.Status), now, now)
		if err != nil {
			return fmt.Errorf("failed to merge registration %s: %w", regID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge: %w", err)
	}

	r.logger.Info().Str("district", district).Int("count", len(regs)).Msg("remote registrations merged into cache")
	return nil
}

func (r *RegistrationRepository) Get(ctx context.Context, district, regID string) (*domain.Registration, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM registrations WHERE district = ? AND reg_id = ?`, district, regID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registration %s: %w", regID, err)
	}

	var reg domain.Registration
	if err := json.Unmarshal([]byte(payload), &reg); err != nil {
		return nil, fmt.Errorf("failed to decode registration %s: %w", regID, err)
	}
	return &reg, nil
}

// All returns the district's cached snapshot keyed by registration ID.
func (r *RegistrationRepository) All(ctx context.Context, district string) (domain.RegistrationsMap, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT reg_id, payload FROM registrations WHERE district = ?`, district)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	regs := domain.RegistrationsMap{}
	for rows.Next() {
		var regID, payload string
		if err := rows.Scan(&regID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		var reg domain.Registration
		if err := json.Unmarshal([]byte(payload), &reg); err != nil {
			r.logger.Warn().Err(err).Str("reg_id", regID).Msg("skipping unreadable cached registration")
			continue
		}
		regs[regID] = reg
	}
	return regs, rows.Err()
}

func statusOrActive(status string) string {
	if status == "" {
		return domain.StatusActive
	}
	return status
}
