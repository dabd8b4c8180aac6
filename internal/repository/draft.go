package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"mssd-catur/internal/domain"
)

// DraftRepository keeps one in-progress registration form per district
// so a reload does not discard a partially filled form.
type DraftRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewDraftRepository(db *sql.DB, logger zerolog.Logger) *DraftRepository {
	return &DraftRepository{db: db, logger: logger}
}

func (r *DraftRepository) Save(ctx context.Context, district string, draft domain.Draft) (*domain.Draft, error) {
	if draft.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate draft id: %w", err)
		}
		draft.ID = id
	}
	draft.UpdatedAt = time.Now()

	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO drafts (district, draft_id, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (district) DO UPDATE SET
		   draft_id = excluded.draft_id, payload = excluded.payload, updated_at = excluded.updated_at`,
		district, draft.ID, string(payload), draft.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	r.logger.Debug().Str("district", district).Str("draft_id", draft.ID).Msg("draft saved")
	return &draft, nil
}

// Get returns the district's draft, or nil when none exists.
func (r *DraftRepository) Get(ctx context.Context, district string) (*domain.Draft, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM drafts WHERE district = ?`, district).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	var draft domain.Draft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

func (r *DraftRepository) Clear(ctx context.Context, district string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE district = ?`, district); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}
