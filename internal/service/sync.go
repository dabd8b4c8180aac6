package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"mssd-catur/internal/constants"
	"mssd-catur/internal/domain"
	"mssd-catur/internal/repository"
	"mssd-catur/internal/sheets"
)

// SyncService reconciles the local cache against the remote store.
// Remote config overwrites the cached config; remote registrations
// merge into the cached map key by key.
type SyncService struct {
	sheets        *sheets.Client
	configSvc     *ConfigService
	settings      *repository.SettingsRepository
	registrations *repository.RegistrationRepository
	logger        zerolog.Logger
}

func NewSyncService(
	sheetsClient *sheets.Client,
	configSvc *ConfigService,
	settings *repository.SettingsRepository,
	registrations *repository.RegistrationRepository,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		sheets:        sheetsClient,
		configSvc:     configSvc,
		settings:      settings,
		registrations: registrations,
		logger:        logger,
	}
}

type SyncResult struct {
	Config        domain.EventConfig      `json:"config"`
	Registrations domain.RegistrationsMap `json:"registrations"`
	SyncedAt      time.Time               `json:"syncedAt"`
}

// SyncAll pulls the full remote snapshot and folds it into the cache.
// It never retries on its own; a failed sync is reported and the next
// attempt is a manual action.
func (s *SyncService) SyncAll(ctx context.Context, districtKey string) (*SyncResult, error) {
	creds, err := s.configSvc.Credentials(ctx, districtKey)
	if err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithTimeout(ctx, constants.RemoteLoadTimeout)
	defer cancel()

	remote, err := s.sheets.LoadAll(loadCtx, creds)
	if err != nil {
		s.logger.Warn().Err(err).Str("district", districtKey).Msg("sync failed")
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	if remote.Config != nil {
		g.Go(func() error {
			return s.settings.SaveEventConfig(gCtx, districtKey, *remote.Config)
		})
	}
	g.Go(func() error {
		return s.registrations.MergeBatch(gCtx, districtKey, remote.Registrations)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, err := s.registrations.All(ctx, districtKey)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configSvc.EventConfig(ctx, districtKey)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("district", districtKey).
		Int("remote_registrations", len(remote.Registrations)).
		Int("cached_registrations", len(merged)).
		Msg("sync completed")

	return &SyncResult{
		Config:        cfg,
		Registrations: merged,
		SyncedAt:      time.Now(),
	}, nil
}
