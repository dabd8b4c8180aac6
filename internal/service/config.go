package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"mssd-catur/internal/config"
	"mssd-catur/internal/constants"
	"mssd-catur/internal/district"
	"mssd-catur/internal/domain"
	"mssd-catur/internal/repository"
	"mssd-catur/internal/sheets"
)

// ConfigService resolves credentials and event configuration for a
// district. Credentials resolve per field through a fixed provider
// chain: explicit environment override, then locally saved value, then
// the district's baked-in default.
type ConfigService struct {
	cfg      *config.Config
	settings *repository.SettingsRepository
	sheets   *sheets.Client
	logger   zerolog.Logger
}

func NewConfigService(cfg *config.Config, settings *repository.SettingsRepository, sheetsClient *sheets.Client, logger zerolog.Logger) *ConfigService {
	return &ConfigService{cfg: cfg, settings: settings, sheets: sheetsClient, logger: logger}
}

// Credentials returns the active spreadsheet credentials for the
// district.
func (s *ConfigService) Credentials(ctx context.Context, districtKey string) (domain.Credentials, error) {
	saved, err := s.settings.Credentials(ctx, districtKey)
	if err != nil {
		return domain.Credentials{}, err
	}
	defaults := district.Get(districtKey).Credentials

	creds := domain.Credentials{
		SpreadsheetID: firstNonEmpty(s.cfg.SpreadsheetID, saved.SpreadsheetID, defaults.SpreadsheetID),
		ScriptURL:     firstNonEmpty(s.cfg.ScriptURL, saved.ScriptURL, defaults.ScriptURL),
	}
	return creds, nil
}

// EventConfig returns the district defaults overlaid with whatever was
// saved locally (which a successful sync keeps aligned with remote).
func (s *ConfigService) EventConfig(ctx context.Context, districtKey string) (domain.EventConfig, error) {
	saved, err := s.settings.EventConfig(ctx, districtKey)
	if err != nil {
		return domain.EventConfig{}, err
	}
	return district.MergeConfig(district.Get(districtKey).Config, saved), nil
}

// SaveCredentials probes the candidate credentials with a loadAll and
// persists them only when the probe succeeds, so the settings flow
// cannot save an unreachable configuration.
func (s *ConfigService) SaveCredentials(ctx context.Context, districtKey string, creds domain.Credentials) error {
	probeCtx, cancel := context.WithTimeout(ctx, constants.RemoteLoadTimeout)
	defer cancel()

	if err := s.sheets.ValidateCredentials(probeCtx, creds); err != nil {
		s.logger.Warn().Err(err).Str("district", districtKey).Msg("rejecting unreachable credentials")
		return fmt.Errorf("credentials not saved: %w", err)
	}

	if err := s.settings.SaveCredentials(ctx, districtKey, creds); err != nil {
		return err
	}
	s.logger.Info().Str("district", districtKey).Msg("credentials validated and saved")
	return nil
}

// SaveEventConfig persists the event configuration locally and pushes
// it to the remote store. The push returns a delivery-unconfirmed
// receipt; a transport failure leaves the local save in place.
func (s *ConfigService) SaveEventConfig(ctx context.Context, districtKey string, cfg domain.EventConfig) (*sheets.Receipt, error) {
	if err := s.settings.SaveEventConfig(ctx, districtKey, cfg); err != nil {
		return nil, err
	}

	creds, err := s.Credentials(ctx, districtKey)
	if err != nil {
		return nil, err
	}

	writeCtx, cancel := context.WithTimeout(ctx, constants.RemoteWriteTimeout)
	defer cancel()

	receipt, err := s.sheets.UpdateConfig(writeCtx, creds, cfg)
	if err != nil {
		s.logger.Warn().Err(err).Str("district", districtKey).Msg("event config saved locally but remote push failed")
		return nil, fmt.Errorf("saved locally, remote push failed: %w", err)
	}
	return receipt, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
