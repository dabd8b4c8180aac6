package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"mssd-catur/internal/constants"
	"mssd-catur/internal/domain"
	"mssd-catur/internal/format"
	"mssd-catur/internal/idgen"
	"mssd-catur/internal/notify"
	"mssd-catur/internal/repository"
	"mssd-catur/internal/sheets"
)

// ValidationError wraps the reasons a registration payload was
// rejected before any remote call.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "registration rejected: " + strings.Join(e.Reasons, "; ")
}

type RegistrationService struct {
	sheets        *sheets.Client
	configSvc     *ConfigService
	registrations *repository.RegistrationRepository
	drafts        *repository.DraftRepository
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewRegistrationService(
	sheetsClient *sheets.Client,
	configSvc *ConfigService,
	registrations *repository.RegistrationRepository,
	drafts *repository.DraftRepository,
	logger zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		sheets:        sheetsClient,
		configSvc:     configSvc,
		registrations: registrations,
		drafts:        drafts,
		validate:      validator.New(),
		logger:        logger,
	}
}

// SubmitResult reports a create or update. The local cache write is
// authoritative for this process; the remote outcome is only a
// delivery-unconfirmed receipt, and RemoteError carries the transport
// failure when even that could not be issued.
type SubmitResult struct {
	RegID        string               `json:"regId"`
	Registration *domain.Registration `json:"registration"`
	Receipt      *sheets.Receipt      `json:"receipt,omitempty"`
	RemoteError  string               `json:"remoteError,omitempty"`
	WhatsAppLink string               `json:"whatsappLink,omitempty"`
}

// Create validates and normalizes a new registration, generates its
// registration ID against the current cached snapshot, recomputes every
// player ID, pushes it to the remote store and caches it locally.
// The ID generation is only as fresh as the snapshot: two clients
// submitting concurrently can mint the same registration ID.
func (s *RegistrationService) Create(ctx context.Context, districtKey string, input domain.Registration) (*SubmitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	normalizeRegistration(&input)
	if err := s.validateRegistration(&input); err != nil {
		return nil, err
	}

	snapshot, err := s.registrations.All(ctx, districtKey)
	if err != nil {
		return nil, err
	}
	regID := idgen.RegistrationID(input.Students[0].Category, snapshot)
	recomputePlayerIDs(&input, regID)

	now := time.Now().UTC().Format(time.RFC3339)
	input.CreatedAt = now
	input.UpdatedAt = now
	input.Status = domain.StatusActive

	result := &SubmitResult{RegID: regID, Registration: &input}

	writeCtx, writeCancel := context.WithTimeout(ctx, constants.RemoteWriteTimeout)
	defer writeCancel()

	creds, err := s.configSvc.Credentials(ctx, districtKey)
	if err != nil {
		return nil, err
	}
	receipt, err := s.sheets.SubmitRegistration(writeCtx, creds, regID, input, false)
	if err != nil {
		// kept locally regardless; the user retries the sync manually
		s.logger.Warn().Err(err).Str("reg_id", regID).Msg("registration cached locally, remote push failed")
		result.RemoteError = err.Error()
	} else {
		result.Receipt = receipt
	}

	if err := s.registrations.Upsert(ctx, districtKey, regID, input); err != nil {
		return nil, err
	}
	if err := s.drafts.Clear(ctx, districtKey); err != nil {
		s.logger.Warn().Err(err).Str("district", districtKey).Msg("failed to clear draft after submission")
	}

	cfg, err := s.configSvc.EventConfig(ctx, districtKey)
	if err == nil {
		result.WhatsAppLink = notify.WhatsAppLink(regID, input, notify.KindCreate, cfg.AdminPhone)
	}

	s.logger.Info().
		Str("district", districtKey).
		Str("reg_id", regID).
		Str("school", input.SchoolName).
		Int("students", len(input.Students)).
		Msg("registration created")
	return result, nil
}

// Update rewrites an existing registration under its original ID,
// preserving the creation timestamp and recomputing player IDs so a
// changed gender, category, IC or school name never leaves a stale ID
// behind.
func (s *RegistrationService) Update(ctx context.Context, districtKey, regID string, input domain.Registration) (*SubmitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	normalizeRegistration(&input)
	if err := s.validateRegistration(&input); err != nil {
		return nil, err
	}

	if input.CreatedAt == "" {
		if cached, err := s.registrations.Get(ctx, districtKey, regID); err == nil {
			input.CreatedAt = cached.CreatedAt
		}
	}
	recomputePlayerIDs(&input, regID)
	input.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if input.Status == "" {
		input.Status = domain.StatusActive
	}

	result := &SubmitResult{RegID: regID, Registration: &input}

	creds, err := s.configSvc.Credentials(ctx, districtKey)
	if err != nil {
		return nil, err
	}

	writeCtx, writeCancel := context.WithTimeout(ctx, constants.RemoteWriteTimeout)
	defer writeCancel()

	receipt, err := s.sheets.SubmitRegistration(writeCtx, creds, regID, input, true)
	if err != nil {
		s.logger.Warn().Err(err).Str("reg_id", regID).Msg("update cached locally, remote push failed")
		result.RemoteError = err.Error()
	} else {
		result.Receipt = receipt
	}

	if err := s.registrations.Upsert(ctx, districtKey, regID, input); err != nil {
		return nil, err
	}

	cfg, err := s.configSvc.EventConfig(ctx, districtKey)
	if err == nil {
		result.WhatsAppLink = notify.WhatsAppLink(regID, input, notify.KindUpdate, cfg.AdminPhone)
	}

	s.logger.Info().Str("district", districtKey).Str("reg_id", regID).Msg("registration updated")
	return result, nil
}

type SearchOutcome struct {
	Found        bool                 `json:"found"`
	Registration *domain.Registration `json:"registration,omitempty"`
	Error        string               `json:"error,omitempty"`
	Source       string               `json:"source,omitempty"` // "local" or "remote"
}

// Search looks a registration up for editing. The local cache answers
// first when the password matches the head teacher's trailing phone
// digits; otherwise the remote store performs the same check itself.
func (s *RegistrationService) Search(ctx context.Context, districtKey, regID, password string) (*SearchOutcome, error) {
	cached, err := s.registrations.Get(ctx, districtKey, regID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if cached != nil && headTeacherPasswordMatches(cached, password) {
		s.logger.Debug().Str("reg_id", regID).Msg("search answered from local cache")
		return &SearchOutcome{Found: true, Registration: cached, Source: "local"}, nil
	}

	creds, err := s.configSvc.Credentials(ctx, districtKey)
	if err != nil {
		return nil, err
	}

	searchCtx, cancel := context.WithTimeout(ctx, constants.RemoteSearchTimeout)
	defer cancel()

	remote, err := s.sheets.Search(searchCtx, creds, regID, password)
	if err != nil {
		return nil, err
	}
	outcome := &SearchOutcome{
		Found:        remote.Found,
		Registration: remote.Registration,
		Error:        remote.Error,
	}
	if remote.Found {
		outcome.Source = "remote"
	}
	return outcome, nil
}

// Stats aggregates the cached snapshot for the dashboard.
func (s *RegistrationService) Stats(ctx context.Context, districtKey string) (*domain.Stats, error) {
	regs, err := s.registrations.All(ctx, districtKey)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(regs)
	return &stats, nil
}

func headTeacherPasswordMatches(reg *domain.Registration, password string) bool {
	head := reg.HeadTeacher()
	if head == nil || password == "" {
		return false
	}
	digits := format.Digits(head.Phone)
	if len(digits) < constants.PasswordDigits {
		return false
	}
	return digits[len(digits)-constants.PasswordDigits:] == password
}

// normalizeRegistration applies the form-level formatting rules:
// uppercase names, abbreviated school name, grouped phone and IC
// digits, and IC-derived gender. A complete IC always wins over a
// manually chosen gender.
func normalizeRegistration(reg *domain.Registration) {
	reg.SchoolName = format.SchoolName(reg.SchoolName)
	for i := range reg.Teachers {
		reg.Teachers[i].Name = strings.ToUpper(reg.Teachers[i].Name)
		reg.Teachers[i].Phone = format.PhoneNumber(reg.Teachers[i].Phone)
	}
	for i := range reg.Students {
		s := &reg.Students[i]
		s.Name = strings.ToUpper(s.Name)
		s.IC = format.IC(s.IC)
		if gender, ok := format.GenderFromIC(s.IC); ok {
			s.Gender = gender
		}
	}
}

// recomputePlayerIDs rederives every student's player ID from the
// current field values so no stale ID survives to persistence.
func recomputePlayerIDs(reg *domain.Registration, regID string) {
	for i := range reg.Students {
		s := &reg.Students[i]
		s.PlayerID = idgen.PlayerID(s.Gender, reg.SchoolName, i, s.Category, regID)
	}
}

func (s *RegistrationService) validateRegistration(reg *domain.Registration) error {
	var reasons []string

	if err := s.validate.Struct(reg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				reasons = append(reasons, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			reasons = append(reasons, err.Error())
		}
	}

	if head := reg.HeadTeacher(); head != nil {
		if head.Position != domain.PositionKetua {
			reasons = append(reasons, "first teacher must be the head (Ketua)")
		}
		if head.Email != "" && !format.IsValidEmail(head.Email) {
			reasons = append(reasons, fmt.Sprintf("invalid head teacher email %q", head.Email))
		}
		if head.Phone != "" && !format.IsValidMalaysianPhone(head.Phone) {
			reasons = append(reasons, fmt.Sprintf("invalid head teacher phone %q", head.Phone))
		}
	}

	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}
