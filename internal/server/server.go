package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"mssd-catur/internal/config"
	"mssd-catur/internal/district"
	"mssd-catur/internal/domain"
	"mssd-catur/internal/repository"
	"mssd-catur/internal/service"
	"mssd-catur/internal/sheets"
)

// Server exposes the registration app's JSON API. Every handler scopes
// its work to a district key resolved from the request: an explicit
// ?district= parameter wins, then the deployment-wide override, then
// the Host subdomain.
type Server struct {
	syncSvc   *service.SyncService
	regSvc    *service.RegistrationService
	configSvc *service.ConfigService
	drafts    *repository.DraftRepository
	cfg       *config.Config
	logger    zerolog.Logger
}

func New(
	syncSvc *service.SyncService,
	regSvc *service.RegistrationService,
	configSvc *service.ConfigService,
	drafts *repository.DraftRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *Server {
	return &Server{
		syncSvc:   syncSvc,
		regSvc:    regSvc,
		configSvc: configSvc,
		drafts:    drafts,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/registrations", s.handleCreate)
	mux.HandleFunc("PUT /api/registrations/{id}", s.handleUpdate)
	mux.HandleFunc("POST /api/registrations/search", s.handleSearch)
	mux.HandleFunc("POST /api/sync", s.handleSync)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/config", s.handleSaveConfig)
	mux.HandleFunc("GET /api/draft", s.handleGetDraft)
	mux.HandleFunc("PUT /api/draft", s.handleSaveDraft)
	mux.HandleFunc("DELETE /api/draft", s.handleClearDraft)
	mux.HandleFunc("GET /api/districts", s.handleDistricts)
	return mux
}

func (s *Server) districtKey(r *http.Request) string {
	override := r.URL.Query().Get("district")
	if override == "" {
		override = s.cfg.District
	}
	return district.Resolve(r.Host, override)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.regSvc.Create(r.Context(), s.districtKey(r), input)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	regID := r.PathValue("id")
	var input domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.regSvc.Update(r.Context(), s.districtKey(r), regID, input)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type searchRequest struct {
	RegID    string `json:"regId"`
	Password string `json:"password"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.RegID == "" {
		writeError(w, http.StatusBadRequest, "regId is required")
		return
	}

	outcome, err := s.regSvc.Search(r.Context(), s.districtKey(r), req.RegID, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	result, err := s.syncSvc.SyncAll(r.Context(), s.districtKey(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.regSvc.Stats(r.Context(), s.districtKey(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type configResponse struct {
	District    string             `json:"district"`
	Credentials domain.Credentials `json:"credentials"`
	Config      domain.EventConfig `json:"config"`
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	key := s.districtKey(r)
	ctx := r.Context()

	creds, err := s.configSvc.Credentials(ctx, key)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	cfg, err := s.configSvc.EventConfig(ctx, key)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, configResponse{District: key, Credentials: creds, Config: cfg})
}

type saveConfigRequest struct {
	SpreadsheetID string              `json:"spreadsheetId"`
	ScriptURL     string              `json:"scriptUrl"`
	EventConfig   *domain.EventConfig `json:"eventConfig,omitempty"`
}

type saveConfigResponse struct {
	Saved   bool            `json:"saved"`
	Receipt *sheets.Receipt `json:"receipt,omitempty"`
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req saveConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	key := s.districtKey(r)
	ctx := r.Context()
	resp := saveConfigResponse{}

	if req.SpreadsheetID != "" || req.ScriptURL != "" {
		creds := domain.Credentials{SpreadsheetID: req.SpreadsheetID, ScriptURL: req.ScriptURL}
		if err := s.configSvc.SaveCredentials(ctx, key, creds); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		resp.Saved = true
	}

	if req.EventConfig != nil {
		receipt, err := s.configSvc.SaveEventConfig(ctx, key, *req.EventConfig)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		resp.Saved = true
		resp.Receipt = receipt
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.drafts.Get(r.Context(), s.districtKey(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if draft == nil {
		writeError(w, http.StatusNotFound, "no draft saved")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := s.drafts.Save(r.Context(), s.districtKey(r), draft)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.drafts.Clear(r.Context(), s.districtKey(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, district.All())
}

// writeServiceError translates the error taxonomy into status codes:
// configuration problems and invalid payloads are the caller's to fix,
// remote-reported errors and timeouts surface as upstream failures.
// Nothing here is fatal; the client is always free to retry.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	var remote *sheets.RemoteError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Error(), "reasons": verr.Reasons})
	case errors.Is(err, sheets.ErrMissingConfig):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sheets.ErrRemoteTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &remote):
		writeError(w, http.StatusBadGateway, remote.Message)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
