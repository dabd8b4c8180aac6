package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"mssd-catur/internal/config"
	"mssd-catur/internal/database"
	"mssd-catur/internal/domain"
	"mssd-catur/internal/repository"
	"mssd-catur/internal/service"
	"mssd-catur/internal/sheets"
)

// newTestServer stands up the full handler stack against a scratch
// database and a stub remote endpoint that answers reads with an empty
// snapshot and swallows writes.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			return
		}
		cb := r.URL.Query().Get("callback")
		fmt.Fprintf(w, "%s({\"registrations\":{}})", cb)
	}))
	t.Cleanup(remote.Close)

	cfg := &config.Config{
		DBPath:        filepath.Join(t.TempDir(), "test.db"),
		ScriptURL:     remote.URL,
		SpreadsheetID: "sheet-test",
		District:      "mssdmuar",
	}

	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	nop := zerolog.Nop()
	settings := repository.NewSettingsRepository(db, nop)
	regs := repository.NewRegistrationRepository(db, nop)
	drafts := repository.NewDraftRepository(db, nop)
	client := sheets.NewClient(nop)
	configSvc := service.NewConfigService(cfg, settings, client, nop)
	syncSvc := service.NewSyncService(client, configSvc, settings, regs, nop)
	regSvc := service.NewRegistrationService(client, configSvc, regs, drafts, nop)

	srv := New(syncSvc, regSvc, configSvc, drafts, cfg, nop)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func validRegistration() domain.Registration {
	return domain.Registration{
		SchoolName: "sekolah kebangsaan taman desa",
		SchoolType: "Sekolah Kebangsaan",
		Teachers: []domain.Teacher{
			{Name: "aminah binti ahmad", Email: "aminah@moe.edu.my", Phone: "0123456789", Position: domain.PositionKetua},
		},
		Students: []domain.Student{
			{Name: "ali", IC: "141231011235", Gender: domain.GenderFemale, Race: "Melayu", Category: domain.CategoryU12},
		},
	}
}

func TestCreateRegistrationEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/registrations", validRegistration())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var result service.SubmitResult
	decodeBody(t, resp, &result)
	if result.RegID != "MSSD-01-01" {
		t.Errorf("regID = %q, want MSSD-01-01", result.RegID)
	}
	if result.Registration == nil || result.Registration.SchoolName != "SK TAMAN DESA" {
		t.Errorf("school name not normalized: %+v", result.Registration)
	}
}

func TestCreateRejectsBadBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/registrations", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestCreateValidationFailure(t *testing.T) {
	ts := newTestServer(t)

	input := validRegistration()
	input.Students = nil
	resp := postJSON(t, ts.URL+"/api/registrations", input)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body struct {
		Error   string   `json:"error"`
		Reasons []string `json:"reasons"`
	}
	decodeBody(t, resp, &body)
	if len(body.Reasons) == 0 {
		t.Error("expected validation reasons in response")
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/registrations", validRegistration())
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/registrations/search", map[string]string{
		"regId":    "MSSD-01-01",
		"password": "6789",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var outcome service.SearchOutcome
	decodeBody(t, resp, &outcome)
	if !outcome.Found {
		t.Error("expected local search hit")
	}
	if outcome.Source != "local" {
		t.Errorf("source = %q, want local", outcome.Source)
	}
}

func TestSearchRequiresRegID(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/registrations/search", map[string]string{"password": "1234"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/registrations", validRegistration())
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET stats: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var stats domain.Stats
	decodeBody(t, resp, &stats)
	if stats.TotalSchools != 1 || stats.TotalStudents != 1 {
		t.Errorf("stats = %+v, want 1 school and 1 student", stats)
	}
}

func TestDraftLifecycle(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()

	getStatus := func() int {
		resp, err := client.Get(ts.URL + "/api/draft")
		if err != nil {
			t.Fatalf("GET draft: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := getStatus(); got != http.StatusNotFound {
		t.Fatalf("empty draft status = %d, want %d", got, http.StatusNotFound)
	}

	raw, _ := json.Marshal(domain.Draft{SchoolName: "SK Parit Jawa"})
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/draft", strings.NewReader(string(raw)))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT draft: %v", err)
	}
	var saved domain.Draft
	decodeBody(t, resp, &saved)
	if saved.ID == "" {
		t.Error("expected server-assigned draft id")
	}

	if got := getStatus(); got != http.StatusOK {
		t.Fatalf("saved draft status = %d, want %d", got, http.StatusOK)
	}

	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/draft", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE draft: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	if got := getStatus(); got != http.StatusNotFound {
		t.Errorf("cleared draft status = %d, want %d", got, http.StatusNotFound)
	}
}

func TestDistrictsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/districts")
	if err != nil {
		t.Fatalf("GET districts: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var districts []map[string]any
	decodeBody(t, resp, &districts)
	if len(districts) < 2 {
		t.Fatalf("expected at least two districts, got %d", len(districts))
	}
	if districts[len(districts)-1]["key"] != "default" {
		t.Errorf("expected default district listed last, got %v", districts[len(districts)-1]["key"])
	}
}

func TestGetConfigEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/config?district=mssdmuar")
	if err != nil {
		t.Fatalf("GET config: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body configResponse
	decodeBody(t, resp, &body)
	if body.District != "mssdmuar" {
		t.Errorf("district = %q, want mssdmuar", body.District)
	}
	if body.Credentials.ScriptURL == "" {
		t.Error("expected resolved script URL")
	}
	if body.Config.EventName == "" {
		t.Error("expected merged event config")
	}
}
