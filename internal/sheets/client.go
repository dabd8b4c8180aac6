// Package sheets talks to the spreadsheet-backed Apps Script endpoint.
// Reads go through the endpoint's callback-wrapper contract: the
// response body is `{callback}({json})` with a caller-supplied callback
// token, kept from the original script-tag transport even though this
// client fetches it directly. Writes are fire-and-forget POSTs whose
// response carries nothing the client may rely on, so a write that the
// remote side rejected is indistinguishable from one it accepted.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"

	"mssd-catur/internal/domain"
)

var (
	// ErrMissingConfig is returned before any network attempt when the
	// script URL or spreadsheet ID is absent, malformed, or still a
	// placeholder.
	ErrMissingConfig = errors.New("sheets: script URL or spreadsheet ID not configured")

	// ErrRemoteTimeout is returned when the endpoint does not answer a
	// read within its budget. The in-flight request is abandoned; a
	// late reply is discarded.
	ErrRemoteTimeout = errors.New("sheets: remote endpoint timed out")
)

// RemoteError carries an error string the endpoint reported itself.
// The message is forwarded verbatim to the caller.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "sheets: remote reported: " + e.Message
}

const (
	actionLoadAll      = "loadAll"
	actionSearch       = "search"
	actionSubmit       = "submit"
	actionUpdate       = "update"
	actionUpdateConfig = "updateConfig"
)

type Client struct {
	client *fasthttp.Client
	logger zerolog.Logger
}

func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         30 * time.Second,
			WriteTimeout:        30 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

// LoadAllResult is the loadAll callback payload.
type LoadAllResult struct {
	Config        *domain.EventConfig     `json:"config"`
	Registrations domain.RegistrationsMap `json:"registrations"`
	Error         string                  `json:"error"`
}

// SearchResult is the search callback payload. Found=false with an
// error message is a normal outcome, not a transport failure; the
// password check behind it belongs entirely to the remote side.
type SearchResult struct {
	Found        bool                 `json:"found"`
	Registration *domain.Registration `json:"registration"`
	Error        string               `json:"error"`
}

// Receipt records that a write left this process. It deliberately does
// not claim the remote side applied it: the write transport surfaces no
// readable result, so delivery stays unconfirmed and callers must not
// treat a Receipt as confirmed success.
type Receipt struct {
	Action string    `json:"action"`
	SentAt time.Time `json:"sentAt"`
}

// LoadAll fetches the full remote snapshot: event config plus every
// registration.
func (c *Client) LoadAll(ctx context.Context, creds domain.Credentials) (*LoadAllResult, error) {
	params := url.Values{}
	result, err := doRead[LoadAllResult](ctx, c, creds, actionLoadAll, params)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		c.logger.Warn().Str("error", result.Error).Msg("remote loadAll reported an error")
		return nil, &RemoteError{Message: result.Error}
	}
	c.logger.Info().Int("registrations", len(result.Registrations)).Msg("remote snapshot loaded")
	return result, nil
}

// Search asks the endpoint for one registration, gated remotely by the
// last four digits of the head teacher's phone number.
func (c *Client) Search(ctx context.Context, creds domain.Credentials, regID, password string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("regId", regID)
	params.Set("password", password)
	result, err := doRead[SearchResult](ctx, c, creds, actionSearch, params)
	if err != nil {
		return nil, err
	}
	c.logger.Info().Str("reg_id", regID).Bool("found", result.Found).Msg("remote search completed")
	return result, nil
}

// SubmitRegistration pushes a full registration payload. isUpdate
// selects the update action and carries the original creation time.
func (c *Client) SubmitRegistration(ctx context.Context, creds domain.Credentials, regID string, reg domain.Registration, isUpdate bool) (*Receipt, error) {
	action := actionSubmit
	payload := writePayload{
		SpreadsheetID:  creds.SpreadsheetID,
		RegistrationID: regID,
		SchoolName:     reg.SchoolName,
		SchoolType:     reg.SchoolType,
		Teachers:       reg.Teachers,
		Students:       reg.Students,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	if isUpdate {
		action = actionUpdate
		payload.OriginalCreatedAt = reg.CreatedAt
		payload.UpdateTimestamp = payload.Timestamp
	}
	payload.Action = action

	return c.doWrite(ctx, creds, payload)
}

// UpdateConfig pushes the full event configuration object.
func (c *Client) UpdateConfig(ctx context.Context, creds domain.Credentials, cfg domain.EventConfig) (*Receipt, error) {
	return c.doWrite(ctx, creds, writePayload{
		Action:        actionUpdateConfig,
		SpreadsheetID: creds.SpreadsheetID,
		Config:        &cfg,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

// ValidateCredentials probes candidate credentials with a loadAll
// before they are persisted, so the settings flow never saves an
// unreachable configuration.
func (c *Client) ValidateCredentials(ctx context.Context, creds domain.Credentials) error {
	if _, err := c.LoadAll(ctx, creds); err != nil {
		return fmt.Errorf("credential probe failed: %w", err)
	}
	return nil
}

type writePayload struct {
	Action            string              `json:"action"`
	SpreadsheetID     string              `json:"spreadsheetId"`
	RegistrationID    string              `json:"registrationId,omitempty"`
	SchoolName        string              `json:"schoolName,omitempty"`
	SchoolType        string              `json:"schoolType,omitempty"`
	Teachers          []domain.Teacher    `json:"teachers,omitempty"`
	Students          []domain.Student    `json:"students,omitempty"`
	Config            *domain.EventConfig `json:"config,omitempty"`
	Timestamp         string              `json:"timestamp"`
	OriginalCreatedAt string              `json:"originalCreatedAt,omitempty"`
	UpdateTimestamp   string              `json:"updateTimestamp,omitempty"`
}

// checkCredentials rejects absent, placeholder or unparseable
// credentials before any network attempt.
func checkCredentials(creds domain.Credentials) error {
	if creds.ScriptURL == "" || creds.SpreadsheetID == "" {
		return ErrMissingConfig
	}
	if strings.Contains(creds.ScriptURL, "REPLACE") || strings.Contains(creds.SpreadsheetID, "REPLACE") {
		return ErrMissingConfig
	}
	parsed, err := url.Parse(creds.ScriptURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: malformed script URL %q", ErrMissingConfig, creds.ScriptURL)
	}
	return nil
}

func doRead[T any](ctx context.Context, c *Client, creds domain.Credentials, action string, params url.Values) (*T, error) {
	if err := checkCredentials(creds); err != nil {
		return nil, err
	}

	token, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", 12)
	if err != nil {
		return nil, fmt.Errorf("failed to generate callback token: %w", err)
	}
	callback := "cb_" + token

	params.Set("action", action)
	params.Set("spreadsheetId", creds.SpreadsheetID)
	params.Set("callback", callback)
	requestURL := creds.ScriptURL + "?" + params.Encode()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.do(ctx, req, resp); err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("sheets: endpoint returned status %d", resp.StatusCode())
	}

	body, err := unwrapCallback(resp.Body(), callback)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("sheets: malformed callback payload: %w", err)
	}
	return &result, nil
}

func (c *Client) doWrite(ctx context.Context, creds domain.Credentials, payload writePayload) (*Receipt, error) {
	if err := checkCredentials(creds); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(creds.ScriptURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.do(ctx, req, resp); err != nil {
		return nil, err
	}

	// The response body and status are not inspected. The endpoint
	// answers writes with redirects and opaque bodies, so the only
	// observable outcome is that the transport call itself succeeded.
	receipt := &Receipt{Action: payload.Action, SentAt: time.Now()}
	c.logger.Info().
		Str("action", payload.Action).
		Str("reg_id", payload.RegistrationID).
		Msg("write accepted for delivery, remote outcome unconfirmed")
	return receipt, nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return ErrRemoteTimeout
		}
		return fmt.Errorf("sheets: request failed: %w", err)
	}
	return nil
}

// unwrapCallback strips the `{callback}(...)` wrapper from a read
// response, leaving the JSON argument.
func unwrapCallback(body []byte, callback string) ([]byte, error) {
	s := strings.TrimSpace(string(body))
	if !strings.HasPrefix(s, callback+"(") || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("sheets: response is not a %s(...) callback", callback)
	}
	return []byte(s[len(callback)+1 : len(s)-1]), nil
}

var Module = fx.Provide(NewClient)
