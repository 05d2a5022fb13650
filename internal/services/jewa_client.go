package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/jewa/internal/metrics"
	"github.com/example/jewa/internal/models"
)

// DefaultJewaBaseURL is the production community service.
const DefaultJewaBaseURL = "https://jewapropertypro.com/infinity/api"

// Upstream endpoints.
const (
	EndpointLogin            = "/login"
	EndpointPreauthorise     = "/preauthorisevisitor"
	EndpointVisitors         = "/getallvisitors"
	EndpointRevokeOTP        = "/otprevoked"
	EndpointDeliveries       = "/getalldeliveries"
	EndpointDeliveryResponse = "/updatedeliveryrequest"
	EndpointNotifications    = "/allnotifications"
	EndpointAddAlert         = "/addalert"
	EndpointAlerts           = "/getalerts"
	EndpointUpdateAlert      = "/updatealert"
)

// failureMarkers are phrases the community service puts in a 2xx "message"
// when it did not actually do what was asked.
var failureMarkers = []string{
	"fail",
	"error",
	"not found",
	"unable",
	"unauthori",
	"incorrect",
	"does not exist",
	"invalid credentials",
	"invalid request",
}

// negatedSuccess are failure phrases that contain the word "success".
var negatedSuccess = []string{
	"unsuccess",
	"not success",
	"no success",
}

// JewaClient talks to the community service. Every call is a JSON POST.
type JewaClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	metrics    *metrics.Upstream
}

// ClientOption customises a JewaClient.
type ClientOption func(*JewaClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *JewaClient) {
		c.httpClient = hc
	}
}

// WithMetrics records every request in m.
func WithMetrics(m *metrics.Upstream) ClientOption {
	return func(c *JewaClient) {
		c.metrics = m
	}
}

// NewJewaClient builds a client for baseURL. A zero timeout means requests
// are bounded only by their context.
func NewJewaClient(baseURL string, timeout time.Duration, log *zap.Logger, opts ...ClientOption) *JewaClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultJewaBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &JewaClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service root.
func (c *JewaClient) BaseURL() string {
	return c.baseURL
}

type envelope struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func (c *JewaClient) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	started := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() {
		c.metrics.Observe(endpoint, outcome, time.Since(started))
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		outcome = metrics.OutcomeTransport
		return nil, fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		outcome = metrics.OutcomeTransport
		return nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = metrics.OutcomeTransport
		c.log.Warn("community service unreachable", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = metrics.OutcomeTransport
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("read response: %w", err)}
	}

	if err := classify(endpoint, resp.StatusCode, respBody); err != nil {
		outcome = metrics.OutcomeBackend
		c.log.Info("community service rejected request",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, err
	}

	c.log.Debug("community service request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	return respBody, nil
}

// classify turns a response into a BackendError when the service refused the
// request, whether or not it said so with the status code.
func classify(endpoint string, status int, body []byte) error {
	var env envelope
	_ = json.Unmarshal(body, &env)
	message := rawString(env.Message)
	errText := rawString(env.Error)

	if status < 200 || status >= 300 {
		msg := message
		if msg == "" {
			msg = errText
		}
		return &BackendError{Endpoint: endpoint, Status: status, Message: msg}
	}

	if errText != "" {
		return &BackendError{Endpoint: endpoint, Status: status, Message: errText}
	}
	if message != "" && readsAsFailure(message) {
		return &BackendError{Endpoint: endpoint, Status: status, Message: message}
	}
	return nil
}

func readsAsFailure(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range negatedSuccess {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	if strings.Contains(lower, "success") {
		return false
	}
	for _, marker := range failureMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// rawString returns the trimmed value of a JSON string, or "" for anything else.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// decodeList reads the {"message": [...]} shape of list endpoints. Items that
// cannot be decoded are skipped and logged.
func decodeList[T any](c *JewaClient, endpoint string, body []byte) ([]T, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%s: empty body: %w", endpoint, ErrMalformedResponse)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", endpoint, err, ErrMalformedResponse)
	}

	raw := bytes.TrimSpace(env.Message)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	if raw[0] != '[' {
		return nil, fmt.Errorf("%s: message is not a list: %w", endpoint, ErrMalformedResponse)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", endpoint, err, ErrMalformedResponse)
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			c.log.Warn("skipping undecodable item",
				zap.String("endpoint", endpoint),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type residentPayload struct {
	ResidentID models.ID `json:"resident_id"`
}

// Login exchanges credentials for the resident's profile.
func (c *JewaClient) Login(ctx context.Context, email, password string) (*models.UserDetails, error) {
	body, err := c.post(ctx, EndpointLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		var be *BackendError
		if errors.As(err, &be) && be.Status < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, be.Message)
		}
		return nil, err
	}

	var resp struct {
		UserDetails []models.UserDetails `json:"userdetails"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", EndpointLogin, err, ErrMalformedResponse)
	}
	if len(resp.UserDetails) == 0 {
		return nil, ErrInvalidCredentials
	}
	return &resp.UserDetails[0], nil
}

// PreauthorisePayload is one element of the /preauthorisevisitor array.
type PreauthorisePayload struct {
	Phone              string    `json:"phone"`
	Name               string    `json:"name"`
	HouseID            models.ID `json:"house_id"`
	ResidentID         models.ID `json:"resident_id"`
	ModeOfEntry        string    `json:"mode_of_entry"`
	VehicleNumber      string    `json:"vehicle_number"`
	VerificationNumber string    `json:"verification_number"`
	Validity           int       `json:"validity"`
}

// PreauthoriseResult is what the service tells us about a new entry. Both
// fields are optional.
type PreauthoriseResult struct {
	ID  models.ID
	OTP models.Code
}

// PreAuthoriseVisitor registers a visitor.
func (c *JewaClient) PreAuthoriseVisitor(ctx context.Context, p PreauthorisePayload) (PreauthoriseResult, error) {
	body, err := c.post(ctx, EndpointPreauthorise, []PreauthorisePayload{p})
	if err != nil {
		return PreauthoriseResult{}, err
	}
	return parsePreauthoriseResult(body), nil
}

func parsePreauthoriseResult(body []byte) PreauthoriseResult {
	type fields struct {
		ID        models.ID   `json:"id"`
		VisitorID models.ID   `json:"visitor_id"`
		OTP       models.Code `json:"otp"`
	}
	pick := func(f fields) PreauthoriseResult {
		id := f.VisitorID
		if id == 0 {
			id = f.ID
		}
		return PreauthoriseResult{ID: id, OTP: f.OTP}
	}

	var top fields
	if err := json.Unmarshal(body, &top); err == nil && (top.ID != 0 || top.VisitorID != 0 || top.OTP != "") {
		return pick(top)
	}

	// Some deployments nest the created record under "message", alone or in a list.
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Message) == 0 {
		return PreauthoriseResult{}
	}
	var nested fields
	if err := json.Unmarshal(env.Message, &nested); err == nil {
		return pick(nested)
	}
	var list []fields
	if err := json.Unmarshal(env.Message, &list); err == nil && len(list) > 0 {
		return pick(list[0])
	}
	return PreauthoriseResult{}
}

// GetAllVisitors lists every visitor entry of a resident.
func (c *JewaClient) GetAllVisitors(ctx context.Context, residentID models.ID) ([]models.VisitorEntry, error) {
	body, err := c.post(ctx, EndpointVisitors, residentPayload{ResidentID: residentID})
	if err != nil {
		return nil, err
	}
	return decodeList[models.VisitorEntry](c, EndpointVisitors, body)
}

// RevokeOTP invalidates a visitor's code.
func (c *JewaClient) RevokeOTP(ctx context.Context, visitorID models.ID) error {
	_, err := c.post(ctx, EndpointRevokeOTP, map[string]models.ID{"visitor_id": visitorID})
	return err
}

// GetAllDeliveries lists every delivery of a resident.
func (c *JewaClient) GetAllDeliveries(ctx context.Context, residentID models.ID) ([]models.DeliveryEntry, error) {
	body, err := c.post(ctx, EndpointDeliveries, residentPayload{ResidentID: residentID})
	if err != nil {
		return nil, err
	}
	return decodeList[models.DeliveryEntry](c, EndpointDeliveries, body)
}

// DeliveryResponse is the body of /updatedeliveryrequest.
type DeliveryResponse struct {
	NotificationID models.ID `json:"notif_id"`
	Response       int       `json:"response"`
	OTP            string    `json:"otp,omitempty"`
}

// RespondToDelivery answers a delivery notification.
func (c *JewaClient) RespondToDelivery(ctx context.Context, r DeliveryResponse) error {
	_, err := c.post(ctx, EndpointDeliveryResponse, r)
	return err
}

// GetAllNotifications lists a resident's notifications.
func (c *JewaClient) GetAllNotifications(ctx context.Context, residentID models.ID) ([]models.Notification, error) {
	body, err := c.post(ctx, EndpointNotifications, residentPayload{ResidentID: residentID})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Notification](c, EndpointNotifications, body)
}

// NewAlert is the body of /addalert.
type NewAlert struct {
	HouseID       models.ID `json:"house_id"`
	ResidentID    models.ID `json:"resident_id"`
	CommunityCode string    `json:"community_code"`
	Subject       string    `json:"subject"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
}

// AddAlert raises a security alert.
func (c *JewaClient) AddAlert(ctx context.Context, a NewAlert) error {
	_, err := c.post(ctx, EndpointAddAlert, a)
	return err
}

// GetAlerts lists a resident's alerts.
func (c *JewaClient) GetAlerts(ctx context.Context, residentID models.ID) ([]models.Alert, error) {
	body, err := c.post(ctx, EndpointAlerts, residentPayload{ResidentID: residentID})
	if err != nil {
		return nil, err
	}
	return decodeList[models.Alert](c, EndpointAlerts, body)
}

// AlertUpdate is the body of /updatealert.
type AlertUpdate struct {
	AlertID     models.ID `json:"alert_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

// UpdateAlert changes an alert's text or status.
func (c *JewaClient) UpdateAlert(ctx context.Context, u AlertUpdate) error {
	_, err := c.post(ctx, EndpointUpdateAlert, u)
	return err
}
