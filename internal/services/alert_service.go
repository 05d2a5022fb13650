package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/jewa/internal/models"
)

// AlertInput raises a new alert.
type AlertInput struct {
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
}

// AlertUpdateInput changes an alert. Empty text fields keep their current value.
type AlertUpdateInput struct {
	Subject     string `json:"subject" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
	Status      string `json:"status" validate:"required,oneof=Pending Closed Rejected"`
}

// normalizeAlertStatus maps any casing of a known status onto its canonical form.
func normalizeAlertStatus(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, s := range []string{models.AlertPending, models.AlertClosed, models.AlertRejected} {
		if strings.EqualFold(raw, s) {
			return s
		}
	}
	return raw
}

// AlertService raises and manages security alerts.
type AlertService struct {
	client   *JewaClient
	recorder ActivityRecorder
	validate *validator.Validate
	log      *zap.Logger
}

func NewAlertService(client *JewaClient, recorder ActivityRecorder, log *zap.Logger) *AlertService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AlertService{client: client, recorder: recorder, validate: newValidator(), log: log}
}

// Raise sends a new alert with status Pending.
func (s *AlertService) Raise(ctx context.Context, sess models.Session, in AlertInput) error {
	if !sess.Valid() {
		return ErrInvalidSession
	}
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(s.validate, in); err != nil {
		return err
	}

	err := s.client.AddAlert(ctx, NewAlert{
		HouseID:       sess.HouseID,
		ResidentID:    sess.ResidentID,
		CommunityCode: sess.CommunityCode,
		Subject:       in.Subject,
		Description:   in.Description,
		Status:        models.AlertPending,
	})
	s.recorder.Record(ctx, sess.ResidentID, models.ActionRaiseAlert, in.Subject, err)
	if err != nil {
		return err
	}
	s.log.Warn("security alert raised",
		zap.Int64("resident_id", int64(sess.ResidentID)),
		zap.Int64("house_id", int64(sess.HouseID)),
		zap.String("subject", in.Subject),
	)
	return nil
}

// List returns the resident's alerts, newest first.
func (s *AlertService) List(ctx context.Context, sess models.Session) ([]models.Alert, error) {
	if !sess.Valid() {
		return []models.Alert{}, ErrInvalidSession
	}
	alerts, err := s.client.GetAlerts(ctx, sess.ResidentID)
	if err != nil {
		return []models.Alert{}, err
	}
	sortNewestFirst(alerts, func(a models.Alert) models.Timestamp { return a.CreatedAt })
	return alerts, nil
}

// Update changes one of the resident's alerts and returns the refreshed list.
func (s *AlertService) Update(ctx context.Context, sess models.Session, alertID models.ID, in AlertUpdateInput) ([]models.Alert, error) {
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	in.Status = normalizeAlertStatus(in.Status)
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	current, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	var existing *models.Alert
	for i := range current {
		if current[i].ID == alertID {
			existing = &current[i]
			break
		}
	}
	if existing == nil {
		return nil, fmt.Errorf("alert %d: %w", alertID, ErrNotFound)
	}
	if in.Subject == "" {
		in.Subject = existing.Subject
	}
	if in.Description == "" {
		in.Description = existing.Description
	}

	err = s.client.UpdateAlert(ctx, AlertUpdate{
		AlertID:     alertID,
		Subject:     in.Subject,
		Description: in.Description,
		Status:      in.Status,
	})
	s.recorder.Record(ctx, sess.ResidentID, models.ActionUpdateAlert, alertID.String()+":"+in.Status, err)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, sess)
}
