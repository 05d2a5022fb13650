package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/jewa/internal/approval"
	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/otp"
)

// Decision is the resident's answer to a delivery at the gate.
type Decision string

const (
	DecisionApprove     Decision = "approve"
	DecisionDeny        Decision = "deny"
	DecisionLeaveAtGate Decision = "leave_at_gate"
)

// ParseDecision accepts approve, deny and leave_at_gate (or leave-at-gate).
func ParseDecision(raw string) (Decision, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	switch Decision(key) {
	case DecisionApprove, DecisionDeny, DecisionLeaveAtGate:
		return Decision(key), nil
	}
	return "", ValidationErrors{{Field: "decision", Message: "must be one of approve, deny, leave_at_gate"}}
}

func (d Decision) event() approval.Event {
	switch d {
	case DecisionApprove:
		return approval.Approve
	case DecisionDeny:
		return approval.Deny
	default:
		return approval.LeaveAtGate
	}
}

// responseCode is the numeric answer /updatedeliveryrequest expects.
func (d Decision) responseCode() int {
	switch d {
	case DecisionLeaveAtGate:
		return 1
	case DecisionApprove:
		return 2
	default:
		return 3
	}
}

// DecisionResult reports a delivery decision and the refreshed board.
type DecisionResult struct {
	NotificationID models.ID     `json:"notification_id"`
	Decision       Decision      `json:"decision"`
	PickupOTP      string        `json:"pickup_otp,omitempty"`
	Deliveries     DeliveryBoard `json:"deliveries"`
	RefreshErr     error         `json:"-"`
}

// DeliveryService answers delivery notifications.
type DeliveryService struct {
	client        *JewaClient
	presenter     *Presenter
	notifications *NotificationService
	codes         *otp.Generator
	recorder      ActivityRecorder
	log           *zap.Logger
}

func NewDeliveryService(client *JewaClient, presenter *Presenter, notifications *NotificationService, codes *otp.Generator, recorder ActivityRecorder, log *zap.Logger) *DeliveryService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DeliveryService{
		client:        client,
		presenter:     presenter,
		notifications: notifications,
		codes:         codes,
		recorder:      recorder,
		log:           log,
	}
}

// Decide sends the resident's decision for the delivery behind notifID.
// Notifications already answered and transitions the delivery cannot take
// are refused before anything is sent. Leaving at the gate issues a pickup code.
func (s *DeliveryService) Decide(ctx context.Context, sess models.Session, notifID models.ID, decision Decision) (*DecisionResult, error) {
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}
	if notifID <= 0 {
		return nil, ValidationErrors{{Field: "notif_id", Message: "is required"}}
	}
	if _, err := ParseDecision(string(decision)); err != nil {
		return nil, err
	}

	if err := s.precheck(ctx, sess, notifID, decision); err != nil {
		return nil, err
	}

	req := DeliveryResponse{NotificationID: notifID, Response: decision.responseCode()}
	if decision == DecisionLeaveAtGate {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate pickup code: %w", err)
		}
		req.OTP = code
	}

	err := s.client.RespondToDelivery(ctx, req)
	s.recorder.Record(ctx, sess.ResidentID, models.ActionDeliveryDecision, notifID.String()+":"+string(decision), err)
	if err != nil {
		return nil, err
	}

	s.log.Info("delivery decision sent",
		zap.Int64("resident_id", int64(sess.ResidentID)),
		zap.Int64("notification_id", int64(notifID)),
		zap.String("decision", string(decision)),
	)

	result := &DecisionResult{NotificationID: notifID, Decision: decision, PickupOTP: req.OTP}
	result.Deliveries, result.RefreshErr = s.presenter.Deliveries(ctx, sess)
	if result.RefreshErr != nil {
		s.log.Warn("delivery list refresh failed", zap.Error(result.RefreshErr))
	}
	return result, nil
}

// precheck refuses decisions that the current data already rules out. When
// the lists cannot be fetched the community service has the final say.
func (s *DeliveryService) precheck(ctx context.Context, sess models.Session, notifID models.ID, decision Decision) error {
	notifications, err := s.notifications.List(ctx, sess)
	if err != nil {
		s.log.Debug("skipping notification precheck", zap.Error(err))
	} else {
		for _, n := range notifications {
			if n.ID == notifID && n.Responded() {
				return fmt.Errorf("notification %d: %w", notifID, ErrAlreadyResponded)
			}
		}
	}

	deliveries, err := s.client.GetAllDeliveries(ctx, sess.ResidentID)
	if err != nil {
		s.log.Debug("skipping delivery precheck", zap.Error(err))
		return nil
	}
	for _, d := range deliveries {
		if d.NotificationID != notifID {
			continue
		}
		if _, err := approval.Transition(approval.Delivery, d.Status, decision.event()); err != nil {
			if errors.Is(err, approval.ErrInvalidTransition) && d.Status == approval.Unknown {
				// Statuses we cannot read are left to the community service.
				return nil
			}
			return err
		}
		return nil
	}
	return nil
}
