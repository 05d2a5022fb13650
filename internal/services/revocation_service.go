package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/jewa/internal/approval"
	"github.com/example/jewa/internal/models"
)

// Confirmer asks the resident to confirm revoking a visitor's code.
type Confirmer interface {
	Confirm(ctx context.Context, visitor models.VisitorEntry) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, visitor models.VisitorEntry) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, visitor models.VisitorEntry) (bool, error) {
	return f(ctx, visitor)
}

// AlwaysConfirm answers yes without asking.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, models.VisitorEntry) (bool, error) {
	return true, nil
})

// RevocationResult describes the outcome of a revocation.
type RevocationResult struct {
	Visitor models.VisitorEntry `json:"visitor"`
	// Changed is false when the code was already invalid.
	Changed    bool         `json:"changed"`
	Visitors   VisitorBoard `json:"visitors"`
	RefreshErr error        `json:"-"`
}

// RevocationService invalidates visitor codes after explicit confirmation.
type RevocationService struct {
	client    *JewaClient
	presenter *Presenter
	recorder  ActivityRecorder
	log       *zap.Logger
}

func NewRevocationService(client *JewaClient, presenter *Presenter, recorder ActivityRecorder, log *zap.Logger) *RevocationService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RevocationService{client: client, presenter: presenter, recorder: recorder, log: log}
}

// Lookup finds a visitor in a fresh fetch of the resident's entries.
func (s *RevocationService) Lookup(ctx context.Context, sess models.Session, visitorID models.ID) (models.VisitorEntry, error) {
	if !sess.Valid() {
		return models.VisitorEntry{}, ErrInvalidSession
	}
	entries, err := s.client.GetAllVisitors(ctx, sess.ResidentID)
	if err != nil {
		return models.VisitorEntry{}, err
	}
	for _, v := range entries {
		if v.ID == visitorID {
			return v, nil
		}
	}
	return models.VisitorEntry{}, fmt.Errorf("visitor %d: %w", visitorID, ErrNotFound)
}

// Prepare looks the visitor up and reports whether revoking would change
// anything. It fails with ErrInvalidTransition for resolved entries.
func (s *RevocationService) Prepare(ctx context.Context, sess models.Session, visitorID models.ID) (models.VisitorEntry, bool, error) {
	visitor, err := s.Lookup(ctx, sess, visitorID)
	if err != nil {
		return models.VisitorEntry{}, false, err
	}
	_, changes, err := approval.RevokeOTP(visitor.Status, visitor.OTPStatus)
	if err != nil {
		return visitor, false, err
	}
	return visitor, changes, nil
}

// Revoke looks the visitor up, then revokes as RevokeEntry does.
func (s *RevocationService) Revoke(ctx context.Context, sess models.Session, visitorID models.ID, confirmer Confirmer) (*RevocationResult, error) {
	visitor, err := s.Lookup(ctx, sess, visitorID)
	if err != nil {
		return nil, err
	}
	return s.RevokeEntry(ctx, sess, visitor, confirmer)
}

// RevokeEntry asks confirmer and, on yes, invalidates the visitor's code and
// re-fetches the board. A code that is already invalid is left alone without
// asking. Nothing about the entry changes locally when the call fails.
func (s *RevocationService) RevokeEntry(ctx context.Context, sess models.Session, visitor models.VisitorEntry, confirmer Confirmer) (*RevocationResult, error) {
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}

	next, changes, err := approval.RevokeOTP(visitor.Status, visitor.OTPStatus)
	if err != nil {
		return nil, err
	}
	if !changes {
		return &RevocationResult{Visitor: visitor, Changed: false, Visitors: newBoard[models.VisitorEntry]()}, nil
	}

	ok, err := confirmer.Confirm(ctx, visitor)
	if err != nil {
		return nil, fmt.Errorf("confirm revocation: %w", err)
	}
	if !ok {
		return nil, ErrConfirmationDeclined
	}

	err = s.client.RevokeOTP(ctx, visitor.ID)
	s.recorder.Record(ctx, sess.ResidentID, models.ActionRevokeOTP, visitor.ID.String(), err)
	if err != nil {
		return nil, err
	}

	s.log.Info("visitor otp revoked",
		zap.Int64("resident_id", int64(sess.ResidentID)),
		zap.Int64("visitor_id", int64(visitor.ID)),
	)

	result := &RevocationResult{Changed: true}
	result.Visitors, result.RefreshErr = s.presenter.Visitors(ctx, sess)
	if result.RefreshErr != nil {
		s.log.Warn("visitor list refresh failed", zap.Error(result.RefreshErr))
	}

	result.Visitor = visitor
	result.Visitor.OTPStatus = next
	if fresh, found := findVisitor(result.Visitors, visitor.ID); found {
		result.Visitor = fresh
	}
	return result, nil
}

func findVisitor(board VisitorBoard, id models.ID) (models.VisitorEntry, bool) {
	for _, bucket := range [][]models.VisitorEntry{board.Pending, board.Active, board.Resolved} {
		for _, v := range bucket {
			if v.ID == id {
				return v, true
			}
		}
	}
	return models.VisitorEntry{}, false
}
