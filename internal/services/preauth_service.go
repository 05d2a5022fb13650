package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/jewa/internal/models"
)

// PreAuthorization is what a resident fills in to let a visitor through the gate.
type PreAuthorization struct {
	Phone              string `json:"phone" validate:"required,min=7,max=20"`
	Name               string `json:"name" validate:"required,max=100"`
	ModeOfEntry        string `json:"mode_of_entry" validate:"required,oneof=walk vehicle motorcycle"`
	VehicleNumber      string `json:"vehicle_number" validate:"max=20"`
	ValidityDays       int    `json:"validity" validate:"gt=0,lte=365"`
	VerificationNumber string `json:"verification_number" validate:"max=50"`
}

func (p PreAuthorization) normalized() PreAuthorization {
	p.Phone = strings.TrimSpace(p.Phone)
	p.Name = strings.TrimSpace(p.Name)
	p.ModeOfEntry = strings.ToLower(strings.TrimSpace(p.ModeOfEntry))
	p.VehicleNumber = strings.TrimSpace(p.VehicleNumber)
	p.VerificationNumber = strings.TrimSpace(p.VerificationNumber)
	return p
}

func vehicleNumberRule(sl validator.StructLevel) {
	req := sl.Current().Interface().(PreAuthorization)
	if req.ModeOfEntry == string(models.ModeVehicle) && req.VehicleNumber == "" {
		sl.ReportError(req.VehicleNumber, "vehicle_number", "VehicleNumber", "required_for_vehicle", "")
	}
}

// Submission confirms a pre-authorisation and carries the refreshed board.
type Submission struct {
	VisitorID models.ID    `json:"visitor_id,omitempty"`
	OTP       models.Code  `json:"otp,omitempty"`
	Visitors  VisitorBoard `json:"visitors"`
	// RefreshErr is set when the visitor was registered but the list could
	// not be fetched afterwards.
	RefreshErr error `json:"-"`
}

// PreauthService validates pre-authorisations and submits them upstream.
type PreauthService struct {
	client    *JewaClient
	presenter *Presenter
	recorder  ActivityRecorder
	validate  *validator.Validate
	log       *zap.Logger
}

func NewPreauthService(client *JewaClient, presenter *Presenter, recorder ActivityRecorder, requireVehicleNumber bool, log *zap.Logger) *PreauthService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	v := newValidator()
	if requireVehicleNumber {
		v.RegisterStructValidation(vehicleNumberRule, PreAuthorization{})
	}

	return &PreauthService{
		client:    client,
		presenter: presenter,
		recorder:  recorder,
		validate:  v,
		log:       log,
	}
}

// Validate checks req without contacting the community service. Every failing
// field is reported.
func (s *PreauthService) Validate(req PreAuthorization) error {
	return validateStruct(s.validate, req.normalized())
}

// Submit validates req, registers the visitor for the session's resident and
// re-fetches the visitor board.
func (s *PreauthService) Submit(ctx context.Context, sess models.Session, req PreAuthorization) (*Submission, error) {
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}

	req = req.normalized()
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	result, err := s.client.PreAuthoriseVisitor(ctx, PreauthorisePayload{
		Phone:              req.Phone,
		Name:               req.Name,
		HouseID:            sess.HouseID,
		ResidentID:         sess.ResidentID,
		ModeOfEntry:        req.ModeOfEntry,
		VehicleNumber:      req.VehicleNumber,
		VerificationNumber: req.VerificationNumber,
		Validity:           req.ValidityDays,
	})
	s.recorder.Record(ctx, sess.ResidentID, models.ActionPreauthorise, req.Name, err)
	if err != nil {
		return nil, err
	}

	s.log.Info("visitor pre-authorised",
		zap.Int64("resident_id", int64(sess.ResidentID)),
		zap.Int64("visitor_id", int64(result.ID)),
	)

	sub := &Submission{VisitorID: result.ID, OTP: result.OTP}
	sub.Visitors, sub.RefreshErr = s.presenter.Visitors(ctx, sess)
	if sub.RefreshErr != nil {
		s.log.Warn("visitor list refresh failed", zap.Error(sub.RefreshErr))
	}
	return sub, nil
}
