package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/jewa/internal/approval"
	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/otp"
	"github.com/example/jewa/internal/utils"
)

// HelpInput registers a domestic help.
type HelpInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Role  string `json:"role" validate:"required,max=50"`
	Phone string `json:"phone" validate:"required,min=7,max=20"`
}

// HelpPasscode is returned when a passcode is issued. The plaintext is never
// stored and is shown only this once.
type HelpPasscode struct {
	Help     models.DomesticHelp `json:"help"`
	Passcode string              `json:"passcode"`
}

// HelpService manages a resident's domestic help and their gate passcodes.
type HelpService struct {
	db       *gorm.DB
	codes    *otp.Generator
	recorder ActivityRecorder
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

func NewHelpService(db *gorm.DB, codes *otp.Generator, recorder ActivityRecorder, log *zap.Logger) *HelpService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HelpService{
		db:       db,
		codes:    codes,
		recorder: recorder,
		validate: newValidator(),
		log:      log,
		now:      time.Now,
	}
}

// Register stores a new help and issues their first passcode.
func (s *HelpService) Register(ctx context.Context, sess models.Session, in HelpInput) (*HelpPasscode, error) {
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	passcode, hash, err := s.newPasscode()
	if err != nil {
		return nil, err
	}

	help := models.DomesticHelp{
		ResidentID:   int64(sess.ResidentID),
		HouseID:      int64(sess.HouseID),
		Name:         in.Name,
		Role:         in.Role,
		Phone:        in.Phone,
		PasscodeHash: hash,
		Presence:     models.PresenceOut,
	}
	err = s.db.WithContext(ctx).Create(&help).Error
	s.recorder.Record(ctx, sess.ResidentID, models.ActionHelpRegister, in.Name, err)
	if err != nil {
		return nil, fmt.Errorf("create domestic help: %w", err)
	}
	return &HelpPasscode{Help: help, Passcode: passcode}, nil
}

// List returns the resident's helps, newest first.
func (s *HelpService) List(ctx context.Context, sess models.Session) ([]models.DomesticHelp, error) {
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}
	var helps []models.DomesticHelp
	if err := s.db.WithContext(ctx).
		Where("resident_id = ?", int64(sess.ResidentID)).
		Order("created_at DESC").
		Find(&helps).Error; err != nil {
		return nil, fmt.Errorf("list domestic help: %w", err)
	}
	return helps, nil
}

// CheckIn verifies the passcode at the gate and marks the help as in.
func (s *HelpService) CheckIn(ctx context.Context, sess models.Session, id uuid.UUID, passcode string) (*models.DomesticHelp, error) {
	help, err := s.find(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasscode(help.PasscodeHash, strings.TrimSpace(passcode)) {
		s.recorder.Record(ctx, sess.ResidentID, models.ActionHelpCheckIn, id.String(), ErrInvalidPasscode)
		return nil, ErrInvalidPasscode
	}
	if help.Presence == models.PresenceIn {
		return nil, fmt.Errorf("%s is already in: %w", help.Name, approval.ErrInvalidTransition)
	}

	now := s.now()
	help.Presence = models.PresenceIn
	help.LastEntry = &now
	err = s.db.WithContext(ctx).Save(help).Error
	s.recorder.Record(ctx, sess.ResidentID, models.ActionHelpCheckIn, id.String(), err)
	if err != nil {
		return nil, fmt.Errorf("check in domestic help: %w", err)
	}
	return help, nil
}

// CheckOut marks the help as out. Checking out someone who is not in fails.
func (s *HelpService) CheckOut(ctx context.Context, sess models.Session, id uuid.UUID) (*models.DomesticHelp, error) {
	help, err := s.find(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if help.Presence != models.PresenceIn {
		return nil, fmt.Errorf("%s is not in: %w", help.Name, approval.ErrInvalidTransition)
	}

	now := s.now()
	help.Presence = models.PresenceOut
	help.LastExit = &now
	err = s.db.WithContext(ctx).Save(help).Error
	s.recorder.Record(ctx, sess.ResidentID, models.ActionHelpCheckOut, id.String(), err)
	if err != nil {
		return nil, fmt.Errorf("check out domestic help: %w", err)
	}
	return help, nil
}

// ReissuePasscode replaces the help's passcode. The old one stops working.
func (s *HelpService) ReissuePasscode(ctx context.Context, sess models.Session, id uuid.UUID) (*HelpPasscode, error) {
	help, err := s.find(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	passcode, hash, err := s.newPasscode()
	if err != nil {
		return nil, err
	}
	help.PasscodeHash = hash
	err = s.db.WithContext(ctx).Model(help).Update("passcode_hash", hash).Error
	s.recorder.Record(ctx, sess.ResidentID, models.ActionHelpPasscode, id.String(), err)
	if err != nil {
		return nil, fmt.Errorf("update passcode: %w", err)
	}
	return &HelpPasscode{Help: *help, Passcode: passcode}, nil
}

func (s *HelpService) find(ctx context.Context, sess models.Session, id uuid.UUID) (*models.DomesticHelp, error) {
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}
	var help models.DomesticHelp
	err := s.db.WithContext(ctx).
		Where("id = ? AND resident_id = ?", id, int64(sess.ResidentID)).
		First(&help).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("domestic help %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load domestic help: %w", err)
	}
	return &help, nil
}

func (s *HelpService) newPasscode() (string, string, error) {
	passcode, err := s.codes.Generate()
	if err != nil {
		return "", "", fmt.Errorf("generate passcode: %w", err)
	}
	hash, err := utils.HashPasscode(passcode)
	if err != nil {
		return "", "", fmt.Errorf("hash passcode: %w", err)
	}
	return passcode, hash, nil
}
