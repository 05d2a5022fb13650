package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/utils"
)

// Credentials are what a resident signs in with.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the signed session token.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Session   models.Session `json:"session"`
}

// AuthService signs residents in through the community service. Nothing is
// stored; the session lives in the token.
type AuthService struct {
	client   *JewaClient
	secret   string
	ttl      time.Duration
	validate *validator.Validate
	log      *zap.Logger
}

func NewAuthService(client *JewaClient, secret string, ttl time.Duration, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{client: client, secret: secret, ttl: ttl, validate: newValidator(), log: log}
}

func (s *AuthService) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validateStruct(s.validate, creds); err != nil {
		return nil, err
	}

	user, err := s.client.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}
	if user.AwaitingApproval() {
		return nil, ErrPendingApproval
	}

	sess := user.Session()
	if !sess.Valid() {
		return nil, fmt.Errorf("login response without user id: %w", ErrMalformedResponse)
	}

	token, expires, err := utils.GenerateToken(s.secret, sess, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.log.Info("resident signed in", zap.Int64("resident_id", int64(sess.ResidentID)))
	return &LoginResult{Token: token, ExpiresAt: expires, Session: sess}, nil
}
