package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/jewa/internal/models"
)

type sessionClaims struct {
	HouseID       int64  `json:"house_id"`
	CommunityCode string `json:"community_code"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the resident.
func GenerateToken(secret string, sess models.Session, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	claims := &sessionClaims{
		HouseID:       int64(sess.HouseID),
		CommunityCode: sess.CommunityCode,
		Name:          sess.Name,
		Email:         sess.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.ResidentID.String(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// ParseToken validates the token and returns the session it carries.
func ParseToken(secret, tokenString string) (models.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Session{}, err
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return models.Session{}, jwt.ErrTokenInvalidClaims
	}

	residentID, err := models.ParseID(claims.Subject)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", jwt.ErrTokenInvalidClaims, err)
	}

	return models.Session{
		ResidentID:    residentID,
		HouseID:       models.ID(claims.HouseID),
		CommunityCode: claims.CommunityCode,
		Name:          claims.Name,
		Email:         claims.Email,
	}, nil
}
