package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/patrickmn/go-cache"

	"github.com/example/jewa/internal/models"
)

const confirmationTokenLength = 21

type pendingConfirmation struct {
	residentID models.ID
	visitorID  models.ID
}

// ConfirmationStore hands out single-use tokens that stand in for the yes/no
// prompt when revocation is driven over HTTP.
type ConfirmationStore struct {
	mu    sync.Mutex
	items *cache.Cache
	ttl   time.Duration
}

func NewConfirmationStore(ttl time.Duration) *ConfirmationStore {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &ConfirmationStore{
		items: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// TTL is how long an issued token stays valid.
func (s *ConfirmationStore) TTL() time.Duration {
	return s.ttl
}

// Issue creates a token bound to one resident and one visitor.
func (s *ConfirmationStore) Issue(residentID, visitorID models.ID) (string, error) {
	token, err := gonanoid.New(confirmationTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate confirmation token: %w", err)
	}
	s.items.Set(token, pendingConfirmation{residentID: residentID, visitorID: visitorID}, s.ttl)
	return token, nil
}

// Consume redeems token for the given resident and visitor. A token works once.
func (s *ConfirmationStore) Consume(token string, residentID, visitorID models.ID) error {
	if token == "" {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	value, found := s.items.Get(token)
	if !found {
		return fmt.Errorf("unknown or expired token: %w", ErrConfirmationRequired)
	}
	pending, ok := value.(pendingConfirmation)
	if !ok || pending.residentID != residentID || pending.visitorID != visitorID {
		return fmt.Errorf("token issued for another visitor: %w", ErrConfirmationRequired)
	}
	s.items.Delete(token)
	return nil
}

// Confirmer redeems token when asked and answers with the resident's choice.
func (s *ConfirmationStore) Confirmer(token string, residentID models.ID, answer bool) Confirmer {
	return ConfirmFunc(func(_ context.Context, visitor models.VisitorEntry) (bool, error) {
		if err := s.Consume(token, residentID, visitor.ID); err != nil {
			return false, err
		}
		return answer, nil
	})
}
