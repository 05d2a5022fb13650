package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/example/jewa/internal/models"
)

// BucketCounts is the size of each bucket of a board.
type BucketCounts struct {
	Pending  int `json:"pending"`
	Active   int `json:"active"`
	Resolved int `json:"resolved"`
}

func countBoard[T any](b Board[T]) BucketCounts {
	return BucketCounts{Pending: len(b.Pending), Active: len(b.Active), Resolved: len(b.Resolved)}
}

// Summary is the home screen overview.
type Summary struct {
	Visitors             BucketCounts `json:"visitors"`
	Deliveries           BucketCounts `json:"deliveries"`
	PendingNotifications int          `json:"pending_notifications"`
}

// SummaryService fetches the boards and notifications in parallel.
type SummaryService struct {
	presenter     *Presenter
	notifications *NotificationService
}

func NewSummaryService(presenter *Presenter, notifications *NotificationService) *SummaryService {
	return &SummaryService{presenter: presenter, notifications: notifications}
}

// Summary fails as a whole if any of the three fetches fails.
func (s *SummaryService) Summary(ctx context.Context, sess models.Session) (*Summary, error) {
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}

	var (
		visitors      VisitorBoard
		deliveries    DeliveryBoard
		notifications []models.Notification
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		visitors, err = s.presenter.Visitors(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		deliveries, err = s.presenter.Deliveries(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		notifications, err = s.notifications.List(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		Visitors:             countBoard(visitors),
		Deliveries:           countBoard(deliveries),
		PendingNotifications: CountPending(notifications),
	}, nil
}
