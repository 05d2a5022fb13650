package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/example/jewa/internal/approval"
	"github.com/example/jewa/internal/models"
)

// Bucket is the section of a board an entry is shown in.
type Bucket string

const (
	BucketPending  Bucket = "pending"
	BucketActive   Bucket = "active"
	BucketResolved Bucket = "resolved"
)

// Board holds entries partitioned into buckets, each newest first.
type Board[T any] struct {
	Pending  []T `json:"pending"`
	Active   []T `json:"active"`
	Resolved []T `json:"resolved"`
}

type (
	VisitorBoard  = Board[models.VisitorEntry]
	DeliveryBoard = Board[models.DeliveryEntry]
)

func newBoard[T any]() Board[T] {
	return Board[T]{Pending: []T{}, Active: []T{}, Resolved: []T{}}
}

// Len returns the number of entries across all buckets.
func (b Board[T]) Len() int {
	return len(b.Pending) + len(b.Active) + len(b.Resolved)
}

// ClassifyVisitor picks the bucket of a visitor entry. Unknown statuses stay pending.
func ClassifyVisitor(v models.VisitorEntry) Bucket {
	if v.OTPStatus == approval.OTPInvalid {
		return BucketResolved
	}
	switch v.Status {
	case approval.Denied, approval.Picked:
		return BucketResolved
	case approval.Approved:
		if !v.TimeOut.IsZero() {
			return BucketResolved
		}
		return BucketActive
	default:
		return BucketPending
	}
}

// ClassifyDelivery picks the bucket of a delivery. A parcel left at the gate
// is active until it is picked up.
func ClassifyDelivery(d models.DeliveryEntry) Bucket {
	if d.OTPStatus == approval.OTPInvalid {
		return BucketResolved
	}
	switch d.Status {
	case approval.Approved, approval.Denied, approval.Picked:
		return BucketResolved
	case approval.LeftAtGate:
		return BucketActive
	default:
		return BucketPending
	}
}

// Partition places every item in exactly one bucket and sorts each bucket by
// creation time, newest first. Items without a timestamp go last and keep
// their relative order.
func Partition[T any](items []T, classify func(T) Bucket, createdAt func(T) models.Timestamp) Board[T] {
	board := newBoard[T]()
	for _, item := range items {
		switch classify(item) {
		case BucketActive:
			board.Active = append(board.Active, item)
		case BucketResolved:
			board.Resolved = append(board.Resolved, item)
		default:
			board.Pending = append(board.Pending, item)
		}
	}
	sortNewestFirst(board.Pending, createdAt)
	sortNewestFirst(board.Active, createdAt)
	sortNewestFirst(board.Resolved, createdAt)
	return board
}

func sortNewestFirst[T any](items []T, createdAt func(T) models.Timestamp) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := createdAt(items[i]), createdAt(items[j])
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		default:
			return a.After(b.Time)
		}
	})
}

// Presenter fetches a resident's entries and arranges them into boards.
// Nothing is cached; every call goes upstream.
type Presenter struct {
	client *JewaClient
	log    *zap.Logger
}

func NewPresenter(client *JewaClient, log *zap.Logger) *Presenter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Presenter{client: client, log: log}
}

// Visitors returns the visitor board. On failure the board is empty and the
// error says why; ErrMalformedResponse is recoverable.
func (p *Presenter) Visitors(ctx context.Context, sess models.Session) (VisitorBoard, error) {
	if !sess.Valid() {
		return newBoard[models.VisitorEntry](), ErrInvalidSession
	}
	entries, err := p.client.GetAllVisitors(ctx, sess.ResidentID)
	if err != nil {
		return newBoard[models.VisitorEntry](), err
	}
	for _, v := range entries {
		if !v.TimesOrdered() {
			p.log.Warn("visitor checked out before checking in",
				zap.Int64("visitor_id", int64(v.ID)),
				zap.Time("time_in", v.TimeIn.Time),
				zap.Time("time_out", v.TimeOut.Time),
			)
		}
	}
	return Partition(entries, ClassifyVisitor, func(v models.VisitorEntry) models.Timestamp { return v.CreatedAt }), nil
}

// Deliveries returns the delivery board.
func (p *Presenter) Deliveries(ctx context.Context, sess models.Session) (DeliveryBoard, error) {
	if !sess.Valid() {
		return newBoard[models.DeliveryEntry](), ErrInvalidSession
	}
	entries, err := p.client.GetAllDeliveries(ctx, sess.ResidentID)
	if err != nil {
		return newBoard[models.DeliveryEntry](), err
	}
	for _, d := range entries {
		if !d.TimesOrdered() {
			p.log.Warn("delivery checked out before checking in",
				zap.Int64("delivery_id", int64(d.ID)),
				zap.Time("time_in", d.TimeIn.Time),
				zap.Time("time_out", d.TimeOut.Time),
			)
		}
	}
	return Partition(entries, ClassifyDelivery, func(d models.DeliveryEntry) models.Timestamp { return d.CreatedAt }), nil
}
