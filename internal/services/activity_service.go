package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/jewa/internal/models"
)

// ActivityRecorder keeps a trail of the mutations made for a resident.
type ActivityRecorder interface {
	Record(ctx context.Context, residentID models.ID, action, subject string, actionErr error)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, models.ID, string, string, error) {}

// ActivityService stores activity in the local database.
type ActivityService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewActivityService(db *gorm.DB, log *zap.Logger) *ActivityService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityService{db: db, log: log}
}

// Record appends one entry. Failing to write it is logged, never returned,
// so the resident's action is not affected.
func (s *ActivityService) Record(ctx context.Context, residentID models.ID, action, subject string, actionErr error) {
	record := models.ActivityRecord{
		ResidentID: int64(residentID),
		Action:     action,
		Subject:    subject,
		Outcome:    models.OutcomeSuccess,
	}
	if actionErr != nil {
		record.Outcome = models.OutcomeFailure
		record.Error = actionErr.Error()
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		s.log.Error("failed to record activity",
			zap.String("action", action),
			zap.Int64("resident_id", int64(residentID)),
			zap.Error(err),
		)
	}
}

// List returns a page of a resident's activity, newest first, and the total count.
func (s *ActivityService) List(ctx context.Context, residentID models.ID, limit, offset int) ([]models.ActivityRecord, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.ActivityRecord{}).Where("resident_id = ?", int64(residentID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}

	var records []models.ActivityRecord
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	return records, total, nil
}
