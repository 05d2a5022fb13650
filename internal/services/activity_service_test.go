package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jewa/internal/models"
)

func TestActivity_RecordAndPage(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.Record(ctx, 42, models.ActionPreauthorise, fmt.Sprintf("visitor-%d", i), nil)
		// Keep created_at strictly increasing.
		time.Sleep(2 * time.Millisecond)
	}
	svc.Record(ctx, 42, models.ActionRevokeOTP, "11", errors.New("community service said no"))
	svc.Record(ctx, 7, models.ActionRaiseAlert, "other resident", nil)

	page, total, err := svc.List(ctx, 42, 4, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	require.Len(t, page, 4)
	assert.Equal(t, models.ActionRevokeOTP, page[0].Action)
	assert.Equal(t, models.OutcomeFailure, page[0].Outcome)
	assert.Equal(t, "community service said no", page[0].Error)
	assert.Equal(t, "visitor-4", page[1].Subject)

	rest, _, err := svc.List(ctx, 42, 4, 4)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "visitor-0", rest[1].Subject)
}

func TestActivity_RecordFailureIsSwallowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), 42, models.ActionPreauthorise, "x", nil)
	})
}
