package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jewa/internal/approval"
	"github.com/example/jewa/internal/models"
	"github.com/example/jewa/internal/otp"
)

func newTestHelp(t *testing.T) (*HelpService, *ActivityService) {
	t.Helper()
	db := newTestDB(t)
	codes, err := otp.NewGenerator(otp.DefaultLength)
	require.NoError(t, err)

	activity := NewActivityService(db, nil)
	svc := NewHelpService(db, codes, activity, nil)

	clock := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	return svc, activity
}

func registerCook(t *testing.T, svc *HelpService) *HelpPasscode {
	t.Helper()
	issued, err := svc.Register(context.Background(), testSession, HelpInput{
		Name:  "Mama Tunde",
		Role:  "cook",
		Phone: "08055550000",
	})
	require.NoError(t, err)
	return issued
}

func TestHelpRegister(t *testing.T) {
	svc, _ := newTestHelp(t)

	issued := registerCook(t, svc)
	assert.Len(t, issued.Passcode, otp.DefaultLength)
	assert.NotEqual(t, issued.Passcode, issued.Help.PasscodeHash)
	assert.Equal(t, models.PresenceOut, issued.Help.Presence)
	assert.Equal(t, int64(42), issued.Help.ResidentID)

	helps, err := svc.List(context.Background(), testSession)
	require.NoError(t, err)
	require.Len(t, helps, 1)
	assert.Equal(t, "Mama Tunde", helps[0].Name)

	_, err = svc.Register(context.Background(), testSession, HelpInput{Name: "No Phone", Role: "driver"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("phone"))
}

func TestHelpCheckInOut(t *testing.T) {
	svc, _ := newTestHelp(t)
	issued := registerCook(t, svc)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, testSession, issued.Help.ID, "000000")
	assert.ErrorIs(t, err, ErrInvalidPasscode)

	_, err = svc.CheckOut(ctx, testSession, issued.Help.ID)
	assert.ErrorIs(t, err, approval.ErrInvalidTransition)

	in, err := svc.CheckIn(ctx, testSession, issued.Help.ID, issued.Passcode)
	require.NoError(t, err)
	assert.Equal(t, models.PresenceIn, in.Presence)
	require.NotNil(t, in.LastEntry)

	_, err = svc.CheckIn(ctx, testSession, issued.Help.ID, issued.Passcode)
	assert.ErrorIs(t, err, approval.ErrInvalidTransition)

	out, err := svc.CheckOut(ctx, testSession, issued.Help.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PresenceOut, out.Presence)
	require.NotNil(t, out.LastExit)
	assert.False(t, out.LastEntry.After(*out.LastExit))

	_, err = svc.CheckOut(ctx, testSession, issued.Help.ID)
	assert.ErrorIs(t, err, approval.ErrInvalidTransition)
}

func TestHelpReissuePasscode(t *testing.T) {
	svc, _ := newTestHelp(t)
	issued := registerCook(t, svc)
	ctx := context.Background()

	reissued, err := svc.ReissuePasscode(ctx, testSession, issued.Help.ID)
	require.NoError(t, err)
	if reissued.Passcode == issued.Passcode {
		t.Skip("random passcode repeated")
	}

	_, err = svc.CheckIn(ctx, testSession, issued.Help.ID, issued.Passcode)
	assert.ErrorIs(t, err, ErrInvalidPasscode)

	_, err = svc.CheckIn(ctx, testSession, issued.Help.ID, reissued.Passcode)
	assert.NoError(t, err)
}

func TestHelp_ScopedToResident(t *testing.T) {
	svc, _ := newTestHelp(t)
	issued := registerCook(t, svc)
	other := models.Session{ResidentID: 99, HouseID: 3}

	_, err := svc.CheckOut(context.Background(), other, issued.Help.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ReissuePasscode(context.Background(), testSession, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	helps, err := svc.List(context.Background(), other)
	require.NoError(t, err)
	assert.Empty(t, helps)
}

func TestHelp_RecordsActivity(t *testing.T) {
	svc, activity := newTestHelp(t)
	issued := registerCook(t, svc)
	ctx := context.Background()

	_, _ = svc.CheckIn(ctx, testSession, issued.Help.ID, "wrong")
	_, err := svc.CheckIn(ctx, testSession, issued.Help.ID, issued.Passcode)
	require.NoError(t, err)

	records, total, err := activity.List(ctx, testSession.ResidentID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	outcomes := map[string]int{}
	for _, r := range records {
		outcomes[r.Action+":"+r.Outcome]++
	}
	assert.Equal(t, map[string]int{
		models.ActionHelpRegister + ":" + models.OutcomeSuccess: 1,
		models.ActionHelpCheckIn + ":" + models.OutcomeFailure:  1,
		models.ActionHelpCheckIn + ":" + models.OutcomeSuccess:  1,
	}, outcomes)
}
