package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jewa/internal/approval"
	"github.com/example/jewa/internal/models"
)

func ts(s string) models.Timestamp {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return models.NewTimestamp(t)
}

func TestClassifyVisitor(t *testing.T) {
	out := ts("2024-05-01T12:00:00Z")
	tests := []struct {
		name  string
		entry models.VisitorEntry
		want  Bucket
	}{
		{"pending", models.VisitorEntry{Status: approval.Pending}, BucketPending},
		{"unknown status", models.VisitorEntry{Status: approval.Unknown}, BucketPending},
		{"approved on site", models.VisitorEntry{Status: approval.Approved}, BucketActive},
		{"approved and left", models.VisitorEntry{Status: approval.Approved, TimeOut: out}, BucketResolved},
		{"denied", models.VisitorEntry{Status: approval.Denied}, BucketResolved},
		{"revoked while pending", models.VisitorEntry{Status: approval.Pending, OTPStatus: approval.OTPInvalid}, BucketResolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyVisitor(tt.entry))
		})
	}
}

func TestClassifyDelivery(t *testing.T) {
	tests := []struct {
		name  string
		entry models.DeliveryEntry
		want  Bucket
	}{
		{"incoming", models.DeliveryEntry{Status: approval.Pending}, BucketPending},
		{"left at gate", models.DeliveryEntry{Status: approval.LeftAtGate}, BucketActive},
		{"received", models.DeliveryEntry{Status: approval.Approved}, BucketResolved},
		{"denied", models.DeliveryEntry{Status: approval.Denied}, BucketResolved},
		{"picked", models.DeliveryEntry{Status: approval.Picked}, BucketResolved},
		{"left but revoked", models.DeliveryEntry{Status: approval.LeftAtGate, OTPStatus: approval.OTPInvalid}, BucketResolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDelivery(tt.entry))
		})
	}
}

func TestPartition_TotalAndDisjoint(t *testing.T) {
	states := []approval.State{approval.Unknown, approval.Pending, approval.Approved, approval.Denied, approval.LeftAtGate, approval.Picked}
	otps := []approval.OTPStatus{approval.OTPActive, approval.OTPInvalid}
	outs := []models.Timestamp{{}, ts("2024-01-01T00:00:00Z")}

	var entries []models.VisitorEntry
	id := models.ID(1)
	for _, s := range states {
		for _, o := range otps {
			for _, out := range outs {
				entries = append(entries, models.VisitorEntry{ID: id, Status: s, OTPStatus: o, TimeOut: out})
				id++
			}
		}
	}

	board := Partition(entries, ClassifyVisitor, func(v models.VisitorEntry) models.Timestamp { return v.CreatedAt })
	require.Equal(t, len(entries), board.Len())

	seen := map[models.ID]int{}
	for _, bucket := range [][]models.VisitorEntry{board.Pending, board.Active, board.Resolved} {
		for _, v := range bucket {
			seen[v.ID]++
		}
	}
	assert.Len(t, seen, len(entries))
	for id, n := range seen {
		assert.Equal(t, 1, n, "entry %d appears %d times", id, n)
	}
}

func TestPartition_SortNewestFirstStable(t *testing.T) {
	entries := []models.VisitorEntry{
		{ID: 1, CreatedAt: ts("2024-05-01T09:00:00Z")},
		{ID: 2},
		{ID: 3, CreatedAt: ts("2024-05-03T09:00:00Z")},
		{ID: 4, CreatedAt: ts("2024-05-01T09:00:00Z")},
		{ID: 5},
		{ID: 6, CreatedAt: ts("2024-05-02T09:00:00Z")},
	}

	board := Partition(entries, ClassifyVisitor, func(v models.VisitorEntry) models.Timestamp { return v.CreatedAt })

	var got []models.ID
	for _, v := range board.Pending {
		got = append(got, v.ID)
	}
	// Equal timestamps keep input order; missing timestamps go last.
	assert.Equal(t, []models.ID{3, 6, 1, 4, 2, 5}, got)
}

func TestPresenter_Visitors(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+EndpointVisitors,
		httpmock.NewStringResponder(200, listBody(visitorsFixture)))

	board, err := NewPresenter(client, nil).Visitors(context.Background(), testSession)
	require.NoError(t, err)

	ids := func(entries []models.VisitorEntry) []models.ID {
		out := []models.ID{}
		for _, v := range entries {
			out = append(out, v.ID)
		}
		return out
	}
	assert.Equal(t, []models.ID{11, 15}, ids(board.Pending))
	assert.Equal(t, []models.ID{12}, ids(board.Active))
	assert.Equal(t, []models.ID{13, 14}, ids(board.Resolved))
	assert.Equal(t, 1, calls(transport, EndpointVisitors))
}

func TestPresenter_NonStringOTPStatusKeepsEntries(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+EndpointVisitors,
		httpmock.NewStringResponder(200, listBody(`[
			{"id":21,"name":"Femi","otp":"111111","otp_status":0,"prebooked_status":"Pending","created_at":"2024-05-03 09:00:00"},
			{"id":22,"name":"Gbenga","otp":"222222","otp_status":true,"prebooked_status":"Pending","created_at":"2024-05-02 09:00:00"},
			{"id":23,"name":"Halima","otp":"333333","otp_status":"Active","prebooked_status":"Pending","created_at":"2024-05-01 09:00:00"}
		]`)))

	board, err := NewPresenter(client, nil).Visitors(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, 3, board.Len())
	require.Len(t, board.Pending, 2)
	assert.Equal(t, models.ID(21), board.Pending[0].ID)
	require.Len(t, board.Resolved, 1)
	assert.Equal(t, models.ID(22), board.Resolved[0].ID)
}

func TestPresenter_MalformedYieldsEmptyBoard(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+EndpointDeliveries,
		httpmock.NewStringResponder(200, `{"message":"No deliveries"}`))

	board, err := NewPresenter(client, nil).Deliveries(context.Background(), testSession)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, 0, board.Len())
	assert.NotNil(t, board.Pending)
	assert.NotNil(t, board.Active)
	assert.NotNil(t, board.Resolved)
}

func TestPresenter_InvalidSession(t *testing.T) {
	client, transport := newTestClient(t)

	_, err := NewPresenter(client, nil).Visitors(context.Background(), models.Session{})
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Zero(t, transport.GetTotalCallCount())
}
