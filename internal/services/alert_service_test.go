package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jewa/internal/models"
)

const alertsFixture = `[
	{"id":1,"house_id":7,"resident_id":42,"subject":"Broken fence","description":"Back fence is down","status":"Pending","created_at":"2024-05-01 08:00:00"},
	{"id":2,"house_id":7,"resident_id":42,"subject":"Noise","description":"Generator at night","status":"Closed","created_at":"2024-05-03 08:00:00"}
]`

func TestAlertRaise(t *testing.T) {
	client, transport := newTestClient(t)
	add := newRecordingResponder(200, `{"message":"Alert has been sent"}`)
	transport.RegisterResponder(http.MethodPost, testBaseURL+EndpointAddAlert, add.Responder())

	svc := NewAlertService(client, nil, nil)
	require.NoError(t, svc.Raise(context.Background(), testSession, AlertInput{
		Subject:     " Intruder ",
		Description: "Someone climbing the wall",
	}))

	var payload NewAlert
	add.Last(t, &payload)
	assert.Equal(t, NewAlert{
		HouseID:       7,
		ResidentID:    42,
		CommunityCode: "GREEN01",
		Subject:       "Intruder",
		Description:   "Someone climbing the wall",
		Status:        models.AlertPending,
	}, payload)
}

func TestAlertRaise_Validation(t *testing.T) {
	client, transport := newTestClient(t)
	svc := NewAlertService(client, nil, nil)

	err := svc.Raise(context.Background(), testSession, AlertInput{Subject: "  "})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("subject"))
	assert.True(t, verrs.Has("description"))
	assert.Zero(t, transport.GetTotalCallCount())
}

func TestAlertList_NewestFirst(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+EndpointAlerts,
		httpmock.NewStringResponder(200, listBody(alertsFixture)))

	alerts, err := NewAlertService(client, nil, nil).List(context.Background(), testSession)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, models.ID(2), alerts[0].ID)
}

func TestAlertUpdate(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+EndpointAlerts,
		httpmock.NewStringResponder(200, listBody(alertsFixture)))
	update := newRecordingResponder(200, `{"message":"Alert updated"}`)
	transport.RegisterResponder(http.MethodPost, testBaseURL+EndpointUpdateAlert, update.Responder())

	svc := NewAlertService(client, nil, nil)
	alerts, err := svc.Update(context.Background(), testSession, 1, AlertUpdateInput{Status: "closed"})
	require.NoError(t, err)
	assert.Len(t, alerts, 2)

	var payload AlertUpdate
	update.Last(t, &payload)
	assert.Equal(t, AlertUpdate{AlertID: 1, Subject: "Broken fence", Description: "Back fence is down", Status: "Closed"}, payload)
	assert.Equal(t, 2, calls(transport, EndpointAlerts))
}

func TestAlertUpdate_Errors(t *testing.T) {
	client, transport := newTestClient(t)
	transport.RegisterResponder(http.MethodPost, testBaseURL+EndpointAlerts,
		httpmock.NewStringResponder(200, listBody(alertsFixture)))
	svc := NewAlertService(client, nil, nil)

	_, err := svc.Update(context.Background(), testSession, 1, AlertUpdateInput{Status: "Escalated"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("status"))

	_, err = svc.Update(context.Background(), testSession, 9, AlertUpdateInput{Status: "Rejected"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, calls(transport, EndpointUpdateAlert))
}
