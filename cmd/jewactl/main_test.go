package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jewa/internal/services"
)

const upstream = "https://jewa.test/api"

const visitorsBody = `{"message":[
	{"id":11,"name":"Amaka","phone":"08030000001","otp":"482913","otp_status":"Active","prebooked_status":"Pending","created_at":"2024-05-01 09:00:00"},
	{"id":13,"name":"Chidi","phone":"08030000003","otp":"600001","otp_status":"Invalid","prebooked_status":"Pending","created_at":"2024-04-30 09:00:00"}
]}`

func runCLI(t *testing.T, transport *httpmock.MockTransport, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := newCLIContext(strings.NewReader(stdin), &out)
	cli.clientOptions = []services.ClientOption{services.WithHTTPClient(&http.Client{Transport: transport})}

	cmd := newRootCommand(cli)
	cmd.SetArgs(append([]string{"--base-url", upstream, "--resident-id", "42", "--house-id", "7"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newTransport() *httpmock.MockTransport {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodPost, upstream+services.EndpointVisitors,
		httpmock.NewStringResponder(200, visitorsBody))
	transport.RegisterResponder(http.MethodPost, upstream+services.EndpointRevokeOTP,
		httpmock.NewStringResponder(200, `{"message":"OTP revoked successfully"}`))
	return transport
}

func revokeCalls(transport *httpmock.MockTransport) int {
	return transport.GetCallCountInfo()["POST "+upstream+services.EndpointRevokeOTP]
}

func TestVisitorsList(t *testing.T) {
	out, err := runCLI(t, newTransport(), "", "visitors", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "PENDING (1)")
	assert.Contains(t, out, "RESOLVED (1)")
	assert.Contains(t, out, "Amaka")
	assert.Contains(t, out, "2024-05-01 09:00")
}

func TestVisitorsRevoke_Prompted(t *testing.T) {
	transport := newTransport()

	out, err := runCLI(t, transport, "y\n", "visitors", "revoke", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "Revoke OTP for Amaka? [y/N]")
	assert.Contains(t, out, "OTP for Amaka revoked.")
	assert.Equal(t, 1, revokeCalls(transport))
}

func TestVisitorsRevoke_Declined(t *testing.T) {
	transport := newTransport()

	out, err := runCLI(t, transport, "\n", "visitors", "revoke", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Zero(t, revokeCalls(transport))
}

func TestVisitorsRevoke_AlreadyInvalid(t *testing.T) {
	transport := newTransport()

	out, err := runCLI(t, transport, "", "visitors", "revoke", "13", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "OTP for Chidi is already invalid.")
	assert.NotContains(t, out, "[y/N]")
	assert.Zero(t, revokeCalls(transport))
}

func TestVisitorsAdd_InvalidInput(t *testing.T) {
	transport := newTransport()

	_, err := runCLI(t, transport, "", "visitors", "add", "--name", "Bayo", "--phone", "08030000002", "--mode", "vehicle")
	require.Error(t, err)
	assert.Contains(t, describeError(err), "vehicle_number is required when arriving by vehicle")
	assert.Zero(t, transport.GetCallCountInfo()["POST "+upstream+services.EndpointPreauthorise])
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "unable to reach the community service",
		describeError(&services.TransportError{Endpoint: "/getallvisitors", Err: assert.AnError}))
	assert.Equal(t, "Visitor limit reached",
		describeError(&services.BackendError{Endpoint: "/preauthorisevisitor", Status: 200, Message: "Visitor limit reached"}))
	assert.Equal(t, "the community service rejected the request",
		describeError(&services.BackendError{Endpoint: "/preauthorisevisitor", Status: 500}))
}

func TestRequiresResident(t *testing.T) {
	var out bytes.Buffer
	cli := newCLIContext(strings.NewReader(""), &out)
	cmd := newRootCommand(cli)
	cmd.SetArgs([]string{"visitors", "list"})
	if cli.v.GetInt64("JEWA_RESIDENT_ID") != 0 {
		t.Skip("JEWA_RESIDENT_ID is set in the environment")
	}
	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "resident id is required")
}
