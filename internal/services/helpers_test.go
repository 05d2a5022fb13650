package services

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/jewa/internal/models"
)

const testBaseURL = "https://jewa.test/api"

var testSession = models.Session{ResidentID: 42, HouseID: 7, CommunityCode: "GREEN01", Name: "Ngozi"}

func newTestClient(t *testing.T) (*JewaClient, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client := NewJewaClient(testBaseURL, 0, zap.NewNop(), WithHTTPClient(&http.Client{Transport: transport}))
	return client, transport
}

func callKey(endpoint string) string {
	return "POST " + testBaseURL + endpoint
}

func calls(transport *httpmock.MockTransport, endpoint string) int {
	return transport.GetCallCountInfo()[callKey(endpoint)]
}

// recordingResponder answers with body and keeps every request payload.
type recordingResponder struct {
	mu     sync.Mutex
	bodies []json.RawMessage
	status int
	body   string
}

func newRecordingResponder(status int, body string) *recordingResponder {
	return &recordingResponder{status: status, body: body}
}

func (r *recordingResponder) Responder() httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.bodies = append(r.bodies, json.RawMessage(data))
		r.mu.Unlock()
		return httpmock.NewStringResponse(r.status, r.body), nil
	}
}

func (r *recordingResponder) Last(t *testing.T, v any) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.bodies, "no request recorded")
	require.NoError(t, json.Unmarshal(r.bodies[len(r.bodies)-1], v))
}

func listBody(items string) string {
	return `{"message":` + items + `}`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ActivityRecord{}, &models.DomesticHelp{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

const visitorsFixture = `[
	{"id":"11","name":"Amaka","phone":"08030000001","resident_id":42,"mode_of_entry":"Walk","otp":"482913","otp_status":"Active","prebooked_status":"Pending","created_at":"2024-05-01 09:00:00"},
	{"id":12,"name":"Bayo","phone":"08030000002","resident_id":42,"mode_of_entry":"vehicle","vehicle_number":"LAG-123","otp":517204,"otp_status":"Active","prebooked_status":"Approved","time_in":"2024-05-02 10:00:00","created_at":"2024-05-02 08:00:00"},
	{"id":13,"name":"Chidi","phone":"08030000003","resident_id":42,"otp":"600001","otp_status":"Invalid","prebooked_status":"Pending","created_at":"2024-04-30T12:00:00Z"},
	{"id":14,"name":"Dupe","phone":"08030000004","resident_id":42,"otp":"700002","otp_status":"","prebooked_status":"Approved","time_in":"2024-04-01 10:00:00","time_out":"2024-04-01 12:00:00","created_at":"2024-04-01 09:00:00"},
	{"id":15,"name":"Efe","phone":"08030000005","resident_id":42,"otp":"800003","prebooked_status":"teleported","created_at":null}
]`
