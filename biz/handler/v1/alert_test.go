package v1

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/nimbuswatch/alerter/biz/common"
	"github.com/nimbuswatch/alerter/internal/alertservice"
	"github.com/nimbuswatch/alerter/internal/alertstore"
	"github.com/nimbuswatch/alerter/internal/reduce"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := alertstore.NewMemStore()
	engine := reduce.NewEngine(store, nil, reduce.NewDispatchPolicy(reduce.PolicyNameFirst, 0, 0))
	Init(alertservice.NewService(store, engine))

	r := gin.New()
	r.GET("/api/v1/alerts", GetAlerts)
	r.POST("/api/v1/alerts", AddAlert)
	r.DELETE("/api/v1/alerts", DeleteAlerts)
	r.PUT("/api/v1/alerts/status", EditAlertStatus)
	r.GET("/api/v1/alerts/summary", GetAlertsSummary)
	r.POST("/api/v1/reports", AddNewAlertReport)
	r.POST("/api/v1/reports/cloud/:provider", AddNewAlertReportFromCloud)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *common.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp common.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp
}

func TestReportThenQueryRoundTrip(t *testing.T) {
	r := newTestRouter()

	report := `{"monitor_id": 900, "priority": 0, "status": 0,
		"content": "cpu usage over 90%", "alert_time": 1722500000000,
		"labels": {"instance": "host-1"}}`
	resp := doJSON(t, r, http.MethodPost, "/api/v1/reports", report)
	assert.Equal(t, common.SuccessCode, resp.Code)

	// the same condition again merges instead of duplicating
	resp = doJSON(t, r, http.MethodPost, "/api/v1/reports", report)
	assert.Equal(t, common.SuccessCode, resp.Code)

	resp = doJSON(t, r, http.MethodGet, "/api/v1/alerts?monitor_id=900", "")
	assert.Equal(t, common.SuccessCode, resp.Code)

	page := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), page["total"])
	items := page["items"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["trigger_times"])
}

func TestAddAlertRejectsBadBody(t *testing.T) {
	r := newTestRouter()
	resp := doJSON(t, r, http.MethodPost, "/api/v1/alerts", `{"priority": "not-a-number"}`)
	assert.Equal(t, common.ParamInvalidErrorCode, resp.Code)
}

func TestDeleteAlertsRequiresIds(t *testing.T) {
	r := newTestRouter()
	resp := doJSON(t, r, http.MethodDelete, "/api/v1/alerts", `{}`)
	assert.Equal(t, common.ParamInvalidErrorCode, resp.Code)
}

func TestEditAlertStatusValidatesRange(t *testing.T) {
	r := newTestRouter()
	resp := doJSON(t, r, http.MethodPut, "/api/v1/alerts/status",
		`{"status": 9, "ids": ["66aa00000000000000000000"]}`)
	assert.Equal(t, common.ParamInvalidErrorCode, resp.Code)
}

func TestCloudReportUnknownProviderStillOk(t *testing.T) {
	r := newTestRouter()

	resp := doJSON(t, r, http.MethodPost, "/api/v1/reports/cloud/no-such-cloud", `{"x": 1}`)
	assert.Equal(t, common.SuccessCode, resp.Code)

	resp = doJSON(t, r, http.MethodGet, "/api/v1/alerts", "")
	page := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), page["total"])
}

func TestCloudReportMalformedPayload(t *testing.T) {
	r := newTestRouter()
	resp := doJSON(t, r, http.MethodPost, "/api/v1/reports/cloud/tencloud",
		`{"firstOccurTime": "bogus"}`)
	assert.Equal(t, common.ParamInvalidErrorCode, resp.Code)
}

func TestGetAlertsSummaryShape(t *testing.T) {
	r := newTestRouter()

	doJSON(t, r, http.MethodPost, "/api/v1/reports",
		`{"monitor_id": 901, "priority": 0, "status": 0, "content": "a", "alert_time": 1722500000000}`)
	doJSON(t, r, http.MethodPost, "/api/v1/reports",
		`{"monitor_id": 902, "priority": 2, "status": 0, "content": "b", "alert_time": 1722500000000}`)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/alerts/summary", "")
	assert.Equal(t, common.SuccessCode, resp.Code)

	summary := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), summary["total"])
	nums := summary["priority_nums"].(map[string]interface{})
	assert.Equal(t, float64(1), nums["0"])
	assert.Equal(t, float64(1), nums["2"])
}
