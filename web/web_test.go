package web

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/ctf_checker/checker"
	"github.com/to404hanga/ctf_checker/constants"
	"github.com/to404hanga/ctf_checker/model"
	"github.com/to404hanga/ctf_checker/pkg/gintool"
	"github.com/to404hanga/ctf_checker/service"
	"github.com/to404hanga/ctf_checker/service/exporter/factory"
	loggerv2 "github.com/to404hanga/pkg404/logger/v2"
	"go.uber.org/zap"
)

type fakeChecker struct {
	mu     sync.Mutex
	ids    []uint64
	status checker.Status
}

func (f *fakeChecker) Enqueue(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
}

func (f *fakeChecker) Status() checker.Status { return f.status }

func (f *fakeChecker) IsReady() bool { return f.status.Ready }

type stubSubmissionService struct {
	service.SubmissionService
	records []model.CheatRecord
	err     error
}

func (s *stubSubmissionService) FindCheatSubmissions(_ context.Context, _ *uint64, page, _ int) ([]model.CheatRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if page > 1 {
		return nil, nil
	}
	return s.records, nil
}

func newTestEngine(chk *fakeChecker, svc service.SubmissionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(gintool.RequestIDMiddleware(), gintool.ContextMiddleware())

	log := loggerv2.NewZapContextLogger(zap.NewNop())
	NewHealthHandler(chk, log).Register(engine)
	NewCheckerHandler(chk, factory.NewExporterFactory(svc, log, 100), log).Register(engine)
	return engine
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) gintool.Response {
	t.Helper()
	var resp gintool.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthHandler(t *testing.T) {
	chk := &fakeChecker{}
	engine := newTestEngine(chk, &stubSubmissionService{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, constants.HealthPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, constants.ReadyPath, nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	chk.status.Ready = true
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, constants.ReadyPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckerHandler_EnqueueSubmission(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		userID   string
		wantCode int
		wantIDs  []uint64
	}{
		{name: "ok", body: `{"submission_id":42}`, wantCode: http.StatusOK, wantIDs: []uint64{42}},
		{name: "with operator", body: `{"submission_id":7}`, userID: "3", wantCode: http.StatusOK, wantIDs: []uint64{7}},
		{name: "missing id", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "empty body", body: ``, wantCode: http.StatusBadRequest},
		{name: "bad json", body: `{`, wantCode: http.StatusBadRequest},
		{name: "bad operator", body: `{"submission_id":1}`, userID: "abc", wantCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chk := &fakeChecker{}
			engine := newTestEngine(chk, &stubSubmissionService{})

			req := httptest.NewRequest(http.MethodPost, constants.EnqueueSubmissionPath, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.userID != "" {
				req.Header.Set(constants.HeaderUserIDKey, tc.userID)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tc.wantCode, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
			assert.Equal(t, tc.wantIDs, chk.ids)
		})
	}
}

func TestCheckerHandler_RequestIDPropagated(t *testing.T) {
	engine := newTestEngine(&fakeChecker{}, &stubSubmissionService{})

	req := httptest.NewRequest(http.MethodGet, constants.GetCheckerStatusPath, nil)
	req.Header.Set(constants.HeaderRequestIDKey, "req-1")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(constants.HeaderRequestIDKey))
	assert.Equal(t, "req-1", decodeResponse(t, w).RequestID)
}

func TestCheckerHandler_GetCheckerStatus(t *testing.T) {
	chk := &fakeChecker{status: checker.Status{Ready: true, QueueDepth: 3}}
	engine := newTestEngine(chk, &stubSubmissionService{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, constants.GetCheckerStatusPath, nil))

	var resp struct {
		Code int                            `json:"code"`
		Data model.GetCheckerStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.GetCheckerStatusResponse{Ready: true, QueueDepth: 3}, resp.Data)
}

func TestCheckerHandler_ExportCheatReport(t *testing.T) {
	svc := &stubSubmissionService{records: []model.CheatRecord{
		{SubmissionID: 11, UserID: 2, Username: "alice", ChallengeID: 3, Flag: "FLAG{leak}"},
	}}
	engine := newTestEngine(&fakeChecker{}, svc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, constants.ExportCheatReportPath+"?format=csv&game_id=9", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cheat_report_game_9_")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[1][2])
}

func TestCheckerHandler_ExportCheatReportErrors(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		svcErr   error
		wantCode int
	}{
		{name: "missing format", query: "", wantCode: http.StatusBadRequest},
		{name: "unsupported format", query: "?format=pdf", wantCode: http.StatusBadRequest},
		{name: "bad game id", query: "?format=csv&game_id=x", wantCode: http.StatusBadRequest},
		{name: "store failure", query: "?format=xlsx", svcErr: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newTestEngine(&fakeChecker{}, &stubSubmissionService{err: tc.svcErr})

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, constants.ExportCheatReportPath+tc.query, nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.wantCode, decodeResponse(t, w).Code)
		})
	}
}

func TestCheatReportFilename(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
	gameID := uint64(4)
	assert.Equal(t, "cheat_report_all_20261015083000.csv", cheatReportFilename(nil, now, ".csv"))
	assert.Equal(t, "cheat_report_game_4_20261015083000.xlsx", cheatReportFilename(&gameID, now, ".xlsx"))
}

func TestGinServer_ShutdownBeforeStart(t *testing.T) {
	s := &GinServer{Engine: gin.New(), Addr: "127.0.0.1:0"}
	assert.NoError(t, s.Shutdown(context.Background()))
}
