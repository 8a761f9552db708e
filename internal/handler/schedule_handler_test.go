package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/limaJavier/schedulebuilder/internal/apperrors"
	"github.com/limaJavier/schedulebuilder/internal/service"
	"github.com/limaJavier/schedulebuilder/pkg/model"
	"github.com/limaJavier/schedulebuilder/pkg/provider"
)

type schedulePlannerMock struct {
	captured model.ScheduleRequest
	plan     *model.Plan
	err      error
}

func (m *schedulePlannerMock) Plan(ctx context.Context, req model.ScheduleRequest) (*model.Plan, error) {
	m.captured = req
	return m.plan, m.err
}

type envelope struct {
	Data  *model.Plan            `json:"data"`
	Error *apperrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func TestScheduleHandlerBuild(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Decodes the request", func(t *testing.T) {
		mockSvc := &schedulePlannerMock{plan: &model.Plan{ID: "plan-1", Feasible: true}}
		handler := NewScheduleHandler(mockSvc)
		payload := []byte(`{"courses":["CS 2100","MATH 3100"],"time_constraints":{"Mo":{"start":"09:00","end":"17:00"}},"optimize_by_rating":true}`)
		req, _ := http.NewRequest(http.MethodPost, "/schedules/build", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = req

		handler.Build(c)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, []string{"CS 2100", "MATH 3100"}, mockSvc.captured.Courses)
		require.Equal(t, model.ClockRange{Start: "09:00", End: "17:00"}, mockSvc.captured.TimeConstraints["Mo"])
		require.True(t, mockSvc.captured.OptimizeByRating)
	})

	t.Run("Malformed payload", func(t *testing.T) {
		handler := NewScheduleHandler(&schedulePlannerMock{})
		req, _ := http.NewRequest(http.MethodPost, "/schedules/build", bytes.NewReader([]byte(`{"courses":`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = req

		handler.Build(c)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Service errors keep their status", func(t *testing.T) {
		handler := NewScheduleHandler(&schedulePlannerMock{err: apperrors.Clone(apperrors.ErrSearchLimit, "")})
		req, _ := http.NewRequest(http.MethodPost, "/schedules/build", bytes.NewReader([]byte(`{"courses":["CS 2100"]}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = req

		handler.Build(c)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var body envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, apperrors.ErrSearchLimit.Code, body.Error.Code)
	})
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	catalog := provider.NewMemoryCatalog(map[string]model.CourseRecord{
		"A": {Sections: []model.RawSection{{SectionNumber: "001", Schedule: []string{"Mo 9:00am - 9:50am"}}}},
		"B": {Sections: []model.RawSection{{SectionNumber: "001", Schedule: []string{"Mo 9:00am - 9:50am"}}}},
		"C": {Sections: []model.RawSection{{SectionNumber: "001", Schedule: []string{"Tu 10:00am - 10:50am"}}}},
	})
	metrics := service.NewMetricsService()
	planner := service.NewPlannerService(catalog, nil, zap.NewNop(), metrics, service.PlannerConfig{MaxNodes: 100})
	router := NewRouter(zap.NewNop(), NewScheduleHandler(planner), NewMetricsHandler(metrics))

	post := func(payload string) (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(http.MethodPost, "/schedules/build", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		var body envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w, body
	}

	t.Run("Feasible", func(t *testing.T) {
		w, body := post(`{"courses":["A","C"]}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, body.Data.Feasible)
		require.Contains(t, body.Data.Schedule["A"], "001")
		require.NotEmpty(t, w.Header().Get("X-Request-ID"))
		require.Equal(t, w.Header().Get("X-Request-ID"), body.Meta["request_id"])
	})

	t.Run("Infeasible is still a success response", func(t *testing.T) {
		w, body := post(`{"courses":["A","B"]}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.False(t, body.Data.Feasible)
		require.Equal(t, false, body.Meta["feasible"])
	})

	t.Run("Unknown course", func(t *testing.T) {
		w, body := post(`{"courses":["Z"]}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Equal(t, apperrors.ErrInfeasibleDomain.Code, body.Error.Code)
	})

	t.Run("Invalid window", func(t *testing.T) {
		w, body := post(`{"courses":["A"],"time_constraints":{"Mo":{"start":"noon","end":"17:00"}}}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, apperrors.ErrInvalidWindow.Code, body.Error.Code)
	})

	t.Run("Health and metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wp-login.php", nil))
		require.Equal(t, http.StatusNotFound, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="unmatched",status="404"}`)
		require.NotContains(t, w.Body.String(), "wp-login")
		require.Contains(t, w.Body.String(), `http_requests_total{method="POST",path="/schedules/build",status="200"}`)
		require.Contains(t, w.Body.String(), "schedule_solves_total")
	})
}
