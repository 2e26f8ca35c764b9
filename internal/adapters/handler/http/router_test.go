package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/export"
	adapterHTTP "github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/services"
)

var art = time.FixedZone("ART", -3*60*60)

func fixedNow() time.Time {
	return time.Date(2026, 10, 17, 10, 0, 0, 0, art)
}

type stubChecker struct {
	name  string
	state string
	err   error
}

func (s stubChecker) Name() string { return s.name }
func (s stubChecker) Check(ctx context.Context) (string, error) {
	return s.state, s.err
}

// setupRouter wires the real services over an in-memory store seeded with
// the weekly schedule. Saturday 2026-10-17 is "today".
func setupRouter(t *testing.T, checkers ...adapterHTTP.HealthChecker) (*gin.Engine, repository.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewSessionStore()
	subjects := services.NewSubjectService(store.Subjects, store.Progress, domain.DefaultSchedule(), nil, fixedNow)
	tasks := services.NewTaskService(store.Tasks, fixedNow)
	require.NoError(t, subjects.Seed(context.Background()))

	board := services.NewBoardService(subjects, tasks, fixedNow)
	calendar := services.NewCalendarService(subjects, tasks, cache.NewLocalCache(time.Minute, time.Minute), fixedNow)
	exporter := services.NewExportService(board, export.NewXLSXRenderer(), nil, 15*time.Minute, fixedNow)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		SubjectHandler: adapterHTTP.NewSubjectHandler(subjects),
		TaskHandler:    adapterHTTP.NewTaskHandler(tasks),
		BoardHandler:   adapterHTTP.NewBoardHandler(board, calendar, fixedNow),
		ExportHandler:  adapterHTTP.NewExportHandler(exporter),
		Checkers:       checkers,
		StartTime:      time.Now(),
	})
	return router, store
}

func TestHealth(t *testing.T) {
	t.Run("Success: 200 OK all connected", func(t *testing.T) {
		router, _ := setupRouter(t,
			stubChecker{name: "database", state: "connected"},
			stubChecker{name: "redis", state: "disabled"},
		)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"connected"`)
		assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
		assert.Contains(t, w.Body.String(), `"uptime"`)
	})

	t.Run("Fail: 503 when a backend is down", func(t *testing.T) {
		router, _ := setupRouter(t,
			stubChecker{name: "database", state: "unreachable", err: errors.New("dial tcp: refused")},
		)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
		assert.Contains(t, w.Body.String(), `"database":"unreachable"`)
	})

	t.Run("Nil database reports disabled", func(t *testing.T) {
		state, err := adapterHTTP.NewDBChecker("sqlite", nil).Check(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "disabled", state)
	})
}

func TestPreflight(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
