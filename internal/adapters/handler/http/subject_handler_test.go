package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
)

func TestListSubjects(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/subjects", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var subjects []domain.Subject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subjects))
	require.Len(t, subjects, 3)
	assert.Equal(t, "Álgebra", subjects[0].Name)
	assert.Equal(t, "Poo", subjects[2].Name)
}

func TestUpdateSubject(t *testing.T) {
	t.Run("Success: 200 OK with flexible dates", func(t *testing.T) {
		router, store := setupRouter(t)

		body := `{"pdf_count": 4, "theory_date": "3d", "practice_date": "2026-10-30"}`
		req, _ := http.NewRequest("PUT", "/api/v1/subjects/poo", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Poo"`)

		poo, err := store.Subjects.GetByName(context.Background(), "Poo")
		require.NoError(t, err)
		assert.Equal(t, 4, poo.PdfCount)
		assert.Equal(t, "2026-10-20", domain.FormatForStorage(*poo.TheoryDate))
		assert.Equal(t, "2026-10-30", domain.FormatForStorage(*poo.PracticeDate))

		p, err := store.Progress.Get(context.Background(), "Poo", domain.SessionTheory)
		require.NoError(t, err)
		assert.Equal(t, 4, p.TotalPdfs)
	})

	t.Run("Fail: 400 Bad Request (negative pdf count)", func(t *testing.T) {
		router, _ := setupRouter(t)

		req, _ := http.NewRequest("PUT", "/api/v1/subjects/Poo", bytes.NewBufferString(`{"pdf_count": -2}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "pdf count")
	})

	t.Run("Fail: 400 Bad Request (unscheduled subject with bad date)", func(t *testing.T) {
		router, _ := setupRouter(t)

		req, _ := http.NewRequest("PUT", "/api/v1/subjects/Historia", bytes.NewBufferString(`{"theory_date": "mañana"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 Bad Request (malformed JSON)", func(t *testing.T) {
		router, _ := setupRouter(t)

		req, _ := http.NewRequest("PUT", "/api/v1/subjects/Poo", bytes.NewBufferString(`{"pdf_count": "four"`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSetSubjectDays(t *testing.T) {
	t.Run("Success: zero days means a week", func(t *testing.T) {
		router, store := setupRouter(t)

		body := `{"session": "Práctica", "days": 0}`
		req, _ := http.NewRequest("PUT", "/api/v1/subjects/algebra/days", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		alg, _ := store.Subjects.GetByName(context.Background(), "Álgebra")
		assert.Equal(t, "2026-10-24", domain.FormatForStorage(*alg.PracticeDate))
	})

	t.Run("Fail: 400 Bad Request (unknown session)", func(t *testing.T) {
		router, _ := setupRouter(t)

		req, _ := http.NewRequest("PUT", "/api/v1/subjects/Poo/days", bytes.NewBufferString(`{"session": "lab", "days": 2}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 Bad Request (missing session)", func(t *testing.T) {
		router, _ := setupRouter(t)

		req, _ := http.NewRequest("PUT", "/api/v1/subjects/Poo/days", bytes.NewBufferString(`{"days": 2}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestResetSubjects(t *testing.T) {
	router, store := setupRouter(t)
	ctx := context.Background()

	req, _ := http.NewRequest("PUT", "/api/v1/subjects/Poo", bytes.NewBufferString(`{"pdf_count": 9}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/v1/subjects/reset", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	poo, err := store.Subjects.GetByName(ctx, "Poo")
	require.NoError(t, err)
	assert.Equal(t, 0, poo.PdfCount)
}

func TestProgressEndpoints(t *testing.T) {
	t.Run("Success: update then list", func(t *testing.T) {
		router, _ := setupRouter(t)

		body := `{"subject_name": "calculo", "table_type": "theory", "current_progress": 2, "total_pdfs": 6}`
		req, _ := http.NewRequest("PUT", "/api/v1/progress", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"subject_name":"Cálculo"`)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/api/v1/progress", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var rows []domain.SubjectProgress
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		assert.Len(t, rows, 6)
	})

	t.Run("Fail: 400 Bad Request (negative values)", func(t *testing.T) {
		router, _ := setupRouter(t)

		body := `{"subject_name": "Poo", "table_type": "practice", "current_progress": -1, "total_pdfs": 3}`
		req, _ := http.NewRequest("PUT", "/api/v1/progress", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
