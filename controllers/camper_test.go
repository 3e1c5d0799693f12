package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuslands/logging"
	"campuslands/models"
	"campuslands/registration"
	"campuslands/storage"
	"campuslands/validation"
)

func newTestRouter() *mux.Router {
	engine := registration.NewEngine(storage.NewMemoryStore(), validation.New(), logging.Nop())
	return NewRouter(engine, logging.Nop())
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.Error {
	t.Helper()
	var e models.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestStartRegistrationPartial(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodPost, "/campers", `{"nombres":"Ana","telefono":"3001234567"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/campers/1", rec.Header().Get("Location"))
	assert.JSONEq(t, `{
		"id": 1,
		"estado": "En proceso de ingreso",
		"riesgo": "Bajo",
		"nombres": "Ana",
		"telefono": "3001234567",
		"acudiente": {}
	}`, rec.Body.String())
}

func TestRegistrationFlow(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodPost, "/campers", `{"nombres":"Ana","telefono":"3001234567"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPatch, "/campers/continue", `{
		"id": 1,
		"apellidos": "Gomez Ruiz",
		"direccion": "Calle 1",
		"acudiente": {"nombres": "Luis", "apellidos": "Gomez Paz", "telefono": "3009876543"},
		"jornada": 2
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/campers/1", rec.Header().Get("Location"))
	continued := rec.Body.String()

	var c models.Camper
	require.NoError(t, json.Unmarshal([]byte(continued), &c))
	assert.Equal(t, models.StatusEnrolled, c.Status)

	rec = do(t, router, http.MethodGet, "/campers/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, continued, rec.Body.String())

	rec = do(t, router, http.MethodPatch, "/campers/continue", `{"id": 1, "direccion": "Calle 2"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestContinueRejectsPresentField(t *testing.T) {
	router := newTestRouter()
	do(t, router, http.MethodPost, "/campers", `{"nombres":"Ana","direccion":"Calle 1"}`)

	rec := do(t, router, http.MethodPatch, "/campers/continue", `{"id": "1", "direccion": "Calle 9"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_field", decodeError(t, rec).Code)
}

func TestStartRegistrationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty object", `{}`, "insufficient_data"},
		{"empty body", ``, "insufficient_data"},
		{"bad phone", `{"telefono":"300123"}`, "invalid_format"},
		{"shift as text", `{"jornada":"2"}`, "invalid_type"},
		{"shift far out of range", `{"jornada":10000000000}`, "invalid_format"},
		{"shift exponent out of range", `{"jornada":1e10}`, "invalid_format"},
		{"unknown key", `{"email":"ana@x.co"}`, "unknown_field"},
		{"array body", `[{"nombres":"Ana"}]`, "invalid_body"},
		{"malformed json", `{"nombres":`, "invalid_body"},
		{"trailing data", `{"nombres":"Ana"} garbage`, "invalid_body"},
		{"two objects", `{"nombres":"Ana"}{"nombres":"Eva"}`, "invalid_body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(), http.MethodPost, "/campers", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestBadPhoneMessageNamesField(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodPost, "/campers", `{"telefono":"300123"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "telefono")
}

func TestGetCamper(t *testing.T) {
	router := newTestRouter()
	do(t, router, http.MethodPost, "/campers", `{"nombres":"Ana"}`)

	rec := do(t, router, http.MethodGet, "/campers/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, id := range []string{"2", "3000000000"} {
		rec = do(t, router, http.MethodGet, "/campers/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
	}

	for _, id := range []string{"0", "-3", "abc", "1.5"} {
		rec = do(t, router, http.MethodGet, "/campers/"+id, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.Equal(t, "invalid_id", decodeError(t, rec).Code, id)
	}
}

func TestFindCamperByBody(t *testing.T) {
	router := newTestRouter()
	do(t, router, http.MethodPost, "/campers", `{"nombres":"Ana"}`)

	rec := do(t, router, http.MethodPost, "/camper", `{"id": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var c models.Camper
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "Ana", *c.FirstNames)

	rec = do(t, router, http.MethodPost, "/camper", `{"id": "1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/camper", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, body := range []string{`{"id": 7}`, `{"id": 3000000000}`, `{"id": "3000000000"}`} {
		rec = do(t, router, http.MethodPost, "/camper", body)
		assert.Equal(t, http.StatusNotFound, rec.Code, body)
	}
}

func TestListAndCount(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodGet, "/campers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	do(t, router, http.MethodPost, "/campers", `{"nombres":"Ana"}`)
	do(t, router, http.MethodPost, "/campers", `{"nombres":"Eva"}`)

	rec = do(t, router, http.MethodGet, "/campers", "")
	var campers []models.Camper
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &campers))
	require.Len(t, campers, 2)
	assert.Equal(t, 2, campers[1].ID)

	rec = do(t, router, http.MethodGet, "/campers/count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total": 2}`, rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter()

	rec := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

type brokenStore struct {
	storage.MemoryStore
}

func (*brokenStore) List(_ context.Context) ([]models.Camper, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureIs500(t *testing.T) {
	engine := registration.NewEngine(&brokenStore{}, validation.New(), logging.Nop())
	router := NewRouter(engine, logging.Nop())

	rec := do(t, router, http.MethodGet, "/campers", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "store_failure", e.Code)
	assert.Equal(t, "connection refused", e.Message)
}
