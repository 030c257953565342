package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-visitor/internal/app"
	"go-visitor/internal/config"
	"go-visitor/internal/sheet"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func newTestRouter(t *testing.T, mutate func(*config.Config)) (*gin.Engine, *sheet.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Store.Driver = config.StoreMemory
	cfg.Timezone = "UTC"
	cfg.RateLimit.RPS = 0
	if mutate != nil {
		mutate(&cfg)
	}

	store := sheet.NewMemoryStore()
	r, err := app.NewRouter(cfg, store, nil, zap.NewNop())
	require.NoError(t, err)
	return r, store
}

func call(t *testing.T, r *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestVisitorLifecycle(t *testing.T) {
	r, store := newTestRouter(t, nil)

	code, env := call(t, r, http.MethodPost, "/api/visitors", `{
		"date": "2026-03-10", "name": "Asha", "company": "Acme",
		"inTime": "09:30", "purpose": "Meeting", "contact": "9990001111"
	}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Visitor entry added successfully", env.Message)

	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, float64(2), created["rowNumber"])
	assert.Equal(t, "Checked In", created["status"])

	header, err := store.LoadHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Name", "Company", "In Time", "Purpose", "Out Time", "Contact", "Status"}, header)

	code, env = call(t, r, http.MethodPatch, "/api/visitors/9990001111/checkout", `{"outTime":"18:00"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"key":"9990001111","keyField":"contact","outTime":"18:00","status":"Checked Out"}`, string(env.Data))

	code, env = call(t, r, http.MethodPatch, "/api/visitors/9990001111/checkout", `{"outTime":"18:05"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Code)

	code, env = call(t, r, http.MethodGet, "/api/visitors", "")
	require.Equal(t, http.StatusOK, code)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all, 1)
	assert.Equal(t, "18:00", all[0]["outTime"])
	assert.Equal(t, "Checked Out", all[0]["status"])
}

func TestVisitorUpdateAndValidation(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	code, env := call(t, r, http.MethodPost, "/api/visitors", `{"name":"Asha"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_INPUT", env.Code)

	code, _ = call(t, r, http.MethodPost, "/api/visitors", `{
		"date": "2026-03-10", "name": "Asha", "company": "Acme",
		"inTime": "09:30", "purpose": "Meeting", "contact": "111"
	}`)
	require.Equal(t, http.StatusCreated, code)

	code, env = call(t, r, http.MethodPatch, "/api/visitors/111", `{"Purpose":"Interview","status":"Checked Out"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Visitor entry updated successfully", env.Message)

	_, env = call(t, r, http.MethodGet, "/api/visitors", "")
	var all []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Equal(t, "Interview", all[0]["purpose"])
	assert.Equal(t, "Checked In", all[0]["status"])

	code, _ = call(t, r, http.MethodPatch, "/api/visitors/111", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, r, http.MethodPatch, "/api/visitors/999", `{"purpose":"x"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, r, http.MethodGet, "/api/visitors/recent/-1", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestIDNumberVariant(t *testing.T) {
	r, store := newTestRouter(t, func(c *config.Config) {
		c.Schema.Variant = "id_number"
	})

	code, _ := call(t, r, http.MethodPost, "/api/visitors", `{
		"date": "2026-03-10", "name": "Ravi", "company": "Acme", "idNumber": "ID-7",
		"inTime": "09:30", "purpose": "Audit", "approvalPerson": "Meera"
	}`)
	require.Equal(t, http.StatusCreated, code)

	header, err := store.LoadHeader(context.Background())
	require.NoError(t, err)
	assert.Contains(t, header, "ID Number")
	assert.NotContains(t, header, "Contact")

	code, env := call(t, r, http.MethodPatch, "/api/visitors/ID-7/checkout", `{"outTime":"11:00"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"keyField":"idNumber"`)
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "OK", health["status"])
	assert.NotEmpty(t, health["timestamp"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "visitor_http_requests_total"))
}

func TestNewRouter_UnknownVariant(t *testing.T) {
	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.Schema.Variant = "badge"
	_, err := app.NewRouter(cfg, sheet.NewMemoryStore(), nil, zap.NewNop())
	assert.Error(t, err)
}
