package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/database/dbtest"
	"github.com/shagor/portfolio-core/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubRelay struct {
	configured bool
	sent       []mail.Message
}

func (s *stubRelay) Configured() bool { return s.configured }

func (s *stubRelay) Send(_ context.Context, msg mail.Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

func newRouter(deps Deps) *gin.Engine {
	r := gin.New()
	NewHandler(deps).RegisterRoutes(r, r.Group("/api"), func(c *gin.Context) { c.Next() })
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestBanner(t *testing.T) {
	w := get(newRouter(Deps{}), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Portfolio API is running")
}

func TestHealth(t *testing.T) {
	r := newRouter(Deps{DB: dbtest.Open(t), Redis: stubPinger{err: errors.New("down")}})
	w := get(r, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Server is running", body["message"])
	assert.Equal(t, true, body["database"])
	assert.Equal(t, false, body["redis"])
}

func TestHealth_WithoutDatabase(t *testing.T) {
	w := get(newRouter(Deps{}), "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

func TestTestMail(t *testing.T) {
	relay := &stubRelay{configured: true}
	r := newRouter(Deps{Mail: relay, Recipient: "owner@example.com"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health/email/test", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, relay.sent, 1)
	assert.Equal(t, []string{"owner@example.com"}, relay.sent[0].To)

	r = newRouter(Deps{Mail: &stubRelay{}})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health/email/test", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stdout_1-2-24.log"), []byte("line\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	r := newRouter(Deps{LogDir: dir})

	w := get(r, "/api/health/log/list")
	require.Equal(t, http.StatusOK, w.Code)
	var items []logItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "stdout_1-2-24.log", items[0].Filename)

	w = get(r, "/api/health/log?filename=stdout_1-2-24.log")
	assert.Equal(t, "line\n", w.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/health/log?filename=../../etc/passwd").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/health/log?filename=missing.log").Code)
}
