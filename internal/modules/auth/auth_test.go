package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/database/dbtest"
	"github.com/shagor/portfolio-core/internal/middleware"
	"github.com/shagor/portfolio-core/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	jwt.SetSecret("auth-test-secret")
}

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	db := dbtest.Open(t)
	svc := NewService(db, nil)
	svc.cost = bcrypt.MinCost

	r := gin.New()
	noop := func(c *gin.Context) { c.Next() }
	NewHandler(svc).RegisterRoutes(r.Group("/api"), middleware.Auth(db), noop)
	return r, svc
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorText(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	s, _ := body["error"].(string)
	return s
}

// =============================================================================
// Service
// =============================================================================

func TestService_RegisterNormalizesEmail(t *testing.T) {
	_, svc := newTestRouter(t)

	a, err := svc.Register(&RegisterDTO{Email: "  Owner@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", a.Email)
	assert.NotEqual(t, "secret1", a.Password)

	_, err = svc.Register(&RegisterDTO{Email: "OWNER@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrAdminExists)
}

func TestService_RegisterValidation(t *testing.T) {
	_, svc := newTestRouter(t)

	_, err := svc.Register(&RegisterDTO{Email: "nope", Password: "secret1"})
	assert.ErrorIs(t, err, errEmailInvalid)

	_, err = svc.Register(&RegisterDTO{Email: "a@b.co", Password: "12345"})
	assert.ErrorIs(t, err, errPasswordTooShort)
}

func TestService_LoginSameErrorForUnknownAndWrongPassword(t *testing.T) {
	_, svc := newTestRouter(t)
	_, err := svc.Register(&RegisterDTO{Email: "owner@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, errUnknown := svc.Login("ghost@example.com", "secret1", "")
	_, _, errWrong := svc.Login("owner@example.com", "wrong-pass", "")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())

	token, a, err := svc.Login("OWNER@example.com", "secret1", "127.0.0.1")
	require.NoError(t, err)
	claims, err := jwt.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, claims.AdminID)
	assert.NotNil(t, a.LastLoginTime)
}

func TestService_SetPassword(t *testing.T) {
	_, svc := newTestRouter(t)
	_, err := svc.Register(&RegisterDTO{Email: "owner@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.SetPassword("owner@example.com", "another1"))
	_, _, err = svc.Login("owner@example.com", "another1", "")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.SetPassword("ghost@example.com", "another1"), ErrInvalidCredentials)
}

func TestService_LoginSurvivesBookkeepingFailure(t *testing.T) {
	db := dbtest.Open(t)
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(db, zap.New(core))
	svc.cost = bcrypt.MinCost
	_, err := svc.Register(&RegisterDTO{Email: "owner@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("disk full"))
	}))

	token, _, err := svc.Login("owner@example.com", "secret1", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	entries := logs.FilterMessage("record last login failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "disk full")
}

// =============================================================================
// HTTP
// =============================================================================

func TestHTTP_RegisterLoginMe(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/api/auth/register", gin.H{"email": "Owner@Example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var reg registerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.Equal(t, "owner@example.com", reg.Admin.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = postJSON(r, "/api/auth/login", gin.H{"email": "owner@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "owner@example.com")
}

func TestHTTP_RegisterErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/api/auth/register", gin.H{"email": "owner@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", errorText(t, w))

	w = postJSON(r, "/api/auth/register", gin.H{"email": "bad-address", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid email format", errorText(t, w))

	w = postJSON(r, "/api/auth/register", gin.H{"email": "owner@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password must be at least 6 characters long", errorText(t, w))

	require.Equal(t, http.StatusCreated, postJSON(r, "/api/auth/setup", gin.H{"email": "owner@example.com", "password": "secret1"}).Code)
	w = postJSON(r, "/api/auth/register", gin.H{"email": "OWNER@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHTTP_LoginInvalid(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/api/auth/login", gin.H{"email": "ghost@example.com", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorText(t, w))

	w = postJSON(r, "/api/auth/login", gin.H{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTP_MeRequiresToken(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
