package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/database/dbtest"
	"github.com/shagor/portfolio-core/internal/models"
	"github.com/shagor/portfolio-core/internal/pkg/mail"
	"github.com/shagor/portfolio-core/internal/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRelay struct {
	configured bool
	err        error
	sent       []mail.Message
}

func (f *fakeRelay) Configured() bool { return f.configured }

func (f *fakeRelay) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fixture struct {
	svc    *Service
	relay  *fakeRelay
	router *gin.Engine
	authed bool
}

func newFixture(t *testing.T, relay *fakeRelay) *fixture {
	t.Helper()
	f := &fixture{relay: relay}
	f.svc = NewService(dbtest.Open(t), relay, "owner@example.com", zap.NewNop(), metrics.New())

	auth := func(c *gin.Context) {
		if !f.authed {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
	f.router = gin.New()
	NewHandler(f.svc).RegisterRoutes(f.router.Group("/api"), auth, nil)
	return f
}

func (f *fixture) post(body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func validBody() map[string]string {
	return map[string]string{
		"name":    "Ada",
		"email":   "Ada@Example.COM",
		"subject": "Hi",
		"message": "Let's build something.",
	}
}

func storedMessages(t *testing.T, f *fixture) []models.ContactModel {
	t.Helper()
	items, err := f.svc.List()
	require.NoError(t, err)
	return items
}

// ===========================================================================
// Send
// ===========================================================================

func TestSend_RelaysWithReplyTo(t *testing.T) {
	f := newFixture(t, &fakeRelay{configured: true})

	w := f.post(validBody())
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Message sent successfully! We will get back to you soon.","success":true}`, w.Body.String())

	require.Len(t, f.relay.sent, 1)
	sent := f.relay.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, sent.To)
	assert.Equal(t, "ada@example.com", sent.ReplyTo)
	assert.Equal(t, "Portfolio Contact: Hi", sent.Subject)
	assert.Contains(t, sent.Text, "Let's build something.")
	assert.NotEmpty(t, sent.HTML)

	items := storedMessages(t, f)
	require.Len(t, items, 1)
	assert.Equal(t, "ada@example.com", items[0].Email)
}

func TestSend_UnconfiguredStillStores(t *testing.T) {
	f := newFixture(t, &fakeRelay{configured: false})

	w := f.post(validBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Email service not configured. Please contact the administrator.")
	assert.Len(t, storedMessages(t, f), 1)
}

func TestSend_RelayFailureStillStores(t *testing.T) {
	f := newFixture(t, &fakeRelay{configured: true, err: errors.New("535 auth failed")})

	w := f.post(validBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to send message. Please try again later.")
	assert.NotContains(t, w.Body.String(), "535")
	assert.Len(t, storedMessages(t, f), 1)
}

func TestSend_ServiceErrorsCarryRecord(t *testing.T) {
	f := newFixture(t, &fakeRelay{configured: false})
	rec, err := f.svc.Send(context.Background(), &SendDTO{Name: "A", Email: "a@b.co", Subject: "s", Message: "m"})
	require.NotNil(t, rec)
	assert.ErrorIs(t, err, ErrEmailUnavailable)
	assert.ErrorIs(t, err, mail.ErrNotConfigured)
}

func TestSend_Validation(t *testing.T) {
	f := newFixture(t, &fakeRelay{configured: true})

	missing := validBody()
	delete(missing, "subject")
	w := f.post(missing)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name, email, subject, and message are required")

	bad := validBody()
	bad["email"] = "not-an-email"
	w = f.post(bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email format")

	blank := validBody()
	blank["name"] = "   "
	w = f.post(blank)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, storedMessages(t, f))
	assert.Empty(t, f.relay.sent)
}

// ===========================================================================
// List
// ===========================================================================

func TestList_RequiresAuth(t *testing.T) {
	f := newFixture(t, &fakeRelay{configured: true})
	f.post(validBody())

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	f.authed = true
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.ContactModel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}
