package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/models"
	"github.com/shagor/portfolio-core/internal/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSkills struct {
	items []models.SkillModel
	err   error
	limit int
}

func (f *fakeSkills) TopByPercentage(limit int) ([]models.SkillModel, error) {
	f.limit = limit
	return f.items, f.err
}

type fakeWorks struct {
	items []models.WorkModel
	err   error
	limit int
}

func (f *fakeWorks) ListRecent(limit int) ([]models.WorkModel, error) {
	f.limit = limit
	return f.items, f.err
}

type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []CompletionRequest
}

func (f *fakeCompleter) Provider() string { return "fake" }
func (f *fakeCompleter) Model() string    { return "fake-1" }

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var errQuota = errors.New("429 You exceeded your current quota")

func newService(skills *fakeSkills, works *fakeWorks, completer Completer) *Service {
	opts := Options{MaxTokens: 300, Temperature: 0.7, Timeout: time.Second}
	return NewService(skills, works, completer, NewBreaker(0), NewResponder(fixedIntn(0)), opts, zap.NewNop(), metrics.New())
}

// ===========================================================================
// Service
// ===========================================================================

func TestReply_RemoteSuccess(t *testing.T) {
	skills := &fakeSkills{items: sampleSkills()}
	works := &fakeWorks{items: sampleWorks()}
	remote := &fakeCompleter{reply: "Remote answer"}
	svc := newService(skills, works, remote)

	history := []Turn{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}}
	out, err := svc.Reply(context.Background(), "  What do you build? ", history)
	require.NoError(t, err)
	assert.Equal(t, Reply{Response: "Remote answer", Success: true, Mode: ModeRemote}, out)

	require.Equal(t, 1, remote.callCount())
	req := remote.calls[0]
	assert.Equal(t, "What do you build?", req.Message)
	assert.Equal(t, history, req.History)
	assert.Equal(t, 300, req.MaxTokens)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Contains(t, req.System, "React (95% proficiency)")
	assert.Contains(t, req.System, "1. Shop (web)")
	assert.Equal(t, 15, skills.limit)
	assert.Equal(t, 10, works.limit)
}

func TestReply_EmptyRemoteReply(t *testing.T) {
	svc := newService(&fakeSkills{}, &fakeWorks{}, &fakeCompleter{reply: "  "})
	out, err := svc.Reply(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, emptyCompletionReply, out.Response)
	assert.Equal(t, ModeRemote, out.Mode)
}

func TestReply_QuotaDisablesRemoteForGood(t *testing.T) {
	remote := &fakeCompleter{err: errQuota}
	svc := newService(&fakeSkills{}, &fakeWorks{}, remote)

	for i := 0; i < 4; i++ {
		out, err := svc.Reply(context.Background(), "hello", nil)
		require.NoError(t, err)
		assert.Equal(t, ModeRuleBased, out.Mode)
		assert.True(t, out.Success)
	}
	assert.Equal(t, 1, remote.callCount())
	assert.Equal(t, StateOpen, svc.Status().Breaker)
	assert.Equal(t, ModeRuleBased, svc.Status().Mode)

	// a later success cannot happen until the breaker is reset
	remote.err = nil
	remote.reply = "back"
	out, _ := svc.Reply(context.Background(), "hello", nil)
	assert.Equal(t, ModeRuleBased, out.Mode)

	svc.breaker.Reset()
	out, _ = svc.Reply(context.Background(), "hello", nil)
	assert.Equal(t, ModeRemote, out.Mode)
}

func TestReply_OtherErrorsKeepRemoteEnabled(t *testing.T) {
	remote := &fakeCompleter{err: errors.New("connection reset")}
	svc := newService(&fakeSkills{}, &fakeWorks{}, remote)

	for i := 0; i < 3; i++ {
		out, err := svc.Reply(context.Background(), "hello", nil)
		require.NoError(t, err)
		assert.Equal(t, ModeRuleBased, out.Mode)
		assert.Equal(t, greetingReplies[0], out.Response)
	}
	assert.Equal(t, 3, remote.callCount())
	assert.Equal(t, StateClosed, svc.Status().Breaker)
}

func TestReply_NoProviderUsesRules(t *testing.T) {
	svc := newService(&fakeSkills{}, &fakeWorks{}, nil)
	out, err := svc.Reply(context.Background(), "What skills do you have?", nil)
	require.NoError(t, err)
	assert.Equal(t, ModeRuleBased, out.Mode)
	assert.Equal(t, noSkillsReply, out.Response)

	st := svc.Status()
	assert.False(t, st.RemoteConfigured)
	assert.Empty(t, st.Provider)
}

func TestReply_ContextFailuresAreTolerated(t *testing.T) {
	skills := &fakeSkills{err: errors.New("db down")}
	works := &fakeWorks{err: errors.New("db down")}
	svc := newService(skills, works, nil)

	out, err := svc.Reply(context.Background(), "skills", nil)
	require.NoError(t, err)
	assert.Equal(t, noSkillsReply, out.Response)
}

func TestReply_RejectsBlankMessage(t *testing.T) {
	svc := newService(&fakeSkills{}, &fakeWorks{}, nil)
	_, err := svc.Reply(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, errMessageRequired)
}

// ===========================================================================
// HTTP
// ===========================================================================

func newRouter(svc *Service) *gin.Engine {
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"), nil)
	return r
}

func postChat(r http.Handler, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHTTP_Chat(t *testing.T) {
	r := newRouter(newService(&fakeSkills{}, &fakeWorks{}, nil))

	w := postChat(r, map[string]interface{}{
		"message":             "hello",
		"conversationHistory": []Turn{{Role: "user", Content: "earlier"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var out Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, Reply{Response: greetingReplies[0], Success: true, Mode: ModeRuleBased}, out)
}

func TestHTTP_ChatValidation(t *testing.T) {
	r := newRouter(newService(&fakeSkills{}, &fakeWorks{}, nil))

	for _, body := range []interface{}{
		map[string]interface{}{},
		map[string]interface{}{"message": "  "},
		map[string]interface{}{"message": 42},
	} {
		w := postChat(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Message is required")
	}
}

func TestHTTP_Status(t *testing.T) {
	svc := newService(&fakeSkills{}, &fakeWorks{}, &fakeCompleter{reply: "x"})
	r := newRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chatbot/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"remoteConfigured":true,"provider":"fake","model":"fake-1","breaker":"closed","mode":"remote"}`, w.Body.String())
}
