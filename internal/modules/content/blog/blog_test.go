package blog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shagor/portfolio-core/internal/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	svc := NewService(dbtest.Open(t))
	svc.now = func() time.Time { return time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC) }
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"), func(c *gin.Context) { c.Next() })
	return r, svc
}

func send(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate_Defaults(t *testing.T) {
	_, svc := newTestRouter(t)
	b, err := svc.Create(&CreateBlogDTO{Title: "Hello", Category: "go", Excerpt: "short"})
	require.NoError(t, err)
	assert.Equal(t, "5 min read", b.ReadTime)
	assert.Equal(t, "Mar 5, 2024", b.Date)
	assert.Equal(t, "gradient-1", b.Image)
}

func TestCreate_RequiresExcerpt(t *testing.T) {
	_, svc := newTestRouter(t)
	_, err := svc.Create(&CreateBlogDTO{Title: "Hello", Category: "go"})
	assert.ErrorIs(t, err, errBlogRequired)
}

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("First paragraph.\n\nSecond *one*.\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, html, "<p>First paragraph.</p>")
	assert.Contains(t, html, "<em>one</em>")
	assert.NotContains(t, html, "<script>")

	empty, err := RenderMarkdown("")
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestHTTP_DetailCarriesRenderedContent(t *testing.T) {
	r, _ := newTestRouter(t)
	created := send(r, http.MethodPost, "/api/blog", map[string]string{
		"title": "Post", "category": "go", "excerpt": "e", "content": "a\n\nb",
	})
	require.Equal(t, http.StatusCreated, created.Code)
	var b blogResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &b))
	assert.Empty(t, b.ContentHTML)

	got := send(r, http.MethodGet, "/api/blog/"+b.ID, nil)
	require.Equal(t, http.StatusOK, got.Code)
	var detail blogResponse
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &detail))
	assert.Equal(t, "<p>a</p>\n<p>b</p>\n", detail.ContentHTML)
	assert.Equal(t, "a\n\nb", detail.Content)
}

func TestHTTP_UpdateAndDelete(t *testing.T) {
	r, _ := newTestRouter(t)
	created := send(r, http.MethodPost, "/api/blog", map[string]string{"title": "P", "category": "c", "excerpt": "e", "image": "cover.png"})
	var b blogResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &b))

	w := send(r, http.MethodPut, "/api/blog/"+b.ID, map[string]string{"image": ""})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"image":""`)

	w = send(r, http.MethodPut, "/api/blog/"+b.ID, map[string]string{"excerpt": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, send(r, http.MethodDelete, "/api/blog/"+b.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodDelete, "/api/blog/"+b.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/api/blog/"+b.ID, nil).Code)
}

func TestHTTP_MissingFields(t *testing.T) {
	r, _ := newTestRouter(t)
	w := send(r, http.MethodPost, "/api/blog", map[string]string{"title": "P"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title, category, and excerpt are required")
}

func TestHTTP_EmptyList(t *testing.T) {
	r, _ := newTestRouter(t)
	w := send(r, http.MethodGet, "/api/blog", nil)
	assert.JSONEq(t, "[]", w.Body.String())
}
