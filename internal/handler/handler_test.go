package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herevemarket/admin_console/internal/cache"
	"github.com/herevemarket/admin_console/internal/middleware"
	"github.com/herevemarket/admin_console/internal/service"
	"github.com/herevemarket/admin_console/internal/session"
	"github.com/herevemarket/admin_console/internal/view"
	"github.com/herevemarket/admin_console/pkg/marketapi"
)

const testSessionID = "3f1c9f8e-3c52-4d35-9a43-0d1f2a6b7c80"

// fakeAPI is a minimal market API.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []string
	status map[string]int
}

func (f *fakeAPI) called(route string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == route {
			return true
		}
	}
	return false
}

func (f *fakeAPI) fail(route string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[route] = code
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	route := r.Method + " " + r.URL.Path
	f.calls = append(f.calls, route)
	if code, ok := f.status[route]; ok {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch route {
	case "POST /admin/login":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"token":"tok"}`)
	case "GET /orders":
		_, _ = io.WriteString(w, `[{"_id":"o1","createdAt":"2026-03-01T10:00:00Z","customer":{"title":"Ayşe"},"items":[{"name":"Ayran","quantity":1}],"totalPrice":10,"status":"pending"}]`)
	case "GET /categories":
		_, _ = io.WriteString(w, `[{"_id":"c1","name":"Süt","isActive":true}]`)
	case "GET /admin/api/products":
		_, _ = io.WriteString(w, `{"data":[{"_id":"p1","name":"Ayran","price":12.5,"stock":3,"category":["Süt"],"isActive":true}],"pagination":{"page":1,"totalPages":1,"total":1}}`)
	case "PUT /admin/api/products/p1":
		_, _ = io.WriteString(w, `{"_id":"p1","name":"Ayran","price":12.5,"stock":7,"brand":"Sütaş","category":["Süt"],"isActive":true}`)
	default:
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	}
}

type testEnv struct {
	router *gin.Engine
	api    *fakeAPI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &fakeAPI{status: map[string]int{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	client := marketapi.NewClient(marketapi.Config{BaseURL: srv.URL})

	states := cache.NewMemoryStateStore(time.Hour)
	renderer, err := view.NewRenderer(time.UTC)
	require.NoError(t, err)
	sessions := session.NewManager(false, states)
	pages := &Pages{Renderer: renderer, Sessions: sessions}

	orders := NewOrdersHandler(pages, service.NewOrdersService(client, nil, states), states)
	products := NewProductsHandler(pages, service.NewProductsService(client, nil, states), states)
	auth := NewAuthHandler(pages, service.NewAuthService(client), middleware.NewInvalidLoginRateLimiter(2, time.Minute))
	authMw := middleware.NewAuthMiddleware(sessions)

	r := gin.New()
	r.GET("/healthz", NewHealthHandler(client, "test").GetHealth)
	r.GET("/admin/login", authMw.RedirectIfAuthenticated(), auth.LoginPage)
	r.POST("/admin/login", authMw.RedirectIfAuthenticated(), auth.Login)
	r.POST("/admin/logout", auth.Logout)
	admin := r.Group("/admin", authMw.RequireAuth())
	admin.GET("/orders", orders.List)
	admin.POST("/orders/:id/delete", orders.Delete)
	admin.GET("/products", products.List)
	admin.POST("/products/:id/quick-save", products.QuickSave)
	admin.POST("/products/:id/delete", products.Delete)
	admin.GET("/products/:id/edit", products.Edit)
	admin.POST("/products/edit/close", products.CloseEditor)

	return &testEnv{router: r, api: api}
}

func (e *testEnv) do(method, target string, form url.Values, authed bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: session.IDCookie, Value: testSessionID})
	if authed {
		req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: "tok"})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func cookieValue(w *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestPagesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/admin/orders", nil, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, session.LoginPath, w.Header().Get("Location"))
	assert.False(t, env.api.called("GET /orders"))
}

func TestOrdersListAndDelete(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/admin/orders", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ayşe")
	assert.Contains(t, w.Body.String(), `action="/admin/orders/o1/delete"`)

	w = env.do(http.MethodPost, "/admin/orders/o1/delete", url.Values{}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sipariş silinsin mi?")
	assert.False(t, env.api.called("DELETE /admin/api/orders/o1"))

	w = env.do(http.MethodPost, "/admin/orders/o1/delete", url.Values{"confirm": {"yes"}}, true)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/orders?keep=1", w.Header().Get("Location"))
	assert.True(t, env.api.called("DELETE /admin/api/orders/o1"))
}

func TestOrdersDeleteDeclined(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/admin/orders", nil, true)

	w := env.do(http.MethodPost, "/admin/orders/o1/delete", url.Values{"confirm": {"no"}}, true)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.False(t, env.api.called("DELETE /admin/api/orders/o1"))
}

func TestUnauthorizedLogsOut(t *testing.T) {
	env := newTestEnv(t)
	env.api.fail("GET /orders", http.StatusUnauthorized)

	w := env.do(http.MethodGet, "/admin/orders", nil, true)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, session.LoginPath, w.Header().Get("Location"))
	token, ok := cookieValue(w, session.TokenCookie)
	assert.True(t, ok)
	assert.Empty(t, token)
}

func TestProductsQuickSave(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/admin/products", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ayran")
	assert.Contains(t, w.Body.String(), "Page 1 / 1")

	w = env.do(http.MethodPost, "/admin/products/p1/quick-save",
		url.Values{"brand": {"Sütaş"}, "barcode": {""}, "stock": {"7"}}, true)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, env.api.called("PUT /admin/api/products/p1"))

	w = env.do(http.MethodGet, "/admin/products?keep=1", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kaydedildi ✓")
	assert.Contains(t, w.Body.String(), `value="Sütaş"`)
}

func TestProductsQuickSaveUnknownID(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/admin/products", nil, true)

	w := env.do(http.MethodPost, "/admin/products/zzz/quick-save", url.Values{"stock": {"1"}}, true)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.False(t, env.api.called("PUT /admin/api/products/zzz"))

	w = env.do(http.MethodGet, "/admin/products?keep=1", nil, true)
	assert.Contains(t, w.Body.String(), `role="alert"`)
}

func TestProductsEditPanel(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/admin/products", nil, true)

	w := env.do(http.MethodGet, "/admin/products/p1/edit", nil, true)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = env.do(http.MethodGet, "/admin/products?keep=1", nil, true)
	assert.Contains(t, w.Body.String(), "Düzenle: Ayran")

	env.do(http.MethodPost, "/admin/products/edit/close", url.Values{}, true)
	w = env.do(http.MethodGet, "/admin/products?keep=1", nil, true)
	assert.NotContains(t, w.Body.String(), "Düzenle:")
}

func TestProductsDeleteAsksFirst(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/admin/products", nil, true)

	w := env.do(http.MethodPost, "/admin/products/p1/delete", url.Values{}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="confirm" value="yes"`)
	assert.False(t, env.api.called("DELETE /admin/api/products/p1"))

	w = env.do(http.MethodPost, "/admin/products/p1/delete", url.Values{"confirm": {"yes"}}, true)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, env.api.called("DELETE /admin/api/products/p1"))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/admin/login", url.Values{"email": {"Admin@Hereve.com"}, "password": {"secret"}}, false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, session.LandingPath, w.Header().Get("Location"))
	token, ok := cookieValue(w, session.TokenCookie)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t)
	bad := url.Values{"email": {"admin@hereve.com"}, "password": {"wrong"}}

	for i := 0; i < 2; i++ {
		w := env.do(http.MethodPost, "/admin/login", bad, false)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), loginInvalid)
	}

	w := env.do(http.MethodPost, "/admin/login", bad, false)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/admin/login", nil, true)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, session.LandingPath, w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	env.api.fail("GET /categories", http.StatusBadGateway)
	w = env.do(http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
