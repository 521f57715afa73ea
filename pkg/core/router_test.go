package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joeydtaylor/flint-core/pkg/funcs"
	"github.com/joeydtaylor/flint-core/pkg/manifest"
	"github.com/joeydtaylor/flint-core/pkg/middleware/auth"
	"github.com/joeydtaylor/flint-core/pkg/middleware/metrics"
	"github.com/joeydtaylor/flint-core/pkg/transport/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestRouter(t *testing.T, cfg manifest.Config, reg *Registry, a *auth.Middleware) http.Handler {
	t.Helper()
	require.NoError(t, cfg.Validate())
	return BuildRouter(cfg, BuildDeps{
		Auth:     a,
		Metrics:  metrics.NewPromHttpHandler(),
		Router:   httpx.NewChi(),
		Registry: reg,
	})
}

func TestBuildRouter_MountsFunctions(t *testing.T) {
	reg := NewRegistry()
	reg.Register("echo", funcs.WrapHTTP(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("echo:" + r.URL.Path))
	}))

	h := buildTestRouter(t, manifest.Config{
		Functions: []manifest.Function{
			{Name: "echo", Path: "/echo", Method: "POST"},
		},
	}, reg, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("x")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "echo:/echo", rec.Body.String())
}

func TestBuildRouter_UnknownFunctionReturns500(t *testing.T) {
	h := buildTestRouter(t, manifest.Config{
		Functions: []manifest.Function{
			{Name: "ghost", Path: "/ghost", Method: "GET"},
		},
	}, NewRegistry(), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ghost", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "function not found")
}

func TestBuildRouter_CrashSetsStatusHeader(t *testing.T) {
	reg := NewRegistry()
	reg.Register("faulty", funcs.WrapHTTP(func(http.ResponseWriter, *http.Request) {
		panic("nope")
	}))

	h := buildTestRouter(t, manifest.Config{
		Functions: []manifest.Function{
			{Name: "faulty", Path: "/faulty", Method: "GET"},
		},
	}, reg, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/faulty", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "crash", rec.Header().Get("X-Google-Status"))
}

func TestBuildRouter_HeartbeatAndMetrics(t *testing.T) {
	h := buildTestRouter(t, manifest.Config{}, NewRegistry(), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRouter_GuardedRoute(t *testing.T) {
	reg := NewRegistry()
	reg.Register("admin", funcs.WrapHTTP(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("secret"))
	}))
	cfg := manifest.Config{
		Functions: []manifest.Function{
			{Name: "admin", Path: "/admin", Method: "GET", Guard: manifest.Guard{RequireAuth: true}},
		},
	}

	secret := []byte("test-secret")
	h := buildTestRouter(t, cfg, reg, auth.NewWithSecret(secret))

	// Without a token: rejected.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// With a platform-minted token: allowed.
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "platform",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "secret", rec.Body.String())
}

func TestBuildRouter_GuardWithoutAuthMiddlewareFailsClosed(t *testing.T) {
	reg := NewRegistry()
	reg.Register("admin", namedFn("secret"))

	h := buildTestRouter(t, manifest.Config{
		Functions: []manifest.Function{
			{Name: "admin", Path: "/admin", Method: "GET", Guard: manifest.Guard{RequireAuth: true}},
		},
	}, reg, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
