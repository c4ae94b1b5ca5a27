package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"treefs/internal/core"
	"treefs/internal/server/config"
	"treefs/internal/server/service"

	jmerrors "github.com/jmgilman/go/errors"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e   *echo.Echo
	svc *service.TreeService
}

func newTestServer(t *testing.T, password string) *testServer {
	t.Helper()
	cfg := &config.Config{RateLimitRPS: 1000, RateLimitBurst: 1000, AdminPassword: password}
	auth, err := NewAdminAuth(cfg.AdminPassword)
	require.NoError(t, err)

	svc := service.NewTreeService(core.New())
	e, limiter := SetupRouter(NewHandler(svc), cfg, auth)
	t.Cleanup(limiter.Stop)
	return &testServer{e: e, svc: svc}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestCreateListAndTree(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/api/entries", `{"name":"docs","kind":"dir"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[core.Entry](t, rec)
	assert.Equal(t, "/docs", created.Path)
	assert.Equal(t, "dir", created.Kind)

	rec = s.do(t, http.MethodPost, "/api/entries", `{"dir":"/docs","name":"a.txt","kind":"file"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/ls?dir=/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	listing := decode[service.Listing](t, rec)
	assert.Equal(t, "/docs", listing.Path)
	require.Len(t, listing.Entries, 1)
	assert.Equal(t, "a.txt", listing.Entries[0].Name)

	rec = s.do(t, http.MethodGet, "/api/tree", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "* root/\n  * docs/\n    a.txt\n", rec.Body.String())
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodPost, "/api/entries", `{"name":"a","kind":"dir"}`)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   jmerrors.ErrorCode
	}{
		{"duplicate name", http.MethodPost, "/api/entries", `{"name":"a","kind":"file"}`, http.StatusConflict, jmerrors.CodeAlreadyExists},
		{"bad kind", http.MethodPost, "/api/entries", `{"name":"b","kind":"link"}`, http.StatusBadRequest, jmerrors.CodeInvalidInput},
		{"bad name", http.MethodPost, "/api/entries", `{"name":"","kind":"file"}`, http.StatusBadRequest, jmerrors.CodeInvalidInput},
		{"missing directory", http.MethodPost, "/api/cd", `{"path":"/nope"}`, http.StatusNotFound, jmerrors.CodeNotFound},
		{"relative path", http.MethodGet, "/api/stat?path=a", "", http.StatusBadRequest, jmerrors.CodeInvalidInput},
		{"delete missing", http.MethodDelete, "/api/entries/zzz", "", http.StatusNotFound, jmerrors.CodeNotFound},
		{"find miss", http.MethodGet, "/api/find?name=zzz", "", http.StatusNotFound, jmerrors.CodeNotFound},
		{"bad sort order", http.MethodPost, "/api/sort", `{"order":"size"}`, http.StatusBadRequest, jmerrors.CodeInvalidInput},
		{"bad glob", http.MethodGet, "/api/glob?pattern=", "", http.StatusBadRequest, jmerrors.CodeInvalidInput},
		{"malformed body", http.MethodPost, "/api/move", `{"name":`, http.StatusBadRequest, jmerrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decode[jmerrors.ErrorResponse](t, rec)
			assert.Equal(t, string(tt.code), body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}

	t.Run("validation cause is in the message", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/stat?path=a", "")
		body := decode[jmerrors.ErrorResponse](t, rec)
		assert.Equal(t, `invalid argument "a": path must start with /`, body.Message)
	})
}

func TestMoveAndFind(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodPost, "/api/entries", `{"name":"src","kind":"dir"}`)
	s.do(t, http.MethodPost, "/api/entries", `{"name":"dst","kind":"dir"}`)
	s.do(t, http.MethodPost, "/api/entries", `{"dir":"/src","name":"f.txt","kind":"file"}`)

	rec := s.do(t, http.MethodPost, "/api/move", `{"dir":"/src","name":"f.txt","destination":"/dst"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/dst/f.txt", decode[core.Entry](t, rec).Path)

	rec = s.do(t, http.MethodGet, "/api/find?name=f.txt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/dst/f.txt", decode[core.Entry](t, rec).Path)

	rec = s.do(t, http.MethodGet, "/api/glob?pattern=**/*.txt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	globbed := decode[map[string][]core.Entry](t, rec)
	require.Len(t, globbed["entries"], 1)
	assert.Equal(t, "/dst/f.txt", globbed["entries"][0].Path)
}

func TestCursorRoutes(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodPost, "/api/entries", `{"name":"a","kind":"dir"}`)

	rec := s.do(t, http.MethodPost, "/api/cd", `{"path":"/a"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/pwd", "")
	assert.Equal(t, "/a", decode[map[string]string](t, rec)["path"])

	// Without a dir the cursor is used.
	rec = s.do(t, http.MethodPost, "/api/entries", `{"name":"inner","kind":"file"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/a/inner", decode[core.Entry](t, rec).Path)

	rec = s.do(t, http.MethodDelete, "/api/entries/inner", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSnapshotAndStats(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodPost, "/api/entries", `{"name":"a","kind":"dir"}`)
	s.do(t, http.MethodPost, "/api/entries", `{"name":"f","kind":"file"}`)

	rec := s.do(t, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode[core.Snapshot](t, rec)
	assert.Len(t, snapshot.Entries, 3)
	assert.Equal(t, "/", snapshot.Current)

	rec = s.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[service.Stats](t, rec)
	assert.Equal(t, 2, stats.Directories)
	assert.Equal(t, 1, stats.Files)
}

func TestSort(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodPost, "/api/entries", `{"name":"b","kind":"file"}`)
	s.do(t, http.MethodPost, "/api/entries", `{"name":"a","kind":"file"}`)

	rec := s.do(t, http.MethodPost, "/api/sort", `{"order":"name"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	listing := decode[service.Listing](t, s.do(t, http.MethodGet, "/api/ls", ""))
	require.Len(t, listing.Entries, 2)
	assert.Equal(t, "a", listing.Entries[0].Name)
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t, "")
	s.do(t, http.MethodGet, "/health", "")

	rec := s.do(t, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "treefs_http_requests_total")
}

func TestAdminAuth(t *testing.T) {
	s := newTestServer(t, "secret")

	t.Run("queries stay open", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/ls", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("mutation without credentials", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/entries", `{"name":"a","kind":"dir"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("mutation with wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(`{"name":"a","kind":"dir"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.SetBasicAuth(AdminUser, "wrong")
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("mutation with credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(`{"name":"a","kind":"dir"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.SetBasicAuth(AdminUser, "secret")
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}

func TestNewAdminAuth(t *testing.T) {
	disabled, err := NewAdminAuth("")
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())

	enabled, err := NewAdminAuth("pw")
	require.NoError(t, err)
	assert.True(t, enabled.Enabled())
	assert.NotEqual(t, "pw", string(enabled.hash))
}
