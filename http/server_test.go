package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodHead, "/", http.StatusOK},
		{http.MethodPut, "/", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/moves", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	rec := get(srv)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "gravatar.com")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCSRFProtection(t *testing.T) {
	cfg := testConfig()
	cfg.CSRFKey = strings.Repeat("k", 32)
	srv, st := newTestServer(t, cfg)

	form := url.Values{"name": {"Ana"}, "email": {"ana@x.com"}, "move": {"e4"}}

	rec := post(srv, form)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, listAll(t, st))

	page := get(srv)
	match := regexp.MustCompile(`name="csrf_token" value="([^"]+)"`).FindStringSubmatch(page.Body.String())
	require.Len(t, match, 2)
	form.Set("csrf_token", match[1])

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range page.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgRecorded)
	assert.Len(t, listAll(t, st), 1)
}

func TestCSRFFieldAbsentWhenDisabled(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	assert.NotContains(t, get(srv).Body.String(), "csrf_token")
}

func TestMetricsServer(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())
	post(srv, url.Values{"name": {"Ana"}, "email": {"ana@x.com"}, "move": {"e4"}})

	metrics := httptest.NewServer(srv.GetMetricsServer(":0").Handler)
	defer metrics.Close()

	resp, err := http.Get(metrics.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `moves_submissions_total{outcome="recorded"} 1`)
	assert.Contains(t, string(body), "moves_http_request_duration_seconds")
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"10.1.2.3:5555", "10.1.2.3"},
		{"[::1]:8080", "::1"},
		{"unix-socket", "unix-socket"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		assert.Equal(t, tt.want, clientIP(req))
	}
}
