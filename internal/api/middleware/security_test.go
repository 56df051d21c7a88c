package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeadersOnAPI(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)

	SecurityHeaders(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
}

func TestSecurityHeadersOnServedFiles(t *testing.T) {
	for _, path := range []string{"/uploads/photo.jpg", "/documents/fee_1.pdf"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)

		SecurityHeaders(okHandler()).ServeHTTP(rec, req)

		assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "img-src 'self' data:", path)
	}
}

func TestMaxBodySizeRejectsOversized(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader("xxxxxxxxxx"))
	req.ContentLength = 10

	MaxBodySize(5)(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestValidateRequestContentTypes(t *testing.T) {
	cases := []struct {
		ct   string
		want int
	}{
		{"application/json", http.StatusOK},
		{"application/json; charset=utf-8", http.StatusOK},
		{"multipart/form-data; boundary=xyz", http.StatusOK},
		{"text/plain", http.StatusUnsupportedMediaType},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader("{}"))
		req.Header.Set("Content-Type", tc.ct)

		ValidateRequest(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, tc.ct)
	}
}

func TestValidateRequestBlocksSuspiciousPaths(t *testing.T) {
	for _, target := range []string{
		"/api/students/../../etc/passwd",
		"/api/students?q=<script>alert(1)</script>",
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)

		ValidateRequest(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/api/students/STU20260828120000-0001": "/api/students/:id",
		"/api/classrooms/CLS1/messages":        "/api/classrooms/:id",
		"/ws/classrooms/CLS1":                  "/ws/classrooms/:id",
		"/uploads/abc.jpg":                     "/uploads/:file",
		"/api/students":                        "/api/students",
		"/health":                              "/health",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizePath(in), in)
	}
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	assert.Equal(t, "10.0.0.1", RealIP(req))

	req.Header.Set("X-Real-IP", "1.2.3.4")
	assert.Equal(t, "1.2.3.4", RealIP(req))

	req.Header.Set("X-Forwarded-For", "5.6.7.8, 9.9.9.9")
	assert.Equal(t, "5.6.7.8", RealIP(req))
}

func TestFindLimitLongestPrefixWins(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{})

	req := httptest.NewRequest(http.MethodPost, "/api/enquiries", nil)
	limit := rl.findLimit(req)
	if assert.NotNil(t, limit) {
		assert.Equal(t, 20, limit.Requests) // the tight enquiry limit, not the generic POST one
	}

	req = httptest.NewRequest(http.MethodPost, "/api/students", nil)
	limit = rl.findLimit(req)
	if assert.NotNil(t, limit) {
		assert.Equal(t, 120, limit.Requests)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/students/1", nil)
	assert.Nil(t, rl.findLimit(req))
}
