package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { defaultLogger = previous })

	return &buf
}

func setupRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/v1/companies/:slug", handler)

	return router
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestMiddlewareAssignsRequestID(t *testing.T) {
	buf := captureLogs(t)

	router := setupRouter(func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("looking up company")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companies/acme", nil))

	requestID := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, requestID)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	assert.Equal(t, "looking up company", inner["msg"])
	assert.Equal(t, requestID, inner["request_id"])
	assert.Equal(t, "/api/v1/companies/acme", inner["path"])

	done := lastLine(t, buf)
	assert.Equal(t, "request completed", done["msg"])
	assert.Equal(t, "INFO", done["level"])
	assert.Equal(t, requestID, done["request_id"])
	assert.EqualValues(t, http.StatusOK, done["status"])
}

func TestMiddlewareKeepsIncomingRequestID(t *testing.T) {
	captureLogs(t)

	router := setupRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies/acme", nil)
	req.Header.Set(RequestIDHeader, "edge-1234")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "edge-1234", w.Header().Get(RequestIDHeader))
}

func TestMiddlewareLevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusNotFound, "WARN"},
		{http.StatusBadGateway, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := captureLogs(t)

			router := setupRouter(func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companies/acme", nil))

			assert.Equal(t, tt.level, lastLine(t, buf)["level"])
		})
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Same(t, Default(), FromContext(req.Context()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARNING ", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, parseLevel("error", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose", slog.LevelInfo))
}
