package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, db Pinger) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/health", Handler(db))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthWithoutDatabase(t *testing.T) {
	code, resp := serve(t, nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "handbookqa", resp.Service)
	assert.Empty(t, resp.Database)
}

func TestHealthDatabaseOK(t *testing.T) {
	code, resp := serve(t, pingFunc(func(context.Context) error { return nil }))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Database)
}

func TestHealthDatabaseDown(t *testing.T) {
	code, resp := serve(t, pingFunc(func(context.Context) error { return errors.New("refused") }))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "unreachable", resp.Database)
}
