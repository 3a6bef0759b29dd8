package middleware

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

func TestLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := gin.New()
	r.Use(NewLogging(logger, WithIgnorePath([]string{"/liveness"})))
	r.GET("/liveness", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/session", func(c *gin.Context) {
		c.Header("X-Session-ID", "sess_abc")
		c.Status(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/liveness", nil))
	assert.Zero(t, buf.Len(), "ignored paths are not logged")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/session", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET /session", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, "sess_abc", line["session_id"])
}

func TestLogging_DefaultLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r := gin.New()
	r.Use(NewLogging(logger, WithDefaultLevel(slog.LevelDebug)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, buf.Len(), "successful requests are logged below the logger level")
}
