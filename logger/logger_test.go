package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/sessions/:id", func(ctx *gin.Context) { ctx.Status(http.StatusNotFound) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/ABC123", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/sessions/:id", line["path"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, "request", line["message"])
}

func TestSetup(t *testing.T) {
	previous, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(level)
	})

	Setup(false, false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	Setup(true, true)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
