package logutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	got := GetOrDefault(ctx)
	got.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)

	// no logger in context falls back to the global one without panicking
	fallback := GetOrDefault(context.Background())
	fallback.Debug().Msg("ignored")
}

func TestNewParsesLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("debug", false).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, New("WARN", false).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("nonsense", false).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("", false).GetLevel())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	var sawLogger bool
	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := GetOrDefault(r.Context())
		l.Debug().Msg("inside handler")
		sawLogger = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, sawLogger)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	last := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &last))
	assert.Equal(t, "request completed", last["message"])
	assert.Equal(t, "GET", last["http.method"])
	assert.Equal(t, "/movies", last["http.path"])
	assert.EqualValues(t, http.StatusTeapot, last["http.status"])
}
