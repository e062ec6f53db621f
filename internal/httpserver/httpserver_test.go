package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"family-hub/config"
	"family-hub/internal/assistant"
	"family-hub/internal/middleware"
	"family-hub/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct{}

func (stubUseCase) Handle(ctx context.Context, in assistant.HandleInput) (assistant.HandleOutput, error) {
	return assistant.HandleOutput{TurnID: 1, Reply: "ok"}, nil
}

func (stubUseCase) EndSession(ctx context.Context, workspaceID, sessionID string) {}

func newTestServer(t *testing.T, checks map[string]ReadyCheck) *HTTPServer {
	t.Helper()
	l := log.NewNop()
	srv, err := New(l, Config{
		Logger:      l,
		Port:        8080,
		Mode:        gin.TestMode,
		Environment: "test",
		AssistantUC: stubUseCase{},
		Middleware:  middleware.New(l, config.RateLimitConfig{}),
		ReadyChecks: checks,
	})
	require.NoError(t, err)
	return srv
}

func get(srv *HTTPServer, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNew_Validate(t *testing.T) {
	l := log.NewNop()
	_, err := New(l, Config{Logger: l, Mode: gin.TestMode, AssistantUC: stubUseCase{}})
	assert.EqualError(t, err, "port is required")

	_, err = New(l, Config{Logger: l, Port: 1, Mode: gin.TestMode})
	assert.EqualError(t, err, "assistant use case is required")
}

func TestSystemRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/health", "/live", "/ready", "/metrics"} {
		assert.Equal(t, http.StatusOK, get(srv, path).Code, path)
	}
}

func TestReadyCheck(t *testing.T) {
	srv := newTestServer(t, map[string]ReadyCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	w := get(srv, "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"down"`)
	assert.Contains(t, w.Body.String(), `"postgres":"up"`)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestAssistantRoutesMounted(t *testing.T) {
	srv := newTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/assistant/sessions/s1", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
