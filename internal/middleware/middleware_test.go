package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"family-hub/config"
	"family-hub/internal/model"
	"family-hub/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(mw Middleware, seen *Scope) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", mw.Profile(), mw.RateLimit(), func(c *gin.Context) {
		if sc, ok := GetScope(c); ok && seen != nil {
			*seen = sc
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func request(r *gin.Engine, headers map[string]string) int {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestProfile(t *testing.T) {
	mw := New(log.NewNop(), config.RateLimitConfig{PerMinute: 600, Burst: 100})

	t.Run("missing user", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request(newEngine(mw, nil), map[string]string{HeaderWorkspaceID: "w1"}))
	})

	t.Run("missing workspace", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request(newEngine(mw, nil), map[string]string{HeaderUserID: "u1"}))
	})

	t.Run("scope stored", func(t *testing.T) {
		var seen Scope
		code := request(newEngine(mw, &seen), map[string]string{
			HeaderUserID:      " u1 ",
			HeaderUserName:    "Ana",
			HeaderUserRole:    " CHILD",
			HeaderWorkspaceID: "w1",
			HeaderSessionID:   "s1",
		})

		require.Equal(t, http.StatusNoContent, code)
		assert.Equal(t, model.Profile{UserID: "u1", DisplayName: "Ana", Role: model.RoleChild}, seen.Profile())
		assert.Equal(t, "w1", seen.WorkspaceID)
		assert.Equal(t, "s1", seen.SessionID)
	})

	t.Run("unknown role passes through", func(t *testing.T) {
		var seen Scope
		code := request(newEngine(mw, &seen), map[string]string{HeaderUserID: "u1", HeaderWorkspaceID: "w1", HeaderUserRole: "guest"})

		require.Equal(t, http.StatusNoContent, code)
		assert.Equal(t, model.Role("guest"), seen.Role)
	})
}

func TestRateLimit(t *testing.T) {
	mw := New(log.NewNop(), config.RateLimitConfig{PerMinute: 1, Burst: 2, MaxClients: 10})
	r := newEngine(mw, nil)
	s1 := map[string]string{HeaderUserID: "u1", HeaderWorkspaceID: "w1", HeaderSessionID: "s1"}
	s2 := map[string]string{HeaderUserID: "u1", HeaderWorkspaceID: "w1", HeaderSessionID: "s2"}

	assert.Equal(t, http.StatusNoContent, request(r, s1))
	assert.Equal(t, http.StatusNoContent, request(r, s1))
	assert.Equal(t, http.StatusTooManyRequests, request(r, s1))
	assert.Equal(t, http.StatusNoContent, request(r, s2))
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := newRateLimiter(0, 0, 0)

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
	assert.True(t, rl.Allow("other"))
}
