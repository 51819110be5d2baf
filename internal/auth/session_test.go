// internal/auth/session_test.go
package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/common/logger"
)

func newSessionFixture(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewSessionStore(rdb, 60), mr
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	sessions, _ := newSessionFixture(t)

	created, err := sessions.Create(context.Background(), "user-1", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)

	got, err := sessions.Get(context.Background(), created.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestSessionStore_UnknownToken(t *testing.T) {
	sessions, _ := newSessionFixture(t)

	_, err := sessions.Get(context.Background(), "no-such-token")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStore_ExpiredToken(t *testing.T) {
	sessions, mr := newSessionFixture(t)

	created, err := sessions.Create(context.Background(), "user-1", "alice@example.com")
	require.NoError(t, err)

	mr.FastForward(61 * time.Minute)

	_, err = sessions.Get(context.Background(), created.Token)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStore_Delete(t *testing.T) {
	sessions, _ := newSessionFixture(t)

	created, err := sessions.Create(context.Background(), "user-1", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, sessions.Delete(context.Background(), created.Token))

	_, err = sessions.Get(context.Background(), created.Token)
	assert.True(t, apperrors.IsNotFound(err))
}

func newAuthedRouter(t *testing.T, sessions *SessionStore, allowlist []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := r.Group("/", Middleware(sessions, logger.NewTestLogger(t)))
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(200, gin.H{"userId": c.GetString(ContextUserID), "email": c.GetString(ContextEmail)})
	})
	admin := authed.Group("/admin", RequireAdmin(allowlist))
	admin.GET("/ping", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	return r
}

func TestMiddleware(t *testing.T) {
	sessions, _ := newSessionFixture(t)
	session, err := sessions.Create(context.Background(), "user-1", "alice@example.com")
	require.NoError(t, err)

	router := newAuthedRouter(t, sessions, []string{"alice@example.com"})

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "/me", "Bearer " + session.Token, 200},
		{"missing header", "/me", "", 401},
		{"wrong scheme", "/me", "Basic " + session.Token, 401},
		{"unknown token", "/me", "Bearer bogus", 401},
		{"admin allowed", "/admin/ping", "Bearer " + session.Token, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireAdmin_Forbidden(t *testing.T) {
	sessions, _ := newSessionFixture(t)
	session, err := sessions.Create(context.Background(), "user-2", "bob@example.com")
	require.NoError(t, err)

	router := newAuthedRouter(t, sessions, []string{"alice@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 403, w.Code)
}
