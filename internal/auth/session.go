// internal/auth/session.go
package auth

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/models"
)

// Context keys set by the middleware for downstream handlers.
const (
	ContextUserID = "userID"
	ContextEmail  = "userEmail"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps bearer-token sessions in redis with a sliding TTL.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionStore(rdb *redis.Client, ttlMinutes int) *SessionStore {
	if ttlMinutes <= 0 {
		ttlMinutes = 1440
	}
	return &SessionStore{redis: rdb, ttl: time.Duration(ttlMinutes) * time.Minute}
}

func (s *SessionStore) Create(ctx context.Context, userID, email string) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	data, err := json.Marshal(session)
	if err != nil {
		return nil, apperrors.NewInternalError("encode session", err)
	}
	if err := s.redis.Set(ctx, sessionKeyPrefix+session.Token, data, s.ttl).Err(); err != nil {
		return nil, apperrors.NewInternalError("store session", err)
	}
	return session, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	val, err := s.redis.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return nil, apperrors.NewNotFoundError("session", token)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("load session", err)
	}
	var session models.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, apperrors.NewInternalError("decode session", err)
	}
	if session.IsExpired() {
		return nil, apperrors.NewNotFoundError("session", token)
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return apperrors.NewInternalError("delete session", err)
	}
	return nil
}

// Middleware authenticates requests via a bearer token and puts the session
// identity into the gin context.
func Middleware(sessions *SessionStore, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{"kind": "UNAUTHORIZED", "message": "missing bearer token"}})
			return
		}

		session, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			if !apperrors.IsNotFound(err) {
				log.Error("session lookup failed", map[string]interface{}{"error": err.Error()})
			}
			c.AbortWithStatusJSON(401, gin.H{"error": gin.H{"kind": "UNAUTHORIZED", "message": "invalid or expired session"}})
			return
		}

		c.Set(ContextUserID, session.UserID)
		c.Set(ContextEmail, session.Email)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
