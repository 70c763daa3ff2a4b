package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/mindwell-app/mindwell-backend/internal/database"
)

const (
	// SessionDuration is how long a session lasts (7 days)
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix maps user ID to their active session token
	UserSessionKeyPrefix = "user_session:"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// GenerateSessionToken creates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateSession creates a new session for a user. Only one session per user:
// signing in on a second device invalidates the first.
func CreateSession(ctx context.Context, userID string) (string, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return "", err
	}

	// Invalidate any existing session for this user
	if err := InvalidateUserSessions(ctx, userID); err != nil {
		return "", err
	}

	sessionKey := SessionKeyPrefix + token
	userSessionKey := UserSessionKeyPrefix + userID

	pipe := database.RedisClient.TxPipeline()
	pipe.Set(ctx, sessionKey, userID, SessionDuration)
	pipe.Set(ctx, userSessionKey, token, SessionDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}

	return token, nil
}

// ValidateSession checks a session token and returns the user ID it belongs to.
func ValidateSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidSession
	}

	userID, err := database.RedisClient.Get(ctx, SessionKeyPrefix+token).Result()
	if err != nil {
		return "", ErrInvalidSession
	}

	return userID, nil
}

// RefreshSession extends the TTL of an active session.
func RefreshSession(ctx context.Context, token string) error {
	userID, err := ValidateSession(ctx, token)
	if err != nil {
		return err
	}

	pipe := database.RedisClient.TxPipeline()
	pipe.Expire(ctx, SessionKeyPrefix+token, SessionDuration)
	pipe.Expire(ctx, UserSessionKeyPrefix+userID, SessionDuration)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateSession removes a session (signout).
func InvalidateSession(ctx context.Context, token string) error {
	userID, err := database.RedisClient.Get(ctx, SessionKeyPrefix+token).Result()
	if err != nil {
		// Already gone
		return nil
	}

	pipe := database.RedisClient.TxPipeline()
	pipe.Del(ctx, SessionKeyPrefix+token)
	pipe.Del(ctx, UserSessionKeyPrefix+userID)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateUserSessions removes the active session for a user, if any.
func InvalidateUserSessions(ctx context.Context, userID string) error {
	userSessionKey := UserSessionKeyPrefix + userID
	token, err := database.RedisClient.Get(ctx, userSessionKey).Result()
	if err != nil {
		// No active session
		return nil
	}

	pipe := database.RedisClient.TxPipeline()
	pipe.Del(ctx, SessionKeyPrefix+token)
	pipe.Del(ctx, userSessionKey)
	_, err = pipe.Exec(ctx)
	return err
}
