package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	sessionKeyPrefix  = "session:"
	refreshKeyPrefix  = "refresh:"
	userSessionPrefix = "user_sessions:"
)

// SessionRecord is the server-side state behind one issued refresh
// token. The access token never touches redis; only the refresh flow
// and forced logout do.
type SessionRecord struct {
	SID          string `json:"sid"`
	UserID       int64  `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RefreshToken string `json:"refresh_token"`
}

type SessionRepo struct {
	client *redis.Client
}

func NewSessionRepo(client *redis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Save(ctx context.Context, record SessionRecord, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if record.SID == "" || record.RefreshToken == "" || record.UserID <= 0 {
		return fmt.Errorf("invalid session record")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	userKey := userSessionKey(record.UserID)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(record.SID), payload, ttl)
	pipe.Set(ctx, refreshKey(record.RefreshToken), record.SID, ttl)
	pipe.SAdd(ctx, userKey, record.SID)
	pipe.Expire(ctx, userKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

func (r *SessionRepo) GetBySID(ctx context.Context, sid string) (SessionRecord, error) {
	if r.client == nil {
		return SessionRecord{}, fmt.Errorf("redis client is nil")
	}
	if sid == "" {
		return SessionRecord{}, fmt.Errorf("invalid session id")
	}

	payload, err := r.client.Get(ctx, sessionKey(sid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return SessionRecord{}, ErrSessionNotFound
		}
		return SessionRecord{}, fmt.Errorf("get session: %w", err)
	}

	var record SessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal session record: %w", err)
	}

	return record, nil
}

func (r *SessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (SessionRecord, error) {
	if r.client == nil {
		return SessionRecord{}, fmt.Errorf("redis client is nil")
	}
	if refreshToken == "" {
		return SessionRecord{}, fmt.Errorf("invalid refresh token")
	}

	sid, err := r.client.Get(ctx, refreshKey(refreshToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return SessionRecord{}, ErrSessionNotFound
		}
		return SessionRecord{}, fmt.Errorf("resolve refresh token: %w", err)
	}

	return r.GetBySID(ctx, sid)
}

// Delete removes one session and its refresh mapping.
func (r *SessionRepo) Delete(ctx context.Context, record SessionRecord) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if record.SID == "" {
		return fmt.Errorf("invalid session id")
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(record.SID))
	if record.RefreshToken != "" {
		pipe.Del(ctx, refreshKey(record.RefreshToken))
	}
	if record.UserID > 0 {
		pipe.SRem(ctx, userSessionKey(record.UserID), record.SID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteAllForUser drops every live session of one user. Used by the
// logout-everywhere flow.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	userKey := userSessionKey(userID)
	sids, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	pipe := r.client.TxPipeline()
	for _, sid := range sids {
		record, getErr := r.GetBySID(ctx, sid)
		if getErr == nil && record.RefreshToken != "" {
			pipe.Del(ctx, refreshKey(record.RefreshToken))
		}
		pipe.Del(ctx, sessionKey(sid))
	}
	pipe.Del(ctx, userKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}

	return nil
}

func sessionKey(sid string) string {
	return sessionKeyPrefix + sid
}

func refreshKey(token string) string {
	return refreshKeyPrefix + token
}

func userSessionKey(userID int64) string {
	return fmt.Sprintf("%s%d", userSessionPrefix, userID)
}
