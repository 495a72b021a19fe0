package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// maxTxRetries bounds optimistic-lock retries on a contended session key.
const maxTxRetries = 5

// RedisStore implements Store interface using Redis
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration // Session TTL (time to live)
	prefix string
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	// Parse Redis URL
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Create Redis client
	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: "storebuddy:session:",
	}
}

// sessionKey generates Redis key for a session
func (r *RedisStore) sessionKey(sessionID string) string {
	return r.prefix + sessionID
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) load(ctx context.Context, g getter, sessionID string) (*SessionData, error) {
	data, err := g.Get(ctx, r.sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		// Session doesn't exist - return empty session
		return newSessionData(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session from Redis: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}
	return &session, nil
}

// LoadSession loads a session from Redis
func (r *RedisStore) LoadSession(ctx context.Context, sessionID string) (*SessionData, error) {
	return r.load(ctx, r.client, sessionID)
}

// update applies fn to the stored session inside a WATCH transaction and
// writes the result back with a fresh TTL.
func (r *RedisStore) update(ctx context.Context, sessionID string, fn func(*SessionData) error) error {
	key := r.sessionKey(sessionID)

	txf := func(tx *redis.Tx) error {
		session, err := r.load(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}

		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("session %s: too much contention", sessionID)
}

// SaveMessage appends a message to a session
func (r *RedisStore) SaveMessage(ctx context.Context, sessionID string, msg Message) error {
	return r.update(ctx, sessionID, func(session *SessionData) error {
		session.appendMessage(msg)
		return nil
	})
}

// ReplaceMessage overwrites the message with msg.ID
func (r *RedisStore) ReplaceMessage(ctx context.Context, sessionID string, msg Message) error {
	return r.update(ctx, sessionID, func(session *SessionData) error {
		return session.replaceMessage(msg)
	})
}

// GetMessages retrieves all messages for a session
func (r *RedisStore) GetMessages(ctx context.Context, sessionID string) ([]Message, error) {
	session, err := r.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return session.Messages, nil
}

// ClearSession removes a session from Redis
func (r *RedisStore) ClearSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

// SessionExists checks if a session exists in Redis
func (r *RedisStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}

	return exists > 0, nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ping verifies the Redis connection is alive
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
