package flash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/simpleforms/pkg/cookie"
)

// RedisClient is the subset of redis.Cmdable used by RedisStore.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps values in Redis under prefix plus a per-client id. The id
// travels in a signed cookie.
type RedisStore struct {
	client  RedisClient
	cookies *cookie.Manager
	name    string
	prefix  string
	ttl     time.Duration
}

type RedisOption func(*RedisStore)

// WithCookieName overrides the id cookie name.
func WithCookieName(name string) RedisOption {
	return func(s *RedisStore) { s.name = name }
}

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithTTL bounds how long an unread value survives.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

func NewRedisStore(client RedisClient, cookies *cookie.Manager, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:  client,
		cookies: cookies,
		name:    DefaultKey + "_flash",
		prefix:  "flash:",
		ttl:     10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Set(w http.ResponseWriter, r *http.Request, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode flash: %w", err)
	}

	id, err := s.cookies.GetSigned(r, s.name)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
	}

	if err := s.client.Set(r.Context(), s.prefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store flash: %w", err)
	}
	return s.cookies.SetSigned(w, s.name, id, cookie.WithMaxAge(int(s.ttl.Seconds())))
}

func (s *RedisStore) Pop(w http.ResponseWriter, r *http.Request, dest any) (bool, error) {
	id, err := s.cookies.GetSigned(r, s.name)
	if errors.Is(err, cookie.ErrCookieNotFound) {
		return false, nil
	}
	if err != nil {
		s.cookies.Delete(w, s.name)
		return false, nil
	}

	data, err := s.client.GetDel(r.Context(), s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load flash: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode flash: %w", err)
	}
	return true, nil
}
