package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal/auth"
	goredis "github.com/go-redis/redis/v8"
)

// Client is the part of the go-redis API the refresh store needs.
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	GetDel(ctx context.Context, key string) *goredis.StringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// RefreshStore keeps refresh digests as keys with a TTL; GETDEL makes each one single use.
type RefreshStore struct {
	client Client
	prefix string
}

func NewRefreshStore(client Client, prefix string) *RefreshStore {
	return &RefreshStore{client: client, prefix: prefix}
}

func (s *RefreshStore) key(digest string) string {
	return s.prefix + digest
}

func (s *RefreshStore) Save(ctx context.Context, rec auth.RefreshRecord) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token %s already expired", rec.ID)
	}
	if err := s.client.Set(ctx, s.key(rec.Digest), rec.UserID, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Consume relies on key expiry for the time check, so now is unused here.
func (s *RefreshStore) Consume(ctx context.Context, digest string, _ time.Time) (int64, error) {
	val, err := s.client.GetDel(ctx, s.key(digest)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, auth.ErrRefreshTokenNotFound
		}
		return 0, fmt.Errorf("consume refresh token: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt refresh token entry: %w", err)
	}
	return userID, nil
}

func (s *RefreshStore) Revoke(ctx context.Context, digest string) error {
	if err := s.client.Del(ctx, s.key(digest)).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// NewClient dials and pings so a misconfigured address fails at startup.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
