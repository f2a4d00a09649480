package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps one live code per (phone, type). Codes are single use and expire
// on their own; issuing a new code replaces any outstanding one.
type Store interface {
	Create(ctx context.Context, phone, otpType string) (string, error)
	Verify(ctx context.Context, phone, otpType, code string) (bool, error)
}

var ErrStoreUnavailable = errors.New("otp store unavailable")

// RedisStore is the production Store. Keyed TTL entries in redis keep multiple
// server instances consistent, unlike process-local pending state.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func key(phone, otpType string) string {
	return fmt.Sprintf("otp:%s:%s", otpType, phone)
}

func (s *RedisStore) Create(ctx context.Context, phone, otpType string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, key(phone, otpType), code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

func (s *RedisStore) Verify(ctx context.Context, phone, otpType, code string) (bool, error) {
	k := key(phone, otpType)
	stored, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != code {
		return false, nil
	}
	// single use
	if err := s.client.Del(ctx, k).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// generateCode returns a six-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
