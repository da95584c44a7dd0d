// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisOTPPrefix   = "otp:"
	redisOTPIDPrefix = "otp:id:"
)

// OpenRedis parses url, connects and pings the server.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisOTPStore keeps one code per (purpose, email) in Redis and relies on
// key expiry for purging.
type RedisOTPStore struct {
	client redis.UniversalClient
	now    func() time.Time
	ttl    time.Duration
}

// NewRedisOTPStore creates a Redis backed OTP store. It accepts the same
// options as NewOTPStore.
func NewRedisOTPStore(client redis.UniversalClient, opts ...OTPStoreOption) *RedisOTPStore {
	base := &OTPStore{now: time.Now, ttl: DefaultOTPTTL}
	for _, opt := range opts {
		opt(base)
	}
	return &RedisOTPStore{client: client, now: base.now, ttl: base.ttl}
}

// TTL returns the configured code lifetime.
func (s *RedisOTPStore) TTL() time.Duration {
	return s.ttl
}

func otpKey(email string, purpose models.Purpose) string {
	return redisOTPPrefix + string(purpose) + ":" + email
}

func (s *RedisOTPStore) write(ctx context.Context, rec *models.OTP) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode otp: %w", err)
	}
	key := otpKey(rec.Email, rec.Purpose)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, raw, s.ttl)
		pipe.Set(ctx, redisOTPIDPrefix+rec.ID, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (s *RedisOTPStore) read(ctx context.Context, key string) (*models.OTP, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load otp: %w", err)
	}

	var rec models.OTP
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode otp: %w", err)
	}
	// Key expiry is not exact; never hand out a stale code.
	if rec.Expired(s.now(), s.ttl) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Put stores rec, replacing any record for the same email and purpose.
func (s *RedisOTPStore) Put(ctx context.Context, rec *models.OTP) error {
	if err := checkPurpose(rec.Purpose); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = utc(s.now)
	return s.write(ctx, rec)
}

// FindByCode returns the live record if its code matches.
func (s *RedisOTPStore) FindByCode(ctx context.Context, email, code string, purpose models.Purpose) (*models.OTP, error) {
	rec, err := s.read(ctx, otpKey(email, purpose))
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return nil, ErrNotFound
	}
	return rec, nil
}

// FindLatest returns the live record for email and purpose.
func (s *RedisOTPStore) FindLatest(ctx context.Context, email string, purpose models.Purpose) (*models.OTP, error) {
	return s.read(ctx, otpKey(email, purpose))
}

// Refresh replaces the code of rec and restarts its TTL window.
func (s *RedisOTPStore) Refresh(ctx context.Context, rec *models.OTP, code string) error {
	n, err := s.client.Exists(ctx, redisOTPIDPrefix+rec.ID).Result()
	if err != nil {
		return fmt.Errorf("refresh otp: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	rec.Code = code
	rec.CreatedAt = utc(s.now)
	return s.write(ctx, rec)
}

// DeleteAll removes the record for email and purpose.
func (s *RedisOTPStore) DeleteAll(ctx context.Context, email string, purpose models.Purpose) error {
	key := otpKey(email, purpose)
	keys := []string{key}
	if rec, err := s.read(ctx, key); err == nil {
		keys = append(keys, redisOTPIDPrefix+rec.ID)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// DeleteByID removes a single record. Deleting a missing record is not an error.
func (s *RedisOTPStore) DeleteByID(ctx context.Context, id string) error {
	idKey := redisOTPIDPrefix + id
	key, err := s.client.Get(ctx, idKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}

	// Only drop the primary key if it still belongs to this id.
	if rec, readErr := s.read(ctx, key); readErr == nil && rec.ID == id {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("delete otp: %w", err)
		}
	}
	if err := s.client.Del(ctx, idKey).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op; Redis expires keys on its own.
func (s *RedisOTPStore) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}
