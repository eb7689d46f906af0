package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/exam-service/internal/domain"
)

const otpKeyPrefix = "otp:"

type otpRecord struct {
	Code      uint32 `json:"code"`
	ExpiresAt int64  `json:"expires_at"`
}

// OTPCache stores at most one live passcode per principal. Storing a new code
// overwrites the previous one. The record carries its own expiry so a read
// past the logical TTL reports ErrOTPExpired instead of vanishing silently;
// the redis key lives twice as long and cleans itself up afterwards.
type OTPCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOTPCache builds a cache with the given logical TTL.
func NewOTPCache(client *redis.Client, ttl time.Duration) *OTPCache {
	return &OTPCache{client: client, ttl: ttl}
}

func (c *OTPCache) key(email string) string {
	return otpKeyPrefix + email
}

// Store writes the passcode for the principal, replacing any existing record.
func (c *OTPCache) Store(ctx context.Context, email string, code uint32) error {
	record := otpRecord{
		Code:      code,
		ExpiresAt: time.Now().Add(c.ttl).Unix(),
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(email), encoded, 2*c.ttl).Err(); err != nil {
		return fmt.Errorf("otp store: %w", err)
	}
	return nil
}

// Get returns the stored passcode for the caller to compare against user
// input. Verification is read-then-compare, not an atomic consume: a racing
// request can observe the same still-valid code before the caller deletes it.
func (c *OTPCache) Get(ctx context.Context, email string) (uint32, error) {
	raw, err := c.client.Get(ctx, c.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrOTPNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("otp get: %w", err)
	}

	var record otpRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return 0, fmt.Errorf("otp decode: %w", err)
	}
	if time.Now().Unix() >= record.ExpiresAt {
		return 0, domain.ErrOTPExpired
	}
	return record.Code, nil
}

// Delete removes the record. Deleting a missing record is ErrOTPNotFound.
func (c *OTPCache) Delete(ctx context.Context, email string) error {
	removed, err := c.client.Del(ctx, c.key(email)).Result()
	if err != nil {
		return fmt.Errorf("otp delete: %w", err)
	}
	if removed == 0 {
		return domain.ErrOTPNotFound
	}
	return nil
}
