package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/exam-service/internal/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestOTPStoreAndGet(t *testing.T) {
	t.Parallel()

	_, client := newTestRedis(t)
	otps := NewOTPCache(client, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, otps.Store(ctx, "user@example.com", 123456))

	code, err := otps.Get(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, uint32(123456), code)
}

func TestOTPOverwrite(t *testing.T) {
	t.Parallel()

	_, client := newTestRedis(t)
	otps := NewOTPCache(client, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, otps.Store(ctx, "user@example.com", 111111))
	require.NoError(t, otps.Store(ctx, "user@example.com", 222222))

	code, err := otps.Get(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, uint32(222222), code)
}

func TestOTPMissing(t *testing.T) {
	t.Parallel()

	_, client := newTestRedis(t)
	otps := NewOTPCache(client, 5*time.Minute)

	_, err := otps.Get(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPExpired(t *testing.T) {
	t.Parallel()

	mr, client := newTestRedis(t)
	otps := NewOTPCache(client, 5*time.Minute)

	// A record past its logical expiry but still physically present must
	// read as expired, not missing.
	record, err := json.Marshal(otpRecord{
		Code:      123456,
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)
	require.NoError(t, mr.Set(otpKeyPrefix+"user@example.com", string(record)))

	_, err = otps.Get(context.Background(), "user@example.com")
	require.ErrorIs(t, err, domain.ErrOTPExpired)
}

func TestOTPPhysicalExpiryReadsAsMissing(t *testing.T) {
	t.Parallel()

	mr, client := newTestRedis(t)
	ttl := 5 * time.Minute
	otps := NewOTPCache(client, ttl)
	ctx := context.Background()

	require.NoError(t, otps.Store(ctx, "user@example.com", 123456))

	mr.FastForward(2*ttl + time.Second)

	_, err := otps.Get(ctx, "user@example.com")
	require.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPDeleteConsumes(t *testing.T) {
	t.Parallel()

	_, client := newTestRedis(t)
	otps := NewOTPCache(client, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, otps.Store(ctx, "user@example.com", 123456))
	require.NoError(t, otps.Delete(ctx, "user@example.com"))

	_, err := otps.Get(ctx, "user@example.com")
	require.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPDeleteMissing(t *testing.T) {
	t.Parallel()

	_, client := newTestRedis(t)
	otps := NewOTPCache(client, 5*time.Minute)

	err := otps.Delete(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrOTPNotFound)
}
