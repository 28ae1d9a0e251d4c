package challenge

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"
	"time"

	"fittrack/challenge-service/internal/testutils"
	pkgDatabase "fittrack/challenge-service/pkg/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRewardLocker(t *testing.T) {
	locker := NewLocalRewardLocker()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	release, err := locker.Acquire(ctx, a)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, a)
	assert.ErrorIs(t, err, ErrDistributionInProgress)

	releaseB, err := locker.Acquire(ctx, b)
	require.NoError(t, err)
	releaseB()

	release()
	release()

	release, err = locker.Acquire(ctx, a)
	require.NoError(t, err)
	release()
}

func TestRedisRewardLocker_Integration(t *testing.T) {
	client := testutils.SetupTestRedis(t)
	locker := NewRedisRewardLocker(client, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	release, err := locker.Acquire(ctx, id)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, id)
	assert.ErrorIs(t, err, ErrDistributionInProgress)

	ttl, err := client.TTL(ctx, RewardLockPrefix+id.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	release()

	release, err = locker.Acquire(ctx, id)
	require.NoError(t, err)
	release()
}

func TestRedisRewardLocker_ReleaseKeepsForeignLock(t *testing.T) {
	client := testutils.SetupTestRedis(t)
	locker := NewRedisRewardLocker(client, time.Minute)
	ctx := context.Background()
	id := uuid.New()
	key := RewardLockPrefix + id.String()

	release, err := locker.Acquire(ctx, id)
	require.NoError(t, err)

	// 模拟锁过期后被其他实例获取
	require.NoError(t, client.Set(ctx, key, "someone-else", time.Minute).Err())
	release()

	v, err := client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
	require.NoError(t, client.Del(ctx, key).Err())
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestRedisRewardLocker_LogsExpiredRelease(t *testing.T) {
	client := testutils.SetupTestRedis(t)
	locker := NewRedisRewardLocker(client, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	release, err := locker.Acquire(ctx, id)
	require.NoError(t, err)
	require.NoError(t, client.Del(ctx, RewardLockPrefix+id.String()).Err())

	buf := captureLog(t)
	release()
	assert.Contains(t, buf.String(), "expired before release")
}

func TestRedisRewardLocker_LogsReleaseError(t *testing.T) {
	shared := testutils.SetupTestRedis(t)
	client := &pkgDatabase.RedisClient{Client: redis.NewClient(shared.Options())}
	locker := NewRedisRewardLocker(client, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	release, err := locker.Acquire(ctx, id)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	buf := captureLog(t)
	release()
	assert.Contains(t, buf.String(), "release reward lock "+RewardLockPrefix+id.String())
}
