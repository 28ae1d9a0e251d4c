package challenge

import (
	"context"
	"log"
	"sync"
	"time"

	pkgDatabase "fittrack/challenge-service/pkg/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RewardLockPrefix 积分发放锁的 key 前缀
const RewardLockPrefix = "challenge:reward_lock:"

// RewardLocker 同一个挑战的积分发放互斥
// Acquire 成功返回释放函数，锁被占用时返回 ErrDistributionInProgress
type RewardLocker interface {
	Acquire(ctx context.Context, challengeID uuid.UUID) (release func(), err error)
}

// releaseScript 只删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRewardLocker 基于 Redis SET NX 的分布式锁，多实例部署时使用
type RedisRewardLocker struct {
	redis *pkgDatabase.RedisClient
	ttl   time.Duration
}

// NewRedisRewardLocker ttl 为锁的最长持有时间，防止进程崩溃后锁无法释放
func NewRedisRewardLocker(redis *pkgDatabase.RedisClient, ttl time.Duration) *RedisRewardLocker {
	return &RedisRewardLocker{redis: redis, ttl: ttl}
}

// Acquire 获取发放锁
func (l *RedisRewardLocker) Acquire(ctx context.Context, challengeID uuid.UUID) (func(), error) {
	key := RewardLockPrefix + challengeID.String()
	token := uuid.NewString()

	ok, err := l.redis.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDistributionInProgress
	}

	return func() {
		// 请求的 ctx 可能已经取消，释放锁使用独立的 ctx
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		released, err := releaseScript.Run(releaseCtx, l.redis.Client, []string{key}, token).Int()
		if err != nil {
			log.Printf("release reward lock %s: %v", key, err)
			return
		}
		if released == 0 {
			log.Printf("reward lock %s expired before release", key)
		}
	}, nil
}

// LocalRewardLocker 进程内锁，未配置 Redis 的单实例部署和测试使用
type LocalRewardLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]struct{}
}

func NewLocalRewardLocker() *LocalRewardLocker {
	return &LocalRewardLocker{held: make(map[uuid.UUID]struct{})}
}

// Acquire 获取发放锁
func (l *LocalRewardLocker) Acquire(_ context.Context, challengeID uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[challengeID]; ok {
		return nil, ErrDistributionInProgress
	}
	l.held[challengeID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, challengeID)
			l.mu.Unlock()
		})
	}, nil
}
