package database

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig Redis 连接参数，零值字段使用默认值
type RedisConfig struct {
	ServiceName  string
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxConnAge   time.Duration
	DialTimeout  time.Duration
}

// RedisClient go-redis 客户端
type RedisClient struct {
	*redis.Client
}

func (c RedisConfig) withDefaults() RedisConfig {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 2
	}
	if c.MaxConnAge == 0 {
		c.MaxConnAge = time.Hour
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 3 * time.Second
	}
	return c
}

// Options 补全默认值后转换为 go-redis 的连接参数
func (c RedisConfig) Options() *redis.Options {
	c = c.withDefaults()
	return &redis.Options{
		Addr:            net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Password:        c.Password,
		DB:              c.DB,
		PoolSize:        c.PoolSize,
		MinIdleConns:    c.MinIdleConns,
		ConnMaxLifetime: c.MaxConnAge,
		DialTimeout:     c.DialTimeout,
	}
}

// InitRedis 建立连接并执行一次 PING，失败时释放连接池
func InitRedis(ctx context.Context, config RedisConfig) (*RedisClient, error) {
	opts := config.Options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("连接 Redis %s 失败: %w", opts.Addr, err)
	}

	log.Printf("[%s] Redis 已连接 %s db=%d", serviceLabel(config.ServiceName), opts.Addr, opts.DB)
	return &RedisClient{Client: client}, nil
}

// PingContext 健康检查
func (r *RedisClient) PingContext(ctx context.Context) error {
	return r.Ping(ctx).Err()
}

func serviceLabel(name string) string {
	if name == "" {
		return "unknown-service"
	}
	return name
}
