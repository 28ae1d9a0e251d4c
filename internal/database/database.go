package database

import (
	"context"
	"log"
	"time"

	"fittrack/challenge-service/config"
	"fittrack/challenge-service/internal/model"
	"fittrack/challenge-service/pkg/database"

	"gorm.io/gorm"
)

const serviceName = "challenge-service"

var (
	PostgresDB *gorm.DB
	// RedisDB 未配置 redis.host 时为 nil，积分发放锁退化为进程内锁
	RedisDB *database.RedisClient
)

func InitDatabase() {
	initPostgres()
	initRedis()
}

func initPostgres() {
	databaseConf := config.Conf.Database

	var err error
	PostgresDB, err = database.InitPostgres(context.Background(), database.PostgresConfig{
		ServiceName:     serviceName,
		Username:        databaseConf.Username,
		Password:        databaseConf.Password,
		Host:            databaseConf.Host,
		Port:            databaseConf.Port,
		Database:        databaseConf.Database,
		SSLMode:         databaseConf.SSLMode,
		TimeZone:        databaseConf.TimeZone,
		LogLevel:        databaseConf.LogLevel,
		MaxIdleConns:    databaseConf.MaxIdleConns,
		MaxOpenConns:    databaseConf.MaxOpenConns,
		ConnMaxLifetime: time.Duration(databaseConf.MaxLifetime) * time.Second,
	})
	if err != nil {
		panic(err)
	}

	// 初始化数据库表
	if err := model.InitTable(PostgresDB); err != nil {
		panic(err)
	}
}

func initRedis() {
	redisConf := config.Conf.Redis
	if redisConf.Host == "" {
		log.Printf("[%s] redis.host 未配置，使用进程内积分发放锁", serviceName)
		return
	}

	var err error
	RedisDB, err = database.InitRedis(context.Background(), database.RedisConfig{
		ServiceName: serviceName,
		Host:        redisConf.Host,
		Port:        redisConf.Port,
		Password:    redisConf.Password,
		DB:          redisConf.DB,
		PoolSize:    redisConf.PoolSize,
	})
	if err != nil {
		panic(err)
	}
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return PostgresDB
}

// Close 关闭数据库连接
func Close() {
	if PostgresDB != nil {
		if sqlDB, err := PostgresDB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if RedisDB != nil {
		RedisDB.Close()
	}
}
