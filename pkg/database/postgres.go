package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresConfig PostgreSQL 连接参数，零值字段使用默认值
type PostgresConfig struct {
	ServiceName     string
	Username        string
	Password        string
	Host            string
	Port            int
	Database        string
	SSLMode         bool
	TimeZone        string // 会话时区，日期比较依赖 UTC
	LogLevel        string // silent, error, warn, info
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

func (c PostgresConfig) withDefaults() PostgresConfig {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
	return c
}

// DSN 补全默认值后的连接字符串
func (c PostgresConfig) DSN() string {
	c = c.withDefaults()
	sslmode := "disable"
	if c.SSLMode {
		sslmode = "require"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, sslmode, c.TimeZone)
}

// InitPostgres 打开连接池并确认数据库可达
// 唯一约束冲突统一翻译为 gorm.ErrDuplicatedKey
func InitPostgres(ctx context.Context, config PostgresConfig) (*gorm.DB, error) {
	config = config.withDefaults()

	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
		Logger:         gormLogger(config.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库实例失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库 %s:%d 不可达: %w", config.Host, config.Port, err)
	}

	log.Printf("[%s] 数据库已连接 %s:%d/%s", serviceLabel(config.ServiceName), config.Host, config.Port, config.Database)
	return db, nil
}

func gormLogger(level string) logger.Interface {
	levels := map[string]logger.LogLevel{
		"silent": logger.Silent,
		"error":  logger.Error,
		"warn":   logger.Warn,
		"info":   logger.Info,
	}
	if l, ok := levels[level]; ok {
		return logger.Default.LogMode(l)
	}
	return logger.Default.LogMode(logger.Warn)
}
