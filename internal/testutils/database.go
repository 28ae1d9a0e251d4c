package testutils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"

	"fittrack/challenge-service/internal/model"
	dbPkg "fittrack/challenge-service/pkg/database"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a test database connection using environment variables
// Defaults to test database configuration if env vars not set
// Skips the test when the database is unreachable
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5433")
		user := getEnvOrDefault("POSTGRES_USER", "test")
		password := getEnvOrDefault("POSTGRES_PASSWORD", "test")
		dbname := getEnvOrDefault("POSTGRES_DB", "challenge_test")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			host, port, user, password, dbname)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // Suppress logs in tests
		TranslateError: true,
	})
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// Return a transaction for automatic rollback
	tx := db.Begin()
	t.Cleanup(func() {
		tx.Rollback()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return tx
}

// SetupTestRedis creates a test Redis connection
// Skips the test when Redis is unreachable
func SetupTestRedis(t *testing.T) *dbPkg.RedisClient {
	t.Helper()

	redisPort, err := strconv.Atoi(getEnvOrDefault("REDIS_PORT", "6380"))
	if err != nil || redisPort == 0 {
		redisPort = 6380
	}
	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_TEST_DB", "15"))
	if err != nil {
		redisDB = 15
	}

	redisClient, err := dbPkg.InitRedis(context.Background(), dbPkg.RedisConfig{
		ServiceName: "challenge-service-test",
		Host:        getEnvOrDefault("REDIS_HOST", "localhost"),
		Port:        redisPort,
		DB:          redisDB,
	})
	if err != nil {
		t.Skipf("test redis unavailable: %v", err)
	}

	t.Cleanup(func() {
		redisClient.FlushDB(context.Background())
		redisClient.Close()
	})
	return redisClient
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
