// config/config.go - 配置管理文件
package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	Conf *AppConfig
	once sync.Once
	k    *koanf.Koanf
)

// Load 加载配置文件
func Load(configPath string) error {
	var err error
	once.Do(func() {
		// 首先加载 .env 文件到环境变量
		if envErr := godotenv.Load(".env"); envErr != nil {
			log.Printf("警告: 无法加载 .env 文件: %v", envErr)
		}

		k = koanf.New(".")
		err = load(configPath)
	})

	return err
}

// load 依次加载配置文件和环境变量，环境变量覆盖配置文件
func load(configPath string) error {
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return fmt.Errorf("加载配置文件失败: %w", err)
	}

	// DATABASE_HOST -> database.host
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		log.Printf("加载环境变量失败: %v", err)
	}

	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(conf)
	Conf = conf
	return nil
}

// envKey 环境变量名转换为配置键，只替换第一个下划线
// 这样 DATABASE_LOG_LEVEL 会映射到 database.log_level
func envKey(s string) string {
	return strings.Replace(strings.ToLower(s), "_", ".", 1)
}

// applyDefaults 补全默认值并转换时间单位
func applyDefaults(c *AppConfig) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	c.Server.ReadTimeout = c.Server.ReadTimeout * time.Second
	c.Server.WriteTimeout = c.Server.WriteTimeout * time.Second

	if c.Log.Prefix == "" {
		c.Log.Prefix = "challenge-service"
	}
	if c.Challenge.InviteCodeAttempts <= 0 {
		c.Challenge.InviteCodeAttempts = 5
	}
	if c.Challenge.RewardLockTTL <= 0 {
		c.Challenge.RewardLockTTL = 60
	}
}

// MustLoad 加载配置，失败则 panic
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
}

// GetString 获取字符串配置
func GetString(key string) string {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.String(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.Int(key)
}

// GetBool 获取布尔配置
func GetBool(key string) bool {
	if k == nil {
		log.Fatal("配置未初始化")
	}
	return k.Bool(key)
}

// Reload 重新加载配置
func Reload(configPath string) error {
	if k == nil {
		return fmt.Errorf("配置未初始化")
	}
	return load(configPath)
}

// RewardLockDuration 积分发放锁的过期时间
func (c ChallengeConfig) RewardLockDuration() time.Duration {
	return time.Duration(c.RewardLockTTL) * time.Second
}
