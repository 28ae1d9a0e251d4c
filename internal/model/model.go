package model

import (
	"fmt"

	"fittrack/challenge-service/internal/model/challenge"
	"fittrack/challenge-service/internal/model/profile"

	"gorm.io/gorm"
)

// GetModels 返回所有需要迁移的模型
func GetModels() []interface{} {
	return []interface{}{
		&profile.Profile{},
		&challenge.Challenge{},
		&challenge.Participant{},
	}
}

func InitTable(db *gorm.DB) error {
	if err := db.AutoMigrate(GetModels()...); err != nil {
		return fmt.Errorf("数据库表迁移失败: %w", err)
	}
	return nil
}
