package database

import (
	"errors"

	"gorm.io/gorm"
)

// uniqueViolation PostgreSQL unique_violation
const uniqueViolation = "23505"

type sqlStateError interface {
	SQLState() string
}

// IsUniqueViolation 判断错误是否由唯一约束冲突引起
// 开启 TranslateError 时 gorm 返回 ErrDuplicatedKey，否则回退到驱动的 SQLSTATE
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var stateErr sqlStateError
	if errors.As(err, &stateErr) {
		return stateErr.SQLState() == uniqueViolation
	}
	return false
}
