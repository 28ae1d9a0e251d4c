package profile

import (
	"time"

	"github.com/google/uuid"
)

// Status 账号状态
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Profile 用户资料，id 与身份提供方的 sub 一致
type Profile struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Email         string     `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Role          Role       `gorm:"column:role;type:varchar(20);not null;default:'student';index" json:"role"`
	AcademyID     *uuid.UUID `gorm:"column:academy_id;type:uuid;index" json:"academy_id,omitempty"`
	Status        Status     `gorm:"column:status;type:varchar(20);not null;default:'active'" json:"status"`
	Points        int        `gorm:"column:points;not null;default:0" json:"points"`
	Address       *string    `gorm:"column:address;type:varchar(255)" json:"address,omitempty"`
	AddressNumber *string    `gorm:"column:address_number;type:varchar(20)" json:"address_number,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// BelongsTo 判断用户是否隶属于指定健身房
// 两边都为空也视为相同
func (p *Profile) BelongsTo(academyID *uuid.UUID) bool {
	if p.AcademyID == nil || academyID == nil {
		return p.AcademyID == nil && academyID == nil
	}
	return *p.AcademyID == *academyID
}
