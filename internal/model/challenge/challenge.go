package challenge

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type 挑战类型
type Type string

const (
	TypeParticipation Type = "participation"
	TypeRepetitions   Type = "repetitions"
	TypeFrequency     Type = "frequency"
	TypeCustom        Type = "custom"
)

func (t Type) Valid() bool {
	switch t {
	case TypeParticipation, TypeRepetitions, TypeFrequency, TypeCustom:
		return true
	}
	return false
}

// InviteCodeLength 邀请码长度
const InviteCodeLength = 8

// Challenge 挑战
// is_public / academy_id 由创建者角色推导，不接受客户端传入
type Challenge struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Description   string     `gorm:"column:description;type:text;not null" json:"description"`
	StartDate     time.Time  `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate       time.Time  `gorm:"column:end_date;type:date;not null;index" json:"end_date"`
	ImageURL      *string    `gorm:"column:image_url;type:varchar(500)" json:"image_url,omitempty"`
	IsPublic      bool       `gorm:"column:is_public;not null;default:false;index" json:"is_public"`
	InviteCode    string     `gorm:"column:invite_code;type:char(8);not null;uniqueIndex" json:"invite_code"`
	RewardPoints  int        `gorm:"column:reward_points;not null;default:0" json:"reward_points"`
	TargetValue   *string    `gorm:"column:target_value;type:varchar(120)" json:"target_value,omitempty"`
	ChallengeType Type       `gorm:"column:challenge_type;type:varchar(20);not null;default:'participation'" json:"challenge_type"`
	CreatedBy     uuid.UUID  `gorm:"column:created_by;type:uuid;not null;index" json:"created_by"`
	AcademyID     *uuid.UUID `gorm:"column:academy_id;type:uuid;index" json:"academy_id,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// EndedBefore 结束日期严格早于给定日期（按日历日比较）
func (c *Challenge) EndedBefore(day time.Time) bool {
	return DateOf(c.EndDate).Before(DateOf(day))
}

// DateOf 换算到 UTC 后截断到日历日
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
