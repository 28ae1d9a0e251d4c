package challenge

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant 参与记录，(challenge_id, user_id) 唯一
type Participant struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ChallengeID  uuid.UUID  `gorm:"column:challenge_id;type:uuid;not null;uniqueIndex:idx_challenge_participant" json:"challenge_id"`
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_challenge_participant;index" json:"user_id"`
	JoinedAt     time.Time  `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
	Progress     float64    `gorm:"column:progress;not null;default:0" json:"progress"`
	Completed    bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	PointsEarned int        `gorm:"column:points_earned;not null;default:0" json:"points_earned"`
	RewardedAt   *time.Time `gorm:"column:rewarded_at" json:"rewarded_at,omitempty"`

	Challenge *Challenge `gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Participant) TableName() string {
	return "challenge_participants"
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
