package challenge

import (
	"time"

	challengeModel "fittrack/challenge-service/internal/model/challenge"
	profileModel "fittrack/challenge-service/internal/model/profile"

	"github.com/google/uuid"
)

// DateLayout 请求中日期的格式
const DateLayout = "2006-01-02"

// DefaultRewardPoints 未指定奖励积分时的默认值
const DefaultRewardPoints = 100

// ListFilter 挑战列表的时间过滤
type ListFilter string

const (
	FilterActive    ListFilter = "active"    // end_date >= 今天
	FilterCompleted ListFilter = "completed" // end_date < 今天
	FilterAll       ListFilter = "all"
)

// ListChallengesRequest 挑战列表查询参数
type ListChallengesRequest struct {
	Filter ListFilter `form:"filter" binding:"omitempty,oneof=active completed all"`
	Search string     `form:"q" binding:"omitempty,max=120"`
}

// ListQuery 传给仓储层的查询条件
type ListQuery struct {
	Filter   ListFilter
	Search   string
	Today    time.Time
	ViewerID uuid.UUID
}

// CreateChallengeRequest 创建挑战请求
// 可见性和所属健身房由创建者角色决定，请求中的 is_public 会被忽略
type CreateChallengeRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=120"`
	Description   string  `json:"description" binding:"required,min=1,max=5000"`
	StartDate     string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       string  `json:"end_date" binding:"required,datetime=2006-01-02"`
	ImageURL      *string `json:"image_url" binding:"omitempty,max=500"`
	IsPublic      *bool   `json:"is_public"`
	RewardPoints  *int    `json:"reward_points" binding:"omitempty,min=0"`
	TargetValue   *string `json:"target_value" binding:"omitempty,max=120"`
	ChallengeType string  `json:"challenge_type" binding:"omitempty,oneof=participation repetitions frequency custom"`
}

// UpdateChallengeRequest 更新挑战请求，只更新非空字段
type UpdateChallengeRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=120"`
	Description   *string `json:"description" binding:"omitempty,min=1,max=5000"`
	StartDate     *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	ImageURL      *string `json:"image_url" binding:"omitempty,max=500"`
	RewardPoints  *int    `json:"reward_points" binding:"omitempty,min=0"`
	TargetValue   *string `json:"target_value" binding:"omitempty,max=120"`
	ChallengeType *string `json:"challenge_type" binding:"omitempty,oneof=participation repetitions frequency custom"`
}

// JoinByCodeRequest 通过邀请码加入
type JoinByCodeRequest struct {
	InviteCode string `json:"invite_code" binding:"required,min=1,max=32"`
}

// UpdateProgressRequest 更新进度
type UpdateProgressRequest struct {
	Progress  float64 `json:"progress" binding:"min=0"`
	Completed bool    `json:"completed"`
}

// ChallengeSummary 列表项，附带参与人数和当前用户的参与状态
type ChallengeSummary struct {
	challengeModel.Challenge
	ParticipantCount int64    `gorm:"column:participant_count" json:"participant_count"`
	IsParticipating  bool     `gorm:"column:is_participating" json:"is_participating"`
	UserProgress     *float64 `gorm:"column:user_progress" json:"user_progress,omitempty"`
}

// CreatorInfo 创建者公开信息
type CreatorInfo struct {
	ID   uuid.UUID         `json:"id"`
	Name string            `json:"name"`
	Role profileModel.Role `json:"role"`
}

// AcademyInfo 所属健身房公开信息
type AcademyInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ParticipantUser 参与者公开信息
type ParticipantUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ParticipantView 参与记录及其用户信息
type ParticipantView struct {
	challengeModel.Participant
	User *ParticipantUser `json:"user,omitempty"`
}

// ChallengeDetail 挑战详情
type ChallengeDetail struct {
	Challenge        *challengeModel.Challenge `json:"challenge"`
	Creator          *CreatorInfo              `json:"creator,omitempty"`
	Academy          *AcademyInfo              `json:"academy,omitempty"`
	Participants     []ParticipantView         `json:"participants,omitempty"`
	ParticipantCount int                       `json:"participant_count"`
	IsParticipating  bool                      `json:"is_participating"`
	RosterHidden     bool                      `json:"roster_hidden"`
}

// HasParticipant 判断用户是否在参与者列表中
func (d *ChallengeDetail) HasParticipant(userID uuid.UUID) bool {
	for _, p := range d.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// JoinResult 通过邀请码加入的结果
type JoinResult struct {
	Participant *challengeModel.Participant `json:"participant"`
	Challenge   *challengeModel.Challenge   `json:"challenge"`
}

// RewardResult 积分发放结果
type RewardResult struct {
	Distributed bool   `json:"distributed"`
	Count       int    `json:"count"`
	Message     string `json:"message"`
}

// UserPoints 用户积分
type UserPoints struct {
	Balance int `json:"balance"` // profiles.points，挑战结束后发放的累计积分
	Earned  int `json:"earned"`  // 已完成挑战的 points_earned 合计
}
