package profile

import (
	"time"

	profileModel "fittrack/challenge-service/internal/model/profile"

	"github.com/google/uuid"
)

// ProfileResponse 当前用户档案
type ProfileResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Role          profileModel.Role `json:"role"`
	AcademyID     *uuid.UUID        `json:"academy_id,omitempty"`
	Status        string            `json:"status"`
	Points        int               `json:"points"`
	Address       *string           `json:"address,omitempty"`
	AddressNumber *string           `json:"address_number,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// AcademySummary 健身房列表项
type AcademySummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address *string   `json:"address,omitempty"`
}

// MemberSummary 健身房成员
type MemberSummary struct {
	ID     uuid.UUID         `json:"id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Role   profileModel.Role `json:"role"`
	Status string            `json:"status"`
	Points int               `json:"points"`
}

// PromoteRequest 把用户提升为健身房
type PromoteRequest struct {
	Address       string  `json:"address" binding:"required,min=1,max=255"`
	AddressNumber *string `json:"address_number" binding:"omitempty,max=20"`
}

// AssignAcademyRequest 设置用户所属健身房，academy_id 为空表示解除关联
type AssignAcademyRequest struct {
	AcademyID *string `json:"academy_id" binding:"omitempty,uuid"`
}

func toProfileResponse(p *profileModel.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		Role:          p.Role,
		AcademyID:     p.AcademyID,
		Status:        string(p.Status),
		Points:        p.Points,
		Address:       p.Address,
		AddressNumber: p.AddressNumber,
		CreatedAt:     p.CreatedAt,
	}
}
