package profile

import (
	"context"
	"log"
	"strings"
	"time"

	profileModel "fittrack/challenge-service/internal/model/profile"
	"fittrack/challenge-service/internal/permission"

	"github.com/google/uuid"
)

// ProfileService 用户档案业务逻辑接口
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	ListAcademies(ctx context.Context) ([]AcademySummary, error)
	ListAcademyMembers(ctx context.Context, userID, academyID uuid.UUID) ([]MemberSummary, error)
	PromoteToAcademy(ctx context.Context, userID, targetID uuid.UUID, req *PromoteRequest) (*ProfileResponse, error)
	AssignAcademy(ctx context.Context, userID, targetID uuid.UUID, req *AssignAcademyRequest) (*ProfileResponse, error)
}

type profileService struct {
	repo ProfileRepository
	now  func() time.Time
}

// NewProfileService 创建 Service 实例
func NewProfileService(repo ProfileRepository) ProfileService {
	return &profileService{repo: repo, now: time.Now}
}

// GetProfile 获取用户档案
func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	p, err := s.repo.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

// ListAcademies 所有健身房，注册和选择所属健身房时使用
func (s *profileService) ListAcademies(ctx context.Context) ([]AcademySummary, error) {
	academies, err := s.repo.FindProfilesByRole(ctx, profileModel.RoleAcademy)
	if err != nil {
		return nil, err
	}
	result := make([]AcademySummary, 0, len(academies))
	for _, a := range academies {
		result = append(result, AcademySummary{ID: a.ID, Name: a.Name, Address: a.Address})
	}
	return result, nil
}

// ListAcademyMembers 健身房成员列表，只有管理员和健身房本身可以查看
func (s *profileService) ListAcademyMembers(ctx context.Context, userID, academyID uuid.UUID) ([]MemberSummary, error) {
	viewer, err := s.repo.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !permission.CanViewAcademyMembers(viewer, academyID) {
		return nil, ErrForbidden
	}

	members, err := s.repo.FindMembersByAcademyID(ctx, academyID)
	if err != nil {
		return nil, err
	}
	result := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		result = append(result, MemberSummary{
			ID:     m.ID,
			Name:   m.Name,
			Email:  m.Email,
			Role:   m.Role,
			Status: string(m.Status),
			Points: m.Points,
		})
	}
	return result, nil
}

// PromoteToAcademy 管理员把用户提升为健身房，健身房不隶属于其他健身房
func (s *profileService) PromoteToAcademy(ctx context.Context, userID, targetID uuid.UUID, req *PromoteRequest) (*ProfileResponse, error) {
	admin, err := s.repo.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !admin.Role.IsAdmin() {
		return nil, ErrForbidden
	}

	target, err := s.repo.FindProfileByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role.IsAcademy() {
		return nil, ErrAlreadyAcademy
	}

	address := strings.TrimSpace(req.Address)
	target.Role = profileModel.RoleAcademy
	target.AcademyID = nil
	target.Address = &address
	target.AddressNumber = req.AddressNumber
	target.UpdatedAt = s.now()

	if err := s.repo.UpdateProfile(ctx, target); err != nil {
		return nil, err
	}
	log.Printf("profile promoted to academy: id=%s by=%s", target.ID, admin.ID)
	return toProfileResponse(target), nil
}

// AssignAcademy 管理员设置学员或私教的所属健身房
func (s *profileService) AssignAcademy(ctx context.Context, userID, targetID uuid.UUID, req *AssignAcademyRequest) (*ProfileResponse, error) {
	admin, err := s.repo.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !admin.Role.IsAdmin() {
		return nil, ErrForbidden
	}

	target, err := s.repo.FindProfileByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !target.Role.IsAcademyScoped() {
		return nil, ErrNotAffiliable
	}

	var academyID *uuid.UUID
	if req.AcademyID != nil && *req.AcademyID != "" {
		id, err := uuid.Parse(*req.AcademyID)
		if err != nil {
			return nil, ErrNotAcademy
		}
		academy, err := s.repo.FindProfileByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !academy.Role.IsAcademy() {
			return nil, ErrNotAcademy
		}
		academyID = &academy.ID
	}

	target.AcademyID = academyID
	target.UpdatedAt = s.now()
	if err := s.repo.UpdateProfile(ctx, target); err != nil {
		return nil, err
	}
	return toProfileResponse(target), nil
}
