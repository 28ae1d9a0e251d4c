package profile

import (
	"context"
	"errors"

	profileModel "fittrack/challenge-service/internal/model/profile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository 用户档案数据访问接口
type ProfileRepository interface {
	FindProfileByID(ctx context.Context, id uuid.UUID) (*profileModel.Profile, error)
	FindProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]profileModel.Profile, error)
	FindProfilesByRole(ctx context.Context, role profileModel.Role) ([]profileModel.Profile, error)
	FindMembersByAcademyID(ctx context.Context, academyID uuid.UUID) ([]profileModel.Profile, error)
	UpdateProfile(ctx context.Context, p *profileModel.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建 Repository 实例
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindProfileByID 根据ID查找用户档案
func (r *profileRepository) FindProfileByID(ctx context.Context, id uuid.UUID) (*profileModel.Profile, error) {
	var p profileModel.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProfilesByIDs 批量查找，不存在的ID直接忽略
func (r *profileRepository) FindProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]profileModel.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []profileModel.Profile
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindProfilesByRole 按角色查找，按名称排序
func (r *profileRepository) FindProfilesByRole(ctx context.Context, role profileModel.Role) ([]profileModel.Profile, error) {
	var profiles []profileModel.Profile
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindMembersByAcademyID 查找隶属于健身房的学员和私教
func (r *profileRepository) FindMembersByAcademyID(ctx context.Context, academyID uuid.UUID) ([]profileModel.Profile, error) {
	var profiles []profileModel.Profile
	err := r.db.WithContext(ctx).
		Where("academy_id = ? AND role IN ?", academyID,
			[]profileModel.Role{profileModel.RoleStudent, profileModel.RolePersonal}).
		Order("name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateProfile 更新角色、所属健身房和地址
func (r *profileRepository) UpdateProfile(ctx context.Context, p *profileModel.Profile) error {
	res := r.db.WithContext(ctx).Model(p).
		Select("role", "academy_id", "address", "address_number", "updated_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
