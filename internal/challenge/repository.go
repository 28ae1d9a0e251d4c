package challenge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgDatabase "fittrack/challenge-service/pkg/database"

	challengeModel "fittrack/challenge-service/internal/model/challenge"
	profileModel "fittrack/challenge-service/internal/model/profile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeRepository 挑战和参与记录的数据访问接口
// 未找到的记录统一转换为本包的哨兵错误
type ChallengeRepository interface {
	// Challenge 相关
	CreateChallenge(ctx context.Context, c *challengeModel.Challenge, owner *challengeModel.Participant) error
	FindChallengeByID(ctx context.Context, id uuid.UUID) (*challengeModel.Challenge, error)
	FindChallengeByInviteCode(ctx context.Context, code string) (*challengeModel.Challenge, error)
	UpdateChallenge(ctx context.Context, c *challengeModel.Challenge) error
	DeleteChallenge(ctx context.Context, id uuid.UUID) error
	ListChallenges(ctx context.Context, scope VisibilityScope, query ListQuery) ([]ChallengeSummary, error)

	// Participant 相关
	CreateParticipant(ctx context.Context, p *challengeModel.Participant) error
	FindParticipant(ctx context.Context, challengeID, userID uuid.UUID) (*challengeModel.Participant, error)
	FindParticipantsByChallengeID(ctx context.Context, challengeID uuid.UUID) ([]challengeModel.Participant, error)
	UpdateParticipant(ctx context.Context, p *challengeModel.Participant) error
	DeleteParticipant(ctx context.Context, challengeID, userID uuid.UUID) error
	AwardParticipant(ctx context.Context, p *challengeModel.Participant, points int) (bool, error)
	SumCompletedPoints(ctx context.Context, userID uuid.UUID) (int, error)
}

// errProfileMissing 发放积分时参与者的档案已不存在，回滚本次发放
var errProfileMissing = errors.New("participant profile missing")

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository 创建 Repository 实例
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

// ========== Challenge 相关操作 ==========

// CreateChallenge 创建挑战，owner 不为空时在同一事务中写入创建者的参与记录
// 邀请码冲突返回 ErrInviteCodeTaken，任一步失败都不会留下挑战
func (r *challengeRepository) CreateChallenge(ctx context.Context, c *challengeModel.Challenge, owner *challengeModel.Participant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			if pkgDatabase.IsUniqueViolation(err) {
				return ErrInviteCodeTaken
			}
			return err
		}
		if owner == nil {
			return nil
		}
		owner.ChallengeID = c.ID
		if err := tx.Omit("Challenge").Create(owner).Error; err != nil {
			return fmt.Errorf("add creator as participant: %w", err)
		}
		return nil
	})
}

// FindChallengeByID 根据ID查找挑战
func (r *challengeRepository) FindChallengeByID(ctx context.Context, id uuid.UUID) (*challengeModel.Challenge, error) {
	var c challengeModel.Challenge
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindChallengeByInviteCode 根据邀请码查找挑战，调用方负责规范化邀请码
func (r *challengeRepository) FindChallengeByInviteCode(ctx context.Context, code string) (*challengeModel.Challenge, error) {
	var c challengeModel.Challenge
	err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidInviteCode
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateChallenge 更新挑战的可编辑字段
// 可见性、邀请码、创建者和所属健身房不允许修改
func (r *challengeRepository) UpdateChallenge(ctx context.Context, c *challengeModel.Challenge) error {
	res := r.db.WithContext(ctx).Model(c).
		Select("name", "description", "start_date", "end_date", "image_url",
			"reward_points", "target_value", "challenge_type", "updated_at").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

// DeleteChallenge 删除挑战，参与记录由外键级联删除
func (r *challengeRepository) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&challengeModel.Challenge{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

// ListChallenges 按可见范围查询挑战列表，开始日期倒序
func (r *challengeRepository) ListChallenges(ctx context.Context, scope VisibilityScope, query ListQuery) ([]ChallengeSummary, error) {
	db := r.db.WithContext(ctx).Model(&challengeModel.Challenge{}).
		Select(`challenges.*,
			(SELECT COUNT(*) FROM challenge_participants cp WHERE cp.challenge_id = challenges.id) AS participant_count,
			EXISTS (SELECT 1 FROM challenge_participants cp WHERE cp.challenge_id = challenges.id AND cp.user_id = ?) AS is_participating,
			(SELECT cp.progress FROM challenge_participants cp WHERE cp.challenge_id = challenges.id AND cp.user_id = ?) AS user_progress`,
			query.ViewerID, query.ViewerID)

	if !scope.All {
		conds := []string{"challenges.created_by = ?"}
		args := []interface{}{scope.UserID}
		switch {
		case scope.AllPublic:
			conds = append(conds, "challenges.is_public = TRUE")
		case scope.PublicAcademyID != nil:
			conds = append(conds, "(challenges.is_public = TRUE AND challenges.academy_id = ?)")
			args = append(args, *scope.PublicAcademyID)
		}
		conds = append(conds, `(challenges.is_public = FALSE AND EXISTS (
			SELECT 1 FROM challenge_participants cp WHERE cp.challenge_id = challenges.id AND cp.user_id = ?))`)
		args = append(args, scope.UserID)
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	today := challengeModel.DateOf(query.Today).Format(DateLayout)
	switch query.Filter {
	case FilterActive:
		db = db.Where("challenges.end_date >= ?", today)
	case FilterCompleted:
		db = db.Where("challenges.end_date < ?", today)
	}

	if search := strings.TrimSpace(query.Search); search != "" {
		db = db.Where("challenges.name ILIKE ?", "%"+escapeLike(search)+"%")
	}

	var summaries []ChallengeSummary
	err := db.Order("challenges.start_date DESC").
		Order("challenges.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ========== Participant 相关操作 ==========

// CreateParticipant 创建参与记录，重复参与返回 ErrAlreadyParticipating
func (r *challengeRepository) CreateParticipant(ctx context.Context, p *challengeModel.Participant) error {
	err := r.db.WithContext(ctx).Omit("Challenge").Create(p).Error
	if pkgDatabase.IsUniqueViolation(err) {
		return ErrAlreadyParticipating
	}
	return err
}

// FindParticipant 查找用户在某个挑战中的参与记录
func (r *challengeRepository) FindParticipant(ctx context.Context, challengeID, userID uuid.UUID) (*challengeModel.Participant, error) {
	var p challengeModel.Participant
	err := r.db.WithContext(ctx).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotParticipating
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindParticipantsByChallengeID 获取挑战的全部参与记录，按加入时间升序
func (r *challengeRepository) FindParticipantsByChallengeID(ctx context.Context, challengeID uuid.UUID) ([]challengeModel.Participant, error) {
	var participants []challengeModel.Participant
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// UpdateParticipant 更新进度和完成状态
func (r *challengeRepository) UpdateParticipant(ctx context.Context, p *challengeModel.Participant) error {
	return r.db.WithContext(ctx).Model(p).
		Select("progress", "completed", "completed_at", "points_earned").
		Updates(p).Error
}

// DeleteParticipant 删除参与记录，不存在时返回 ErrNotParticipating
func (r *challengeRepository) DeleteParticipant(ctx context.Context, challengeID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Delete(&challengeModel.Participant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotParticipating
	}
	return nil
}

// AwardParticipant 在一个事务中标记 rewarded_at 并增加用户积分
// 已发放过的参与记录返回 false，保证每条参与记录只发放一次
func (r *challengeRepository) AwardParticipant(ctx context.Context, p *challengeModel.Participant, points int) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&challengeModel.Participant{}).
			Where("id = ? AND rewarded_at IS NULL", p.ID).
			Update("rewarded_at", gorm.Expr("NOW()"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		res = tx.Model(&profileModel.Profile{}).
			Where("id = ?", p.UserID).
			Update("points", gorm.Expr("points + ?", points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errProfileMissing
		}
		return nil
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, errProfileMissing):
		return false, nil
	default:
		return false, err
	}
}

// SumCompletedPoints 统计用户已完成挑战的 points_earned 合计
func (r *challengeRepository) SumCompletedPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&challengeModel.Participant{}).
		Select("COALESCE(SUM(points_earned), 0)").
		Where("user_id = ? AND completed = TRUE", userID).
		Scan(&total).Error
	return total, err
}
