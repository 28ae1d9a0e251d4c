package challenge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	challengeModel "fittrack/challenge-service/internal/model/challenge"
	profileModel "fittrack/challenge-service/internal/model/profile"
	"fittrack/challenge-service/internal/permission"

	"github.com/google/uuid"
)

// ProfileReader 挑战服务需要的用户档案读取能力
// 未找到时返回 profile.ErrProfileNotFound
type ProfileReader interface {
	FindProfileByID(ctx context.Context, id uuid.UUID) (*profileModel.Profile, error)
	FindProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]profileModel.Profile, error)
}

// ChallengeService 挑战业务逻辑接口
type ChallengeService interface {
	ListChallenges(ctx context.Context, userID uuid.UUID, req *ListChallengesRequest) ([]ChallengeSummary, error)
	GetChallengeDetail(ctx context.Context, challengeID uuid.UUID) (*ChallengeDetail, error)
	ViewChallengeDetail(ctx context.Context, userID, challengeID uuid.UUID) (*ChallengeDetail, error)
	CreateChallenge(ctx context.Context, userID uuid.UUID, req *CreateChallengeRequest) (*challengeModel.Challenge, error)
	UpdateChallenge(ctx context.Context, userID, challengeID uuid.UUID, req *UpdateChallengeRequest) (*challengeModel.Challenge, error)
	DeleteChallenge(ctx context.Context, userID, challengeID uuid.UUID) error

	JoinChallenge(ctx context.Context, challengeID, userID uuid.UUID) (*challengeModel.Participant, error)
	RequestJoin(ctx context.Context, userID, challengeID uuid.UUID) (*challengeModel.Participant, error)
	JoinChallengeByCode(ctx context.Context, userID uuid.UUID, code string) (*JoinResult, error)
	LeaveChallenge(ctx context.Context, userID, challengeID uuid.UUID) error
	UpdateProgress(ctx context.Context, userID, challengeID uuid.UUID, req *UpdateProgressRequest) (*challengeModel.Participant, error)

	DistributeRewardsIfEnded(ctx context.Context, challengeID uuid.UUID) (*RewardResult, error)
	DistributeRewards(ctx context.Context, userID, challengeID uuid.UUID) (*RewardResult, error)
	GetUserPoints(ctx context.Context, userID uuid.UUID) (*UserPoints, error)
}

// Option 服务可选配置
type Option func(*challengeService)

// WithClock 替换时钟，"今天" 由它决定
func WithClock(now func() time.Time) Option {
	return func(s *challengeService) {
		s.now = now
	}
}

// WithInviteCodeAttempts 邀请码冲突时的最大重试次数
func WithInviteCodeAttempts(n int) Option {
	return func(s *challengeService) {
		if n > 0 {
			s.codeAttempts = n
		}
	}
}

// WithInviteCodeGenerator 替换邀请码生成器
func WithInviteCodeGenerator(gen func() (string, error)) Option {
	return func(s *challengeService) {
		s.generateCode = gen
	}
}

type challengeService struct {
	repo         ChallengeRepository
	profiles     ProfileReader
	locker       RewardLocker
	now          func() time.Time
	codeAttempts int
	generateCode func() (string, error)
}

// NewChallengeService 创建 Service 实例
func NewChallengeService(repo ChallengeRepository, profiles ProfileReader, locker RewardLocker, opts ...Option) ChallengeService {
	s := &challengeService{
		repo:         repo,
		profiles:     profiles,
		locker:       locker,
		now:          time.Now,
		codeAttempts: 5,
		generateCode: GenerateInviteCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *challengeService) today() time.Time {
	return challengeModel.DateOf(s.now())
}

// ========== 查询 ==========

// ListChallenges 获取当前用户可见的挑战列表
func (s *challengeService) ListChallenges(ctx context.Context, userID uuid.UUID, req *ListChallengesRequest) ([]ChallengeSummary, error) {
	viewer, err := s.profiles.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !viewer.Role.Valid() {
		return nil, ErrUnknownRole
	}

	filter := req.Filter
	if filter == "" {
		filter = FilterAll
	}

	summaries, err := s.repo.ListChallenges(ctx, ScopeFor(viewer), ListQuery{
		Filter:   filter,
		Search:   req.Search,
		Today:    s.today(),
		ViewerID: viewer.ID,
	})
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []ChallengeSummary{}
	}
	return summaries, nil
}

// GetChallengeDetail 获取挑战详情，包含创建者、所属健身房和完整参与者名单
// 不做权限判断，对外接口使用 ViewChallengeDetail
func (s *challengeService) GetChallengeDetail(ctx context.Context, challengeID uuid.UUID) (*ChallengeDetail, error) {
	c, err := s.repo.FindChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.FindParticipantsByChallengeID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	// 一次查询取回创建者、健身房和所有参与者
	ids := []uuid.UUID{c.CreatedBy}
	if c.AcademyID != nil {
		ids = append(ids, *c.AcademyID)
	}
	for _, p := range participants {
		ids = append(ids, p.UserID)
	}
	profiles, err := s.profiles.FindProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*profileModel.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	detail := &ChallengeDetail{
		Challenge:        c,
		Participants:     make([]ParticipantView, 0, len(participants)),
		ParticipantCount: len(participants),
	}
	if creator, ok := byID[c.CreatedBy]; ok {
		detail.Creator = &CreatorInfo{ID: creator.ID, Name: creator.Name, Role: creator.Role}
	}
	if c.AcademyID != nil {
		if academy, ok := byID[*c.AcademyID]; ok {
			detail.Academy = &AcademyInfo{ID: academy.ID, Name: academy.Name}
		}
	}
	for _, p := range participants {
		view := ParticipantView{Participant: p}
		if u, ok := byID[p.UserID]; ok {
			view.User = &ParticipantUser{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		detail.Participants = append(detail.Participants, view)
	}
	return detail, nil
}

// ViewChallengeDetail 以某个用户的身份查看挑战详情
// 不可见的挑战按不存在处理，名单和邀请码只对有权限的用户展示
func (s *challengeService) ViewChallengeDetail(ctx context.Context, userID, challengeID uuid.UUID) (*ChallengeDetail, error) {
	viewer, err := s.profiles.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	detail, err := s.GetChallengeDetail(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	participating := detail.HasParticipant(viewer.ID)
	if !ScopeFor(viewer).Allows(detail.Challenge, participating) && !permission.OwnsAcademyOf(viewer, detail.Challenge) {
		return nil, ErrChallengeNotFound
	}

	detail.IsParticipating = participating
	if !permission.CanSeeInviteCode(viewer, detail.Challenge, participating) {
		detail.Challenge.InviteCode = ""
	}
	if !permission.CanSeeRoster(viewer, detail.Challenge, participating) {
		detail.Participants = nil
		detail.RosterHidden = true
	}
	return detail, nil
}

// ========== 创建、修改、删除 ==========

// CreateChallenge 创建挑战并让创建者自动加入
// 健身房创建的挑战公开并归属于自己，其他角色创建的挑战私有并归属于其所在健身房
func (s *challengeService) CreateChallenge(ctx context.Context, userID uuid.UUID, req *CreateChallengeRequest) (*challengeModel.Challenge, error) {
	creator, err := s.profiles.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !creator.Role.Valid() {
		return nil, ErrUnknownRole
	}

	startDate := s.today()
	if req.StartDate != "" {
		if startDate, err = parseDate(req.StartDate); err != nil {
			return nil, err
		}
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if !endDate.After(startDate) {
		return nil, ErrInvalidDateRange
	}

	rewardPoints := DefaultRewardPoints
	if req.RewardPoints != nil {
		rewardPoints = *req.RewardPoints
	}
	if rewardPoints < 0 {
		return nil, ErrInvalidRewardPoints
	}

	challengeType := challengeModel.TypeParticipation
	if req.ChallengeType != "" {
		challengeType = challengeModel.Type(req.ChallengeType)
	}
	if !challengeType.Valid() {
		return nil, ErrInvalidChallengeType
	}

	c := &challengeModel.Challenge{
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		StartDate:     startDate,
		EndDate:       endDate,
		ImageURL:      req.ImageURL,
		RewardPoints:  rewardPoints,
		TargetValue:   req.TargetValue,
		ChallengeType: challengeType,
		CreatedBy:     creator.ID,
	}
	if creator.Role.CreatesPublicChallenges() {
		c.IsPublic = true
		academyID := creator.ID
		c.AcademyID = &academyID
	} else if creator.AcademyID != nil {
		academyID := *creator.AcademyID
		c.AcademyID = &academyID
	}

	// 创建者的参与记录与挑战在同一个事务中写入
	owner := &challengeModel.Participant{UserID: creator.ID, JoinedAt: s.now()}
	if err := s.insertWithInviteCode(ctx, c, owner); err != nil {
		return nil, err
	}
	log.Printf("challenge created: id=%s creator=%s public=%t", c.ID, creator.ID, c.IsPublic)
	return c, nil
}

// insertWithInviteCode 生成邀请码并插入，冲突时重新生成
func (s *challengeService) insertWithInviteCode(ctx context.Context, c *challengeModel.Challenge, owner *challengeModel.Participant) error {
	for attempt := 0; attempt < s.codeAttempts; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return fmt.Errorf("generate invite code: %w", err)
		}
		c.InviteCode = code

		err = s.repo.CreateChallenge(ctx, c, owner)
		if errors.Is(err, ErrInviteCodeTaken) {
			c.ID = uuid.Nil
			owner.ID = uuid.Nil
			continue
		}
		return err
	}
	return fmt.Errorf("no unique invite code after %d attempts: %w", s.codeAttempts, ErrInviteCodeTaken)
}

// UpdateChallenge 修改挑战内容，只有创建者和管理员可以修改
func (s *challengeService) UpdateChallenge(ctx context.Context, userID, challengeID uuid.UUID, req *UpdateChallengeRequest) (*challengeModel.Challenge, error) {
	viewer, err := s.profiles.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !permission.CanManageChallenge(viewer, c) {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.StartDate != nil {
		if c.StartDate, err = parseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if c.EndDate, err = parseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}
	if !c.EndDate.After(c.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if req.ImageURL != nil {
		c.ImageURL = req.ImageURL
	}
	if req.RewardPoints != nil {
		if *req.RewardPoints < 0 {
			return nil, ErrInvalidRewardPoints
		}
		c.RewardPoints = *req.RewardPoints
	}
	if req.TargetValue != nil {
		c.TargetValue = req.TargetValue
	}
	if req.ChallengeType != nil {
		t := challengeModel.Type(*req.ChallengeType)
		if !t.Valid() {
			return nil, ErrInvalidChallengeType
		}
		c.ChallengeType = t
	}
	c.UpdatedAt = s.now()

	if err := s.repo.UpdateChallenge(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteChallenge 删除挑战，创建者、管理员和所属健身房可以删除
func (s *challengeService) DeleteChallenge(ctx context.Context, userID, challengeID uuid.UUID) error {
	viewer, err := s.profiles.FindProfileByID(ctx, userID)
	if err != nil {
		return err
	}
	c, err := s.repo.FindChallengeByID(ctx, challengeID)
	if err != nil {
		return err
	}
	if !permission.CanAdministerChallenge(viewer, c) {
		return ErrForbidden
	}
	if err := s.repo.DeleteChallenge(ctx, challengeID); err != nil {
		return err
	}
	log.Printf("challenge deleted: id=%s by=%s", challengeID, viewer.ID)
	return nil
}

// ========== 参与 ==========

// JoinChallenge 直接创建参与记录，不做任何权限判断
// 对外接口使用 RequestJoin 或 JoinChallengeByCode
func (s *challengeService) JoinChallenge(ctx context.Context, challengeID, userID uuid.UUID) (*challengeModel.Participant, error) {
	c, err := s.repo.FindChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	return s.join(ctx, c, userID)
}

func (s *challengeService) join(ctx context.Context, c *challengeModel.Challenge, userID uuid.UUID) (*challengeModel.Participant, error) {
	p := &challengeModel.Participant{
		ChallengeID: c.ID,
		UserID:      userID,
		JoinedAt:    s.now(),
	}
	if err := s.repo.CreateParticipant(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RequestJoin 不带邀请码加入，只适用于公开挑战（或自己创建的挑战）
func (s *challengeService) RequestJoin(ctx context.Context, userID, challengeID uuid.UUID) (*challengeModel.Participant, error) {
	viewer, err := s.profiles.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if c.EndedBefore(s.today()) {
		return nil, ErrChallengeEnded
	}
	if !c.IsPublic && !permission.IsCreator(viewer, c) {
		return nil, ErrInviteRequired
	}
	if !permission.CanRedeemPublic(viewer, c) {
		return nil, ErrAcademyMismatch
	}
	return s.join(ctx, c, viewer.ID)
}

// JoinChallengeByCode 通过邀请码加入挑战
// 判断顺序：邀请码无效 → 已结束 → 健身房不匹配 → 已参与
func (s *challengeService) JoinChallengeByCode(ctx context.Context, userID uuid.UUID, code string) (*JoinResult, error) {
	viewer, err := s.profiles.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	code = NormalizeInviteCode(code)
	if !IsWellFormedInviteCode(code) {
		return nil, ErrInvalidInviteCode
	}
	c, err := s.repo.FindChallengeByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if c.EndedBefore(s.today()) {
		return nil, ErrChallengeEnded
	}
	if !permission.CanRedeemPublic(viewer, c) {
		return nil, ErrAcademyMismatch
	}

	_, err = s.repo.FindParticipant(ctx, c.ID, viewer.ID)
	switch {
	case err == nil:
		return nil, ErrAlreadyParticipating
	case !errors.Is(err, ErrNotParticipating):
		return nil, err
	}

	p, err := s.join(ctx, c, viewer.ID)
	if err != nil {
		return nil, err
	}
	return &JoinResult{Participant: p, Challenge: c}, nil
}

// LeaveChallenge 退出挑战
func (s *challengeService) LeaveChallenge(ctx context.Context, userID, challengeID uuid.UUID) error {
	return s.repo.DeleteParticipant(ctx, challengeID, userID)
}

// UpdateProgress 更新进度，标记完成时记录完成时间和获得积分
// 取消完成会清空完成时间和积分
func (s *challengeService) UpdateProgress(ctx context.Context, userID, challengeID uuid.UUID, req *UpdateProgressRequest) (*challengeModel.Participant, error) {
	if req.Progress < 0 {
		return nil, ErrInvalidProgress
	}

	p, err := s.repo.FindParticipant(ctx, challengeID, userID)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	p.Progress = req.Progress
	switch {
	case req.Completed && !p.Completed:
		now := s.now()
		p.Completed = true
		p.CompletedAt = &now
		p.PointsEarned = c.RewardPoints
	case req.Completed:
		p.PointsEarned = c.RewardPoints
	default:
		p.Completed = false
		p.CompletedAt = nil
		p.PointsEarned = 0
	}

	if err := s.repo.UpdateParticipant(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ========== 积分 ==========

// DistributeRewardsIfEnded 挑战结束后给每个参与者发放 reward_points
// 每条参与记录只发放一次，重复调用返回 Count=0
func (s *challengeService) DistributeRewardsIfEnded(ctx context.Context, challengeID uuid.UUID) (*RewardResult, error) {
	c, err := s.repo.FindChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !c.EndedBefore(s.today()) {
		return &RewardResult{Distributed: false, Message: "挑战尚未结束"}, nil
	}

	release, err := s.locker.Acquire(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	participants, err := s.repo.FindParticipantsByChallengeID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	count := 0
	for i := range participants {
		p := &participants[i]
		if p.RewardedAt != nil {
			continue
		}
		awarded, err := s.repo.AwardParticipant(ctx, p, c.RewardPoints)
		if err != nil {
			return nil, fmt.Errorf("award participant %s: %w", p.UserID, err)
		}
		if awarded {
			count++
		}
	}

	log.Printf("rewards distributed: challenge=%s points=%d participants=%d", c.ID, c.RewardPoints, count)
	return &RewardResult{
		Distributed: true,
		Count:       count,
		Message:     fmt.Sprintf("已向 %d 名参与者发放 %d 积分", count, c.RewardPoints),
	}, nil
}

// DistributeRewards 对外的积分发放入口，创建者、管理员和所属健身房可以触发
func (s *challengeService) DistributeRewards(ctx context.Context, userID, challengeID uuid.UUID) (*RewardResult, error) {
	viewer, err := s.profiles.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindChallengeByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !permission.CanAdministerChallenge(viewer, c) {
		return nil, ErrForbidden
	}
	return s.DistributeRewardsIfEnded(ctx, challengeID)
}

// GetUserPoints 用户积分：已发放余额和已完成挑战的积分合计
func (s *challengeService) GetUserPoints(ctx context.Context, userID uuid.UUID) (*UserPoints, error) {
	viewer, err := s.profiles.FindProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	earned, err := s.repo.SumCompletedPoints(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	return &UserPoints{Balance: viewer.Points, Earned: earned}, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
