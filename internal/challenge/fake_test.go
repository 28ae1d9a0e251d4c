package challenge

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	challengeModel "fittrack/challenge-service/internal/model/challenge"
	profileModel "fittrack/challenge-service/internal/model/profile"
	"fittrack/challenge-service/internal/profile"

	"github.com/google/uuid"
)

// fakeRepository ChallengeRepository 和 ProfileReader 的内存实现
type fakeRepository struct {
	mu           sync.Mutex
	challenges   map[uuid.UUID]*challengeModel.Challenge
	participants map[uuid.UUID]*challengeModel.Participant
	profiles     map[uuid.UUID]*profileModel.Profile

	// createErrs 依次作为 CreateChallenge 的返回值，用于模拟邀请码冲突
	createErrs []error
	// ownerErr 写入创建者参与记录时返回的错误，挑战随之回滚
	ownerErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		challenges:   make(map[uuid.UUID]*challengeModel.Challenge),
		participants: make(map[uuid.UUID]*challengeModel.Participant),
		profiles:     make(map[uuid.UUID]*profileModel.Profile),
	}
}

func (r *fakeRepository) addProfile(p *profileModel.Profile) *profileModel.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.profiles[p.ID] = p
	return p
}

func (r *fakeRepository) participantCount(challengeID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.participants {
		if p.ChallengeID == challengeID {
			n++
		}
	}
	return n
}

func (r *fakeRepository) points(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[userID].Points
}

func (r *fakeRepository) findParticipantLocked(challengeID, userID uuid.UUID) *challengeModel.Participant {
	for _, p := range r.participants {
		if p.ChallengeID == challengeID && p.UserID == userID {
			return p
		}
	}
	return nil
}

// ========== ProfileReader ==========

func (r *fakeRepository) FindProfileByID(_ context.Context, id uuid.UUID) (*profileModel.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepository) FindProfilesByIDs(_ context.Context, ids []uuid.UUID) ([]profileModel.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var out []profileModel.Profile
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, *p)
		}
	}
	return out, nil
}

// ========== ChallengeRepository ==========

func (r *fakeRepository) CreateChallenge(_ context.Context, c *challengeModel.Challenge, owner *challengeModel.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range r.challenges {
		if existing.InviteCode == c.InviteCode {
			return ErrInviteCodeTaken
		}
	}
	if owner != nil && r.ownerErr != nil {
		return r.ownerErr
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	cp := *c
	r.challenges[c.ID] = &cp

	if owner != nil {
		owner.ChallengeID = c.ID
		if owner.ID == uuid.Nil {
			owner.ID = uuid.New()
		}
		op := *owner
		r.participants[owner.ID] = &op
	}
	return nil
}

func (r *fakeRepository) FindChallengeByID(_ context.Context, id uuid.UUID) (*challengeModel.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepository) FindChallengeByInviteCode(_ context.Context, code string) (*challengeModel.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.challenges {
		if c.InviteCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrInvalidInviteCode
}

func (r *fakeRepository) UpdateChallenge(_ context.Context, c *challengeModel.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.challenges[c.ID]; !ok {
		return ErrChallengeNotFound
	}
	cp := *c
	r.challenges[c.ID] = &cp
	return nil
}

func (r *fakeRepository) DeleteChallenge(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.challenges[id]; !ok {
		return ErrChallengeNotFound
	}
	delete(r.challenges, id)
	for pid, p := range r.participants {
		if p.ChallengeID == id {
			delete(r.participants, pid)
		}
	}
	return nil
}

func (r *fakeRepository) ListChallenges(_ context.Context, scope VisibilityScope, query ListQuery) ([]ChallengeSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []ChallengeSummary
	for _, c := range r.challenges {
		mine := r.findParticipantLocked(c.ID, query.ViewerID)
		if !scope.Allows(c, r.findParticipantLocked(c.ID, scope.UserID) != nil) {
			continue
		}
		switch query.Filter {
		case FilterActive:
			if c.EndedBefore(query.Today) {
				continue
			}
		case FilterCompleted:
			if !c.EndedBefore(query.Today) {
				continue
			}
		}
		if query.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(query.Search)) {
			continue
		}

		s := ChallengeSummary{Challenge: *c, IsParticipating: mine != nil}
		for _, p := range r.participants {
			if p.ChallengeID == c.ID {
				s.ParticipantCount++
			}
		}
		if mine != nil {
			progress := mine.Progress
			s.UserProgress = &progress
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (r *fakeRepository) CreateParticipant(_ context.Context, p *challengeModel.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findParticipantLocked(p.ChallengeID, p.UserID) != nil {
		return ErrAlreadyParticipating
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.participants[p.ID] = &cp
	return nil
}

func (r *fakeRepository) FindParticipant(_ context.Context, challengeID, userID uuid.UUID) (*challengeModel.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.findParticipantLocked(challengeID, userID)
	if p == nil {
		return nil, ErrNotParticipating
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepository) FindParticipantsByChallengeID(_ context.Context, challengeID uuid.UUID) ([]challengeModel.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []challengeModel.Participant
	for _, p := range r.participants {
		if p.ChallengeID == challengeID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (r *fakeRepository) UpdateParticipant(_ context.Context, p *challengeModel.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[p.ID]; !ok {
		return ErrNotParticipating
	}
	cp := *p
	r.participants[p.ID] = &cp
	return nil
}

func (r *fakeRepository) DeleteParticipant(_ context.Context, challengeID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.findParticipantLocked(challengeID, userID)
	if p == nil {
		return ErrNotParticipating
	}
	delete(r.participants, p.ID)
	return nil
}

func (r *fakeRepository) AwardParticipant(_ context.Context, p *challengeModel.Participant, points int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.participants[p.ID]
	if !ok || stored.RewardedAt != nil {
		return false, nil
	}
	owner, ok := r.profiles[stored.UserID]
	if !ok {
		return false, nil
	}
	now := time.Now()
	stored.RewardedAt = &now
	owner.Points += points
	return true, nil
}

func (r *fakeRepository) SumCompletedPoints(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, p := range r.participants {
		if p.UserID == userID && p.Completed {
			total += p.PointsEarned
		}
	}
	return total, nil
}
