package challenge

import (
	challengeModel "fittrack/challenge-service/internal/model/challenge"
	profileModel "fittrack/challenge-service/internal/model/profile"

	"github.com/google/uuid"
)

// VisibilityScope 某个用户可以在列表中看到的挑战范围
//
//   - 管理员: 全部
//   - 健身房: 自己创建的 ∪ 全部公开挑战 ∪ 参与的私有挑战
//   - 学员/私教: 自己创建的 ∪ 本健身房的公开挑战 ∪ 参与的私有挑战
type VisibilityScope struct {
	All             bool
	UserID          uuid.UUID
	AllPublic       bool
	PublicAcademyID *uuid.UUID
}

// ScopeFor 根据用户角色计算可见范围
func ScopeFor(p *profileModel.Profile) VisibilityScope {
	if p.Role.SeesAllChallenges() {
		return VisibilityScope{All: true, UserID: p.ID}
	}

	scope := VisibilityScope{UserID: p.ID}
	switch {
	case p.Role.SeesAllPublicChallenges():
		scope.AllPublic = true
	case p.Role.IsAcademyScoped() && p.AcademyID != nil:
		academyID := *p.AcademyID
		scope.PublicAcademyID = &academyID
	}
	return scope
}

// Allows 判断挑战是否在范围内
// participating: 该用户是否参与了这个挑战
func (s VisibilityScope) Allows(c *challengeModel.Challenge, participating bool) bool {
	if s.All || c.CreatedBy == s.UserID {
		return true
	}
	if c.IsPublic {
		if s.AllPublic {
			return true
		}
		return s.PublicAcademyID != nil && c.AcademyID != nil && *c.AcademyID == *s.PublicAcademyID
	}
	return participating
}
