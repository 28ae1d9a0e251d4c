// Package permission 挑战相关的权限判断
// 角色能力定义在 profile.Role 上，这里只组合用户、挑战和参与状态
package permission

import (
	challengeModel "fittrack/challenge-service/internal/model/challenge"
	profileModel "fittrack/challenge-service/internal/model/profile"

	"github.com/google/uuid"
)

// OwnsAcademyOf 用户是挑战所属的健身房
func OwnsAcademyOf(viewer *profileModel.Profile, c *challengeModel.Challenge) bool {
	return viewer.Role.IsAcademy() && c.AcademyID != nil && *c.AcademyID == viewer.ID
}

// IsCreator 用户是挑战创建者
func IsCreator(viewer *profileModel.Profile, c *challengeModel.Challenge) bool {
	return c.CreatedBy == viewer.ID
}

// CanSeeRoster 参与者名单只对创建者、参与者、管理员和所属健身房可见
func CanSeeRoster(viewer *profileModel.Profile, c *challengeModel.Challenge, participating bool) bool {
	return IsCreator(viewer, c) ||
		participating ||
		viewer.Role.IsAdmin() ||
		OwnsAcademyOf(viewer, c)
}

// CanSeeInviteCode 邀请码只给创建者和参与者看，管理员和所属健身房看不到
func CanSeeInviteCode(viewer *profileModel.Profile, c *challengeModel.Challenge, participating bool) bool {
	return IsCreator(viewer, c) || participating
}

// CanManageChallenge 修改挑战内容：创建者或管理员
func CanManageChallenge(viewer *profileModel.Profile, c *challengeModel.Challenge) bool {
	return IsCreator(viewer, c) || viewer.Role.IsAdmin()
}

// CanAdministerChallenge 删除挑战、发放积分：创建者、管理员或所属健身房
func CanAdministerChallenge(viewer *profileModel.Profile, c *challengeModel.Challenge) bool {
	return CanManageChallenge(viewer, c) || OwnsAcademyOf(viewer, c)
}

// CanRedeemPublic 公开挑战不需要邀请码即可发现，因此学员和私教只能加入本健身房的公开挑战
// 私有挑战不限制健身房，持有邀请码即视为受邀
func CanRedeemPublic(viewer *profileModel.Profile, c *challengeModel.Challenge) bool {
	if !c.IsPublic || !viewer.Role.IsAcademyScoped() {
		return true
	}
	return viewer.BelongsTo(c.AcademyID)
}

// CanViewAcademyMembers 健身房成员列表：管理员或健身房本身
func CanViewAcademyMembers(viewer *profileModel.Profile, academyID uuid.UUID) bool {
	return viewer.Role.IsAdmin() || (viewer.Role.IsAcademy() && viewer.ID == academyID)
}
