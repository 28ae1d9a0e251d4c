package profile

// Role 用户角色，封闭枚举
type Role string

const (
	RoleStudent  Role = "student"
	RolePersonal Role = "personal" // 私人教练
	RoleAcademy  Role = "academy"  // 健身房
	RoleAdmin    Role = "admin"
)

// ParseRole 解析角色字符串，未知角色返回 false
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RolePersonal, RoleAcademy, RoleAdmin:
		return true
	}
	return false
}

// IsAcademyScoped 学员和私教隶属于某个健身房，只能看到本健身房的公开挑战
func (r Role) IsAcademyScoped() bool {
	return r == RoleStudent || r == RolePersonal
}

// CreatesPublicChallenges 健身房创建的挑战总是公开的，其他角色总是私有的
func (r Role) CreatesPublicChallenges() bool {
	return r == RoleAcademy
}

// SeesAllChallenges 不做任何可见性过滤
func (r Role) SeesAllChallenges() bool {
	return r == RoleAdmin
}

// SeesAllPublicChallenges 可以看到任意健身房的公开挑战
func (r Role) SeesAllPublicChallenges() bool {
	return r == RoleAcademy
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) IsAcademy() bool {
	return r == RoleAcademy
}
