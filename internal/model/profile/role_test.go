package profile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"student", RoleStudent, true},
		{"personal", RolePersonal, true},
		{"academy", RoleAcademy, true},
		{"admin", RoleAdmin, true},
		{"Admin", Role("Admin"), false},
		{"aluno", Role("aluno"), false},
		{"", Role(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRole(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role          Role
		academyScoped bool
		createsPublic bool
		seesAll       bool
		seesAllPublic bool
	}{
		{RoleStudent, true, false, false, false},
		{RolePersonal, true, false, false, false},
		{RoleAcademy, false, true, false, true},
		{RoleAdmin, false, false, true, false},
		{Role("unknown"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.academyScoped, tt.role.IsAcademyScoped())
			assert.Equal(t, tt.createsPublic, tt.role.CreatesPublicChallenges())
			assert.Equal(t, tt.seesAll, tt.role.SeesAllChallenges())
			assert.Equal(t, tt.seesAllPublic, tt.role.SeesAllPublicChallenges())
		})
	}
}

func TestProfile_BelongsTo(t *testing.T) {
	g1 := uuid.New()
	g2 := uuid.New()

	assert.True(t, (&Profile{AcademyID: &g1}).BelongsTo(&g1))
	assert.False(t, (&Profile{AcademyID: &g1}).BelongsTo(&g2))
	assert.False(t, (&Profile{}).BelongsTo(&g1))
	assert.False(t, (&Profile{AcademyID: &g1}).BelongsTo(nil))
	assert.True(t, (&Profile{}).BelongsTo(nil))
}
