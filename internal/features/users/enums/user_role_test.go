package users_enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AtLeast_ForAllRolePairs_MatchesRankOrder(t *testing.T) {
	for _, actual := range AllRoles {
		for _, required := range AllRoles {
			expected := actual.Rank() >= required.Rank()
			assert.Equal(t, expected, actual.AtLeast(required),
				"AtLeast(%s, %s)", actual, required)
		}
	}
}

func Test_Rank_ForAllRoles_IsStrictlyDecreasingInAllRoles(t *testing.T) {
	for i := 1; i < len(AllRoles); i++ {
		assert.True(t, AllRoles[i-1].Outranks(AllRoles[i]),
			"%s should outrank %s", AllRoles[i-1], AllRoles[i])
	}
}

func Test_AtLeast_WithUnknownRole_NeverPasses(t *testing.T) {
	unknown := UserRole("admin")

	assert.False(t, unknown.IsValid())
	assert.Equal(t, 0, unknown.Rank())
	assert.False(t, unknown.AtLeast(UserRoleIsa))
}

func Test_ParseUserRole_WithInvalidValue_ReturnsError(t *testing.T) {
	role, err := ParseUserRole("team_lead")
	assert.NoError(t, err)
	assert.Equal(t, UserRoleTeamLead, role)

	_, err = ParseUserRole("TEAM_LEAD")
	assert.Error(t, err)
}

func Test_IsTeamManager_OnlyForOwnerAndTeamLead(t *testing.T) {
	managers := map[UserRole]bool{UserRoleOwner: true, UserRoleTeamLead: true}

	for _, role := range AllRoles {
		assert.Equal(t, managers[role], role.IsTeamManager(), "role %s", role)
	}
}

func Test_IsTeamRole_ExcludesSuperAdmin(t *testing.T) {
	assert.False(t, UserRoleSuperAdmin.IsTeamRole())
	assert.True(t, UserRoleOwner.IsTeamRole())
	assert.True(t, UserRoleIsa.IsTeamRole())
	assert.False(t, UserRole("").IsTeamRole())
}
