package users_enums

import "fmt"

type UserRole string

const (
	UserRoleSuperAdmin             UserRole = "super_admin"
	UserRoleOwner                  UserRole = "owner"
	UserRoleTeamLead               UserRole = "team_lead"
	UserRoleAgent                  UserRole = "agent"
	UserRoleTransactionCoordinator UserRole = "transaction_coordinator"
	UserRoleIsa                    UserRole = "isa"
)

var roleRanks = map[UserRole]int{
	UserRoleIsa:                    1,
	UserRoleTransactionCoordinator: 2,
	UserRoleAgent:                  3,
	UserRoleTeamLead:               4,
	UserRoleOwner:                  5,
	UserRoleSuperAdmin:             6,
}

// AllRoles is ordered from the highest rank to the lowest.
var AllRoles = []UserRole{
	UserRoleSuperAdmin,
	UserRoleOwner,
	UserRoleTeamLead,
	UserRoleAgent,
	UserRoleTransactionCoordinator,
	UserRoleIsa,
}

func ParseUserRole(value string) (UserRole, error) {
	role := UserRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", value)
	}

	return role, nil
}

// Rank is 0 for unknown roles so they never satisfy a minimum.
func (r UserRole) Rank() int {
	return roleRanks[r]
}

func (r UserRole) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

func (r UserRole) AtLeast(required UserRole) bool {
	return r.IsValid() && r.Rank() >= required.Rank()
}

func (r UserRole) Outranks(other UserRole) bool {
	return r.Rank() > other.Rank()
}

func (r UserRole) IsTeamManager() bool {
	return r == UserRoleOwner || r == UserRoleTeamLead
}

// IsTeamRole reports whether the role can be held inside a team.
func (r UserRole) IsTeamRole() bool {
	return r.IsValid() && r != UserRoleSuperAdmin
}

func (r UserRole) Label() string {
	switch r {
	case UserRoleSuperAdmin:
		return "Super Admin"
	case UserRoleOwner:
		return "Owner"
	case UserRoleTeamLead:
		return "Team Lead"
	case UserRoleAgent:
		return "Agent"
	case UserRoleTransactionCoordinator:
		return "Transaction Coordinator"
	case UserRoleIsa:
		return "ISA"
	default:
		return string(r)
	}
}
