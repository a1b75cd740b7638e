package entities

import "fmt"

// CallRole represents a participant's authority level inside a call
type CallRole string

const (
	CallRoleHost   CallRole = "HOST"
	CallRoleAdmin  CallRole = "ADMIN"
	CallRoleMember CallRole = "MEMBER"
	CallRoleBanned CallRole = "BANNED"
)

// TeamRole represents a membership role reported by the permission gateway
type TeamRole string

const (
	TeamRoleOwner  TeamRole = "OWNER"
	TeamRoleAdmin  TeamRole = "ADMIN"
	TeamRoleMember TeamRole = "MEMBER"
)

// CallRoleFromTeamRole maps a team role onto the corresponding call role.
// The team owner holds HOST authority inside the call; other roles pass
// through unchanged. Unknown role strings are rejected at the boundary
// instead of being stored.
func CallRoleFromTeamRole(role TeamRole) (CallRole, error) {
	switch role {
	case TeamRoleOwner:
		return CallRoleHost, nil
	case TeamRoleAdmin:
		return CallRoleAdmin, nil
	case TeamRoleMember:
		return CallRoleMember, nil
	default:
		return "", fmt.Errorf("unmapped team role %q", role)
	}
}
