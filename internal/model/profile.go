package model

import "strings"

// Role is a member's trust level in the family workspace.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// ParseRole normalises a role string. Unknown values are returned unchanged
// and are denied by the permission policy.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Roles lists the known roles from most to least trusted.
func Roles() []Role {
	return []Role{RoleAdmin, RoleParent, RoleChild}
}

// Profile is the read-only view of the user issuing a request.
type Profile struct {
	UserID      string
	DisplayName string
	Role        Role
}

// Scope identifies who is talking, in which workspace and session.
type Scope struct {
	UserID      string
	WorkspaceID string
	SessionID   string
	Role        Role
}
