package domain

import "time"

// Role classifies an actor for authorization decisions.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleTeamLeader     Role = "team_leader"
	RoleAccountManager Role = "account_manager"
	RoleVideographer   Role = "videographer"
	RolePhotographer   Role = "photographer"
	RoleEditor         Role = "editor"
	RoleCreator        Role = "creator"
	RoleDesigner       Role = "designer"
	RoleClient         Role = "client"
)

// IsValid checks if the role is one of the allowed values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeamLeader, RoleAccountManager,
		RoleVideographer, RolePhotographer, RoleEditor,
		RoleCreator, RoleDesigner, RoleClient:
		return true
	default:
		return false
	}
}

// IsManager returns true for roles that run a department.
func (r Role) IsManager() bool {
	return r == RoleTeamLeader || r == RoleAccountManager
}

// IsSpecialist returns true for roles that work production stages.
func (r Role) IsSpecialist() bool {
	switch r {
	case RoleVideographer, RolePhotographer, RoleEditor, RoleCreator, RoleDesigner:
		return true
	default:
		return false
	}
}

// User is an authenticated actor. Role and Department are mutable account
// attributes; authorization must always be evaluated against a freshly loaded
// User, never a cached one.
type User struct {
	ID         string
	Name       string
	Token      string
	Role       Role
	Department Department
	IsActive   bool
	CreatedAt  time.Time
}
