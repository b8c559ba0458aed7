package auth

import "fmt"

// Role is the closed set of account roles. Branching on a role must be
// exhaustive; adding a role means revisiting every switch over it.
type Role string

const (
	// RoleAdmin is clinic staff administration.
	RoleAdmin Role = "admin"
	// RoleDoctor is a practitioner, clinic-affiliated or independent.
	RoleDoctor Role = "doctor"
	// RolePatient is a registered patient.
	RolePatient Role = "patient"
	// RoleMember is the default for accounts created without an invite.
	// A member has no clinic linkage and no profile.
	RoleMember Role = "member"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient, RoleMember:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
