// Package actors resolves authenticated identities to registered users
// and their workflow capabilities.
package actors

import (
	"github.com/google/uuid"
)

// Roles assignable to registered users.
const (
	RoleTeacher       = "teacher"
	RoleProgramLeader = "program_leader"
	RoleDean          = "dean"
	RoleUmu           = "umu"
	RoleAdmin         = "admin"
)

// Capability is a bit set of workflow permissions derived from a user's role.
type Capability uint8

const (
	// CapAuthor permits creating and editing syllabi and submitting them for review.
	CapAuthor Capability = 1 << iota
	// CapDean permits dean-stage review decisions.
	CapDean
	// CapMethodology permits methodology-office review decisions and
	// re-uploading files on approved syllabi.
	CapMethodology
	// CapOverride permits administrative transitions outside the normal flow.
	CapOverride
)

// Has reports whether the set contains the given capability.
func (c Capability) Has(cap Capability) bool {
	return c&cap != 0
}

// Actor is a registered user resolved from an authenticated identity.
type Actor struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
}

// Capabilities returns the capability set implied by the actor's role.
func (a *Actor) Capabilities() Capability {
	return RoleCapabilities(a.Role)
}

// RoleCapabilities maps a role name to its capability set.
// Unknown roles carry no capabilities.
func RoleCapabilities(role string) Capability {
	switch role {
	case RoleTeacher, RoleProgramLeader:
		return CapAuthor
	case RoleDean:
		return CapDean
	case RoleUmu:
		return CapMethodology
	case RoleAdmin:
		return CapAuthor | CapDean | CapMethodology | CapOverride
	default:
		return 0
	}
}
