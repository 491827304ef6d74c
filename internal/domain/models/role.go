// internal/domain/models/role.go
package models

import "strings"

// Role is the closed set of account roles. A user's role is fixed at
// creation; no request path changes it.
type Role string

const (
	RoleIndividual   Role = "individual"
	RoleOrganization Role = "organization"
	RoleMediator     Role = "mediator"
	RoleAdmin        Role = "admin"
	RoleArbitrator   Role = "arbitrator"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleIndividual, RoleOrganization, RoleMediator, RoleAdmin, RoleArbitrator}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleIndividual, RoleOrganization, RoleMediator, RoleAdmin, RoleArbitrator:
		return true
	}
	return false
}

// IsParty reports whether the role files disputes on its own behalf.
func (r Role) IsParty() bool {
	return r == RoleIndividual || r == RoleOrganization
}
