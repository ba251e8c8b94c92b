package enums

import "fmt"

// AccountRole is the self-declared role captured at signup, before any
// membership exists. It only ever steers the onboarding entry point.
type AccountRole string

const (
	AccountRoleStore       AccountRole = "store"
	AccountRoleMaintenance AccountRole = "maintenance"
)

var validAccountRoles = []AccountRole{
	AccountRoleStore,
	AccountRoleMaintenance,
}

// String implements fmt.Stringer.
func (a AccountRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccountRole.
func (a AccountRole) IsValid() bool {
	for _, candidate := range validAccountRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// OrgKind maps the account role onto the organization kind the account
// will eventually create or join.
func (a AccountRole) OrgKind() OrgKind {
	if a == AccountRoleMaintenance {
		return OrgKindProvider
	}
	return OrgKindStore
}

// ParseAccountRole converts raw input into an AccountRole.
func ParseAccountRole(value string) (AccountRole, error) {
	for _, candidate := range validAccountRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account role %q", value)
}
