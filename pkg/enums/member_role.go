package enums

import "fmt"

// MemberRole represents an org-level permissions role. Each role carries
// an explicit kind and privilege pair; callers must never dispatch on the
// raw string form.
type MemberRole string

const (
	MemberRoleStoreAdmin    MemberRole = "store_admin"
	MemberRoleStoreStaff    MemberRole = "store_staff"
	MemberRoleProviderAdmin MemberRole = "provider_admin"
	MemberRoleProviderTech  MemberRole = "provider_tech"
	MemberRoleCorpAdmin     MemberRole = "corp_admin"
)

// RoleKind is the organization tier a role belongs to.
type RoleKind string

const (
	RoleKindStore    RoleKind = "store"
	RoleKindProvider RoleKind = "provider"
	RoleKindCorp     RoleKind = "corp"
)

// RolePrivilege orders roles within a kind. Higher values outrank lower.
type RolePrivilege int

const (
	PrivilegeMember RolePrivilege = iota + 1
	PrivilegeAdmin
)

type roleTraits struct {
	kind      RoleKind
	privilege RolePrivilege
}

var traitsByRole = map[MemberRole]roleTraits{
	MemberRoleStoreAdmin:    {kind: RoleKindStore, privilege: PrivilegeAdmin},
	MemberRoleStoreStaff:    {kind: RoleKindStore, privilege: PrivilegeMember},
	MemberRoleProviderAdmin: {kind: RoleKindProvider, privilege: PrivilegeAdmin},
	MemberRoleProviderTech:  {kind: RoleKindProvider, privilege: PrivilegeMember},
	MemberRoleCorpAdmin:     {kind: RoleKindCorp, privilege: PrivilegeAdmin},
}

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	_, ok := traitsByRole[m]
	return ok
}

// Kind returns the organization tier the role belongs to.
func (m MemberRole) Kind() RoleKind {
	return traitsByRole[m].kind
}

// Privilege returns the role's rank within its kind. Unknown roles rank
// below every valid role.
func (m MemberRole) Privilege() RolePrivilege {
	return traitsByRole[m].privilege
}

// Outranks reports whether m holds strictly more privilege than other.
// Corp roles outrank everything, then admins, then members.
func (m MemberRole) Outranks(other MemberRole) bool {
	if m.Kind() == RoleKindCorp && other.Kind() != RoleKindCorp {
		return true
	}
	if other.Kind() == RoleKindCorp && m.Kind() != RoleKindCorp {
		return false
	}
	return m.Privilege() > other.Privilege()
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	role := MemberRole(value)
	if _, ok := traitsByRole[role]; ok {
		return role, nil
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
