package enums

import "fmt"

// OrgKind represents the canonical org_kind enum in Postgres.
type OrgKind string

const (
	OrgKindStore    OrgKind = "store"
	OrgKindProvider OrgKind = "provider"
)

var validOrgKinds = []OrgKind{
	OrgKindStore,
	OrgKindProvider,
}

// String implements fmt.Stringer.
func (k OrgKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known OrgKind.
func (k OrgKind) IsValid() bool {
	for _, candidate := range validOrgKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseOrgKind converts raw input into an OrgKind.
func ParseOrgKind(value string) (OrgKind, error) {
	for _, candidate := range validOrgKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid org kind %q", value)
}
