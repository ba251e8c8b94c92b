package types

import (
	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// SessionContext carries the caller's identity for a single request. It
// is populated once at request entry from the verified token and passed
// explicitly into services; nothing mutates it afterwards.
type SessionContext struct {
	UserID      uuid.UUID
	AccountRole enums.AccountRole
	ActiveOrgID *uuid.UUID
	Role        enums.MemberRole
}

// HasActiveOrg reports whether the session is scoped to an organization.
func (s SessionContext) HasActiveOrg() bool {
	return s.ActiveOrgID != nil && *s.ActiveOrgID != uuid.Nil
}

// OrgID returns the active organization id or uuid.Nil.
func (s SessionContext) OrgID() uuid.UUID {
	if s.ActiveOrgID == nil {
		return uuid.Nil
	}
	return *s.ActiveOrgID
}
