package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	AccountRole enums.AccountRole
	ActiveOrgID *uuid.UUID
	Role        enums.MemberRole
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients. The
// identity provider is the source of truth for user_id and account_role;
// active_org_id and role are present once the user holds a membership.
type AccessTokenClaims struct {
	UserID      uuid.UUID         `json:"user_id"`
	AccountRole enums.AccountRole `json:"account_role"`
	ActiveOrgID *uuid.UUID        `json:"active_org_id,omitempty"`
	Role        enums.MemberRole  `json:"role,omitempty"`
	jwt.RegisteredClaims
}
