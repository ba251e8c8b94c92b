package routing

import (
	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// Destination is a symbolic landing target the client shell maps to a
// screen. The router never emits URLs.
type Destination string

const (
	DestinationAdminDashboard     Destination = "admin_dashboard"
	DestinationProviderDashboard  Destination = "provider_dashboard"
	DestinationStoreDashboard     Destination = "store_dashboard"
	DestinationStoreOnboarding    Destination = "store_onboarding"
	DestinationProviderOnboarding Destination = "provider_onboarding"
)

// MembershipRef is the minimal membership view the router needs.
type MembershipRef struct {
	OrgID uuid.UUID
	Role  enums.MemberRole
}

// Result carries the chosen destination and, when a membership decided
// it, the org that should become the active context.
type Result struct {
	Destination Destination `json:"destination"`
	OrgID       *uuid.UUID  `json:"org_id,omitempty"`
}

// Route picks the landing destination for a user. Pure and total: any
// combination of inputs yields a destination, no I/O, no side effects.
//
// Memberships win over account role: the highest-privilege membership's
// role kind picks the dashboard. Without memberships the account role
// picks the onboarding entry point, never a dashboard.
func Route(memberships []MembershipRef, accountRole enums.AccountRole) Result {
	if len(memberships) == 0 {
		if accountRole.OrgKind() == enums.OrgKindProvider {
			return Result{Destination: DestinationProviderOnboarding}
		}
		return Result{Destination: DestinationStoreOnboarding}
	}

	best := memberships[0]
	for _, m := range memberships[1:] {
		if m.Role.Outranks(best.Role) {
			best = m
		}
	}

	orgID := best.OrgID
	switch best.Role.Kind() {
	case enums.RoleKindCorp:
		return Result{Destination: DestinationAdminDashboard, OrgID: &orgID}
	case enums.RoleKindProvider:
		return Result{Destination: DestinationProviderDashboard, OrgID: &orgID}
	default:
		return Result{Destination: DestinationStoreDashboard, OrgID: &orgID}
	}
}
