package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/api/middleware"
	"github.com/amaldonado/fixpoint-backend/api/responses"
	"github.com/amaldonado/fixpoint-backend/internal/memberships"
	"github.com/amaldonado/fixpoint-backend/internal/routing"
	pkgerrors "github.com/amaldonado/fixpoint-backend/pkg/errors"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
)

type membershipLister interface {
	ListUserOrgs(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithOrg, error)
}

// ResolveRoute returns the landing destination for the caller based on
// their active memberships and account role.
func ResolveRoute(lister membershipLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if lister == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "memberships repository unavailable"))
			return
		}

		session, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		rows, err := lister.ListUserOrgs(r.Context(), session.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list memberships"))
			return
		}

		refs := make([]routing.MembershipRef, 0, len(rows))
		for _, row := range rows {
			refs = append(refs, routing.MembershipRef{OrgID: row.OrgID, Role: row.Role})
		}

		responses.WriteSuccess(w, routing.Route(refs, session.AccountRole))
	}
}
