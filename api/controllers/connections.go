package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/api/middleware"
	"github.com/amaldonado/fixpoint-backend/api/responses"
	"github.com/amaldonado/fixpoint-backend/api/validators"
	"github.com/amaldonado/fixpoint-backend/internal/connections"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/amaldonado/fixpoint-backend/pkg/errors"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

type connectionRequestBody struct {
	ProviderOrgID string `json:"provider_org_id" validate:"required,uuid"`
}

// ConnectionRequest submits a store-to-provider connection request.
func ConnectionRequest(svc connections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connections service unavailable"))
			return
		}

		session, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var body connectionRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		providerOrgID, err := validators.ParsePathUUID(body.ProviderOrgID, "provider_org_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conn, err := svc.Request(r.Context(), session, providerOrgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, conn)
	}
}

type decisionFunc func(ctx context.Context, session types.SessionContext, connectionID uuid.UUID) (*connections.ConnectionResponse, error)

// ConnectionAccept moves a pending connection to active.
func ConnectionAccept(svc connections.Service, logg *logger.Logger) http.HandlerFunc {
	var decide decisionFunc
	if svc != nil {
		decide = svc.Accept
	}
	return connectionDecision(decide, logg)
}

// ConnectionReject declines a pending connection.
func ConnectionReject(svc connections.Service, logg *logger.Logger) http.HandlerFunc {
	var decide decisionFunc
	if svc != nil {
		decide = svc.Reject
	}
	return connectionDecision(decide, logg)
}

func connectionDecision(decide decisionFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if decide == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connections service unavailable"))
			return
		}

		session, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		connectionID, err := validators.ParsePathUUID(chi.URLParam(r, "connectionID"), "connectionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conn, err := decide(r.Context(), session, connectionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, conn)
	}
}

// ListConnections returns the caller's connections for their active org.
func ListConnections(svc connections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connections service unavailable"))
			return
		}

		session, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		if !session.HasActiveOrg() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "org context required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := connections.ListFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseConnectionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		list, err := svc.ListForOrg(r.Context(), session, session.OrgID(), filters, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
