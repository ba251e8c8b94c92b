package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amaldonado/fixpoint-backend/api/responses"
	"github.com/amaldonado/fixpoint-backend/api/validators"
	"github.com/amaldonado/fixpoint-backend/internal/organizations"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/amaldonado/fixpoint-backend/pkg/errors"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
)

// OrgDirectory lists active organizations with kind/category/search filters.
func OrgDirectory(svc organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "organizations service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := organizations.DirectoryFilters{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, err := enums.ParseOrgKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind filter"))
				return
			}
			filters.Kind = &kind
		}

		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		list, err := svc.ListDirectory(r.Context(), filters, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrgDetail returns one organization by id.
func OrgDetail(svc organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "organizations service unavailable"))
			return
		}

		orgID, err := validators.ParsePathUUID(chi.URLParam(r, "orgID"), "orgID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		org, err := svc.GetByID(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, org)
	}
}
