package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

type stubRoleChecker struct {
	has      bool
	err      error
	gotRoles []enums.MemberRole
	gotOrgID uuid.UUID
}

func (s *stubRoleChecker) UserHasRole(ctx context.Context, userID, orgID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	s.gotOrgID = orgID
	s.gotRoles = roles
	return s.has, s.err
}

func roleProtectedRequest(t *testing.T, checker MembershipChecker, session *types.SessionContext, roles ...enums.MemberRole) *httptest.ResponseRecorder {
	t.Helper()

	handler := RequireOrgRoles(checker, nil, roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if session != nil {
		req = req.WithContext(WithSession(req.Context(), *session))
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestRequireOrgRolesAllowsMatchingRole(t *testing.T) {
	orgID := uuid.New()
	checker := &stubRoleChecker{has: true}
	session := types.SessionContext{UserID: uuid.New(), ActiveOrgID: &orgID, Role: enums.MemberRoleProviderAdmin}

	resp := roleProtectedRequest(t, checker, &session, enums.MemberRoleProviderAdmin, enums.MemberRoleProviderTech)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if checker.gotOrgID != orgID {
		t.Fatalf("checked org %s, want %s", checker.gotOrgID, orgID)
	}
	if len(checker.gotRoles) != 2 {
		t.Fatalf("expected 2 allowed roles forwarded, got %v", checker.gotRoles)
	}
}

func TestRequireOrgRolesRejectsMissingRole(t *testing.T) {
	orgID := uuid.New()
	checker := &stubRoleChecker{has: false}
	session := types.SessionContext{UserID: uuid.New(), ActiveOrgID: &orgID, Role: enums.MemberRoleStoreStaff}

	resp := roleProtectedRequest(t, checker, &session, enums.MemberRoleProviderAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireOrgRolesRequiresSession(t *testing.T) {
	resp := roleProtectedRequest(t, &stubRoleChecker{has: true}, nil, enums.MemberRoleStoreAdmin)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireOrgRolesRequiresActiveOrg(t *testing.T) {
	session := types.SessionContext{UserID: uuid.New()}

	resp := roleProtectedRequest(t, &stubRoleChecker{has: true}, &session, enums.MemberRoleStoreAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireOrgRolesSurfacesCheckerFailure(t *testing.T) {
	orgID := uuid.New()
	checker := &stubRoleChecker{err: errors.New("db down")}
	session := types.SessionContext{UserID: uuid.New(), ActiveOrgID: &orgID, Role: enums.MemberRoleStoreAdmin}

	resp := roleProtectedRequest(t, checker, &session, enums.MemberRoleStoreAdmin)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
