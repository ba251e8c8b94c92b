package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/internal/onboarding"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

type testOnboardingService struct {
	recordFn func(ctx context.Context, session types.SessionContext, dto onboarding.CompleteStepDTO) (*onboarding.StatusResponse, error)
	statusFn func(ctx context.Context, session types.SessionContext) (*onboarding.StatusResponse, error)
	skipped  bool
	finished bool
}

func (s *testOnboardingService) RecordStepComplete(ctx context.Context, session types.SessionContext, dto onboarding.CompleteStepDTO) (*onboarding.StatusResponse, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, session, dto)
	}
	return &onboarding.StatusResponse{}, nil
}

func (s *testOnboardingService) Complete(ctx context.Context, session types.SessionContext) (*onboarding.StatusResponse, error) {
	s.finished = true
	return &onboarding.StatusResponse{Done: true}, nil
}

func (s *testOnboardingService) Skip(ctx context.Context, session types.SessionContext) (*onboarding.StatusResponse, error) {
	s.skipped = true
	return &onboarding.StatusResponse{Done: true, Skipped: true}, nil
}

func (s *testOnboardingService) Status(ctx context.Context, session types.SessionContext) (*onboarding.StatusResponse, error) {
	if s.statusFn != nil {
		return s.statusFn(ctx, session)
	}
	return &onboarding.StatusResponse{CurrentStep: 1}, nil
}

func (s *testOnboardingService) RecordedSteps(ctx context.Context, session types.SessionContext) ([]onboarding.StepResponse, error) {
	return []onboarding.StepResponse{{Number: 1, Name: "verify_email", Completed: true}}, nil
}

func TestOnboardingStepCompleteForwardsDTO(t *testing.T) {
	var gotDTO onboarding.CompleteStepDTO
	svc := &testOnboardingService{
		recordFn: func(ctx context.Context, session types.SessionContext, dto onboarding.CompleteStepDTO) (*onboarding.StatusResponse, error) {
			gotDTO = dto
			return &onboarding.StatusResponse{CurrentStep: 2}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/steps/1/complete", strings.NewReader(`{"step_name":"verify_email"}`))
	req = withSession(req, sessionForOrg(uuid.New()))
	req = addRouteParam(req, "stepNumber", "1")
	resp := httptest.NewRecorder()
	OnboardingStepComplete(svc, testLogg())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotDTO.StepNumber != 1 || gotDTO.StepName != "verify_email" {
		t.Fatalf("unexpected dto %+v", gotDTO)
	}
}

func TestOnboardingStepCompleteRejectsBadStepNumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/steps/zero/complete", strings.NewReader(`{"step_name":"verify_email"}`))
	req = withSession(req, sessionForOrg(uuid.New()))
	req = addRouteParam(req, "stepNumber", "zero")
	resp := httptest.NewRecorder()
	OnboardingStepComplete(&testOnboardingService{}, testLogg())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOnboardingStepCompleteRequiresStepName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/steps/1/complete", strings.NewReader(`{}`))
	req = withSession(req, sessionForOrg(uuid.New()))
	req = addRouteParam(req, "stepNumber", "1")
	resp := httptest.NewRecorder()
	OnboardingStepComplete(&testOnboardingService{}, testLogg())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOnboardingMarkersDispatch(t *testing.T) {
	svc := &testOnboardingService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/skip", nil)
	req = withSession(req, sessionForOrg(uuid.New()))
	resp := httptest.NewRecorder()
	OnboardingSkip(svc, testLogg())(resp, req)
	if resp.Code != http.StatusOK || !svc.skipped {
		t.Fatalf("skip not dispatched, status %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/complete", nil)
	req = withSession(req, sessionForOrg(uuid.New()))
	resp = httptest.NewRecorder()
	OnboardingComplete(svc, testLogg())(resp, req)
	if resp.Code != http.StatusOK || !svc.finished {
		t.Fatalf("complete not dispatched, status %d", resp.Code)
	}
}

func TestOnboardingStatusRequiresSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/onboarding", nil)
	resp := httptest.NewRecorder()
	OnboardingStatus(&testOnboardingService{}, testLogg())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
