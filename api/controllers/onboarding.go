package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amaldonado/fixpoint-backend/api/middleware"
	"github.com/amaldonado/fixpoint-backend/api/responses"
	"github.com/amaldonado/fixpoint-backend/api/validators"
	"github.com/amaldonado/fixpoint-backend/internal/onboarding"
	pkgerrors "github.com/amaldonado/fixpoint-backend/pkg/errors"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

type completeStepBody struct {
	StepName string            `json:"step_name" validate:"required"`
	Payload  types.StepPayload `json:"payload"`
}

// OnboardingStatus reports the caller's derived onboarding position.
func OnboardingStatus(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "onboarding service unavailable"))
			return
		}

		session, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		status, err := svc.Status(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// OnboardingSteps returns the recorded step audit trail.
func OnboardingSteps(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "onboarding service unavailable"))
			return
		}

		session, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		steps, err := svc.RecordedSteps(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, steps)
	}
}

// OnboardingStepComplete records one finished step and returns the
// refreshed status.
func OnboardingStepComplete(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "onboarding service unavailable"))
			return
		}

		session, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "stepNumber"))
		stepNumber, err := strconv.Atoi(raw)
		if err != nil || stepNumber <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "step number must be a positive integer"))
			return
		}

		var body completeStepBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.RecordStepComplete(r.Context(), session, onboarding.CompleteStepDTO{
			StepNumber: stepNumber,
			StepName:   body.StepName,
			Payload:    body.Payload,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// OnboardingComplete sets the terminal completion marker.
func OnboardingComplete(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return onboardingMarker(svc, logg, func(svc onboarding.Service) markerFunc {
		return svc.Complete
	})
}

// OnboardingSkip marks the remaining journey as skipped.
func OnboardingSkip(svc onboarding.Service, logg *logger.Logger) http.HandlerFunc {
	return onboardingMarker(svc, logg, func(svc onboarding.Service) markerFunc {
		return svc.Skip
	})
}

type markerFunc func(ctx context.Context, session types.SessionContext) (*onboarding.StatusResponse, error)

func onboardingMarker(svc onboarding.Service, logg *logger.Logger, pick func(onboarding.Service) markerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "onboarding service unavailable"))
			return
		}

		session, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		status, err := pick(svc)(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
