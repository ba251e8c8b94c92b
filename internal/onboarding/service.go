package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	pkgerrors "github.com/amaldonado/fixpoint-backend/pkg/errors"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

type stepRepository interface {
	UpsertStep(ctx context.Context, userID uuid.UUID, stepNumber int, stepName string, payload types.StepPayload, completedAt time.Time) (*models.OnboardingStep, error)
	ListSteps(ctx context.Context, userID uuid.UUID) ([]models.OnboardingStep, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateFlags(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// Service tracks per-user onboarding progress.
type Service interface {
	RecordStepComplete(ctx context.Context, session types.SessionContext, dto CompleteStepDTO) (*StatusResponse, error)
	Complete(ctx context.Context, session types.SessionContext) (*StatusResponse, error)
	Skip(ctx context.Context, session types.SessionContext) (*StatusResponse, error)
	Status(ctx context.Context, session types.SessionContext) (*StatusResponse, error)
	RecordedSteps(ctx context.Context, session types.SessionContext) ([]StepResponse, error)
}

type service struct {
	steps stepRepository
	users userRepository
	now   func() time.Time
}

// NewService builds an onboarding service with the provided repositories.
func NewService(steps stepRepository, users userRepository) (Service, error) {
	if steps == nil {
		return nil, fmt.Errorf("onboarding repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{steps: steps, users: users, now: time.Now}, nil
}

// RecordStepComplete upserts the step row, flips the matching user
// flag, and returns the derived status. Re-completing an earlier step
// is accepted and never regresses the derived current step.
func (s *service) RecordStepComplete(ctx context.Context, session types.SessionContext, dto CompleteStepDTO) (*StatusResponse, error) {
	user, err := s.loadUser(ctx, session)
	if err != nil {
		return nil, err
	}

	step, ok := StepByNumber(user.AccountRole, dto.StepNumber)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("step %d is not part of this account's sequence", dto.StepNumber))
	}
	if dto.StepName != "" && dto.StepName != step.Name {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("step %d is %q, not %q", step.Number, step.Name, dto.StepName))
	}

	completedAt := s.now().UTC()
	if _, err := s.steps.UpsertStep(ctx, user.ID, step.Number, step.Name, dto.Payload, completedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record step")
	}

	updates := map[string]any{step.flag: true}
	applyFlag(user, step.flag)
	if step.Terminal && !user.OnboardingCompleted {
		updates["onboarding_completed"] = true
		updates["onboarding_completed_at"] = completedAt
		user.OnboardingCompleted = true
		user.OnboardingCompletedAt = &completedAt
	}
	if err := s.users.UpdateFlags(ctx, user.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update onboarding flags")
	}

	return s.buildStatus(user)
}

// Complete sets the terminal completion marker regardless of remaining
// skippable steps. Idempotent.
func (s *service) Complete(ctx context.Context, session types.SessionContext) (*StatusResponse, error) {
	user, err := s.loadUser(ctx, session)
	if err != nil {
		return nil, err
	}

	if !user.OnboardingCompleted {
		completedAt := s.now().UTC()
		updates := map[string]any{
			"onboarding_completed":    true,
			"onboarding_completed_at": completedAt,
		}
		if err := s.users.UpdateFlags(ctx, user.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete onboarding")
		}
		user.OnboardingCompleted = true
		user.OnboardingCompletedAt = &completedAt
	}

	return s.buildStatus(user)
}

// Skip marks onboarding as skipped. The skip marker short-circuits the
// derived current step to done. Idempotent.
func (s *service) Skip(ctx context.Context, session types.SessionContext) (*StatusResponse, error) {
	user, err := s.loadUser(ctx, session)
	if err != nil {
		return nil, err
	}

	if user.OnboardingSkippedAt == nil {
		skippedAt := s.now().UTC()
		if err := s.users.UpdateFlags(ctx, user.ID, map[string]any{"onboarding_skipped_at": skippedAt}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "skip onboarding")
		}
		user.OnboardingSkippedAt = &skippedAt
	}

	return s.buildStatus(user)
}

// Status reports the denormalized flags and the derived current step.
func (s *service) Status(ctx context.Context, session types.SessionContext) (*StatusResponse, error) {
	user, err := s.loadUser(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.buildStatus(user)
}

// RecordedSteps returns the audit trail of step rows for the user.
func (s *service) RecordedSteps(ctx context.Context, session types.SessionContext) ([]StepResponse, error) {
	user, err := s.loadUser(ctx, session)
	if err != nil {
		return nil, err
	}
	rows, err := s.steps.ListSteps(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list steps")
	}
	out := make([]StepResponse, 0, len(rows))
	for i := range rows {
		out = append(out, stepToResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) loadUser(ctx context.Context, session types.SessionContext) (*models.User, error) {
	if session.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) buildStatus(user *models.User) (*StatusResponse, error) {
	current := DeriveCurrentStep(user)
	resp := &StatusResponse{
		CurrentStep: current,
		Done:        current == 0,
		Skipped:     user.OnboardingSkippedAt != nil,
		CompletedAt: user.OnboardingCompletedAt,
	}
	for _, step := range StepsForRole(user.AccountRole) {
		resp.Steps = append(resp.Steps, StepStatus{
			Number:    step.Number,
			Name:      step.Name,
			Skippable: step.Skippable,
			Completed: flagDone(user, step.flag),
		})
	}
	return resp, nil
}

func applyFlag(user *models.User, flag string) {
	switch flag {
	case "email_verified":
		user.EmailVerified = true
	case "profile_completed":
		user.ProfileCompleted = true
	case "location_completed":
		user.LocationCompleted = true
	case "provider_connected":
		user.ProviderConnected = true
	case "verification_submitted":
		user.VerificationSubmitted = true
	}
}
