package onboarding

import (
	"time"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

// CompleteStepDTO is the request body for recording a finished step.
type CompleteStepDTO struct {
	StepNumber int               `json:"step_number" validate:"required,min=1,max=10"`
	StepName   string            `json:"step_name" validate:"required"`
	Payload    types.StepPayload `json:"payload"`
}

// StepResponse is the wire shape of one recorded step.
type StepResponse struct {
	Number      int               `json:"number"`
	Name        string            `json:"name"`
	Completed   bool              `json:"completed"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Payload     types.StepPayload `json:"payload,omitempty"`
}

// StatusResponse reports where the user is in their sequence.
type StatusResponse struct {
	CurrentStep int            `json:"current_step"`
	Done        bool           `json:"done"`
	Skipped     bool           `json:"skipped"`
	Steps       []StepStatus   `json:"steps"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// StepStatus pairs a sequence entry with its completion state.
type StepStatus struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Skippable bool   `json:"skippable"`
	Completed bool   `json:"completed"`
}

func stepToResponse(step *models.OnboardingStep) StepResponse {
	return StepResponse{
		Number:      step.StepNumber,
		Name:        step.StepName,
		Completed:   step.Completed,
		CompletedAt: step.CompletedAt,
		Payload:     step.Payload,
	}
}
