package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

// OnboardingStep is the per-user audit record of setup progress. Rows are
// appended or updated, never deleted. Unique per (user_id, step_number).
type OnboardingStep struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_onboarding_steps_user_step"`
	StepNumber  int               `gorm:"column:step_number;not null;uniqueIndex:uq_onboarding_steps_user_step"`
	StepName    string            `gorm:"column:step_name;type:text;not null"`
	Completed   bool              `gorm:"column:completed;not null;default:false"`
	CompletedAt *time.Time        `gorm:"column:completed_at"`
	Payload     types.StepPayload `gorm:"column:payload;type:jsonb"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
