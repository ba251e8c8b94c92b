package onboarding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

// Repository handles onboarding step persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to onboarding operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertStep records a completed step, keyed on (user_id, step_number).
// Re-completing a step refreshes the payload and timestamp.
func (r *Repository) UpsertStep(ctx context.Context, userID uuid.UUID, stepNumber int, stepName string, payload types.StepPayload, completedAt time.Time) (*models.OnboardingStep, error) {
	step := &models.OnboardingStep{
		UserID:      userID,
		StepNumber:  stepNumber,
		StepName:    stepName,
		Completed:   true,
		CompletedAt: &completedAt,
		Payload:     payload,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "step_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"step_name", "completed", "completed_at", "payload", "updated_at"}),
		}).
		Create(step).Error
	if err != nil {
		return nil, err
	}
	return step, nil
}

// ListSteps returns the user's recorded steps in sequence order.
func (r *Repository) ListSteps(ctx context.Context, userID uuid.UUID) ([]models.OnboardingStep, error) {
	var steps []models.OnboardingStep
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("step_number ASC").
		Find(&steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}
