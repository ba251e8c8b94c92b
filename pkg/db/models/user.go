package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// User represents the canonical identity entity. Authentication lives in
// the external identity provider; this row carries account metadata and
// the denormalized onboarding status flags the role router reads.
type User struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string            `gorm:"type:text;not null;uniqueIndex"`
	FirstName   string            `gorm:"column:first_name;not null"`
	LastName    string            `gorm:"column:last_name;not null"`
	AccountRole enums.AccountRole `gorm:"column:account_role;type:account_role;not null"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`

	// Onboarding status flags, kept consistent with onboarding_steps.
	EmailVerified         bool       `gorm:"column:email_verified;not null;default:false"`
	ProfileCompleted      bool       `gorm:"column:profile_completed;not null;default:false"`
	LocationCompleted     bool       `gorm:"column:location_completed;not null;default:false"`
	ProviderConnected     bool       `gorm:"column:provider_connected;not null;default:false"`
	VerificationSubmitted bool       `gorm:"column:verification_submitted;not null;default:false"`
	OnboardingCompleted   bool       `gorm:"column:onboarding_completed;not null;default:false"`
	OnboardingCompletedAt *time.Time `gorm:"column:onboarding_completed_at"`
	OnboardingSkippedAt   *time.Time `gorm:"column:onboarding_skipped_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
