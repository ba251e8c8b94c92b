package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// CreateUserDTO carries the fields needed to register an account.
type CreateUserDTO struct {
	Email       string            `json:"email" validate:"required,email"`
	FirstName   string            `json:"first_name" validate:"required"`
	LastName    string            `json:"last_name" validate:"required"`
	AccountRole enums.AccountRole `json:"account_role" validate:"required"`
}

// ToModel converts the DTO into a persistable user row.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:       d.Email,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		AccountRole: d.AccountRole,
		IsActive:    true,
	}
}

// UserResponse is the wire shape returned for user reads.
type UserResponse struct {
	ID          uuid.UUID         `json:"id"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	AccountRole enums.AccountRole `json:"account_role"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ToResponse maps a user row into its wire shape.
func ToResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		AccountRole: user.AccountRole,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
	}
}
