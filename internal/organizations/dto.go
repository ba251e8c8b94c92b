package organizations

import (
	"time"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

// CreateOrgDTO carries the fields needed to register an organization.
type CreateOrgDTO struct {
	Kind       enums.OrgKind     `json:"kind" validate:"required"`
	Name       string            `json:"name" validate:"required,min=2,max=120"`
	Settings   types.OrgSettings `json:"settings"`
	Categories []string          `json:"categories" validate:"max=20,dive,min=1,max=60"`
}

// ToModel converts the DTO into a persistable organization row.
func (d CreateOrgDTO) ToModel() *models.Organization {
	return &models.Organization{
		Kind:       d.Kind,
		Name:       d.Name,
		Settings:   d.Settings,
		Categories: d.Categories,
		IsActive:   true,
	}
}

// OrgResponse is the wire shape returned for organization reads.
type OrgResponse struct {
	ID         uuid.UUID         `json:"id"`
	Kind       enums.OrgKind     `json:"kind"`
	Name       string            `json:"name"`
	Settings   types.OrgSettings `json:"settings,omitempty"`
	Categories []string          `json:"categories,omitempty"`
	IsActive   bool              `json:"is_active"`
	CreatedAt  time.Time         `json:"created_at"`
}

// DirectoryFilters narrows directory listings.
type DirectoryFilters struct {
	Kind     *enums.OrgKind
	Category string
	Search   string
}

// OrgList is a cursor page of organizations.
type OrgList struct {
	Items      []OrgResponse `json:"items"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// ToResponse maps an organization row into its wire shape.
func ToResponse(org *models.Organization) OrgResponse {
	return OrgResponse{
		ID:         org.ID,
		Kind:       org.Kind,
		Name:       org.Name,
		Settings:   org.Settings,
		Categories: org.Categories,
		IsActive:   org.IsActive,
		CreatedAt:  org.CreatedAt,
	}
}
