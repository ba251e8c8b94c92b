package organizations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/pagination"
)

// Repository handles organization persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to organization operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new organization row.
func (r *Repository) Create(ctx context.Context, dto CreateOrgDTO) (*models.Organization, error) {
	org := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// FindByID loads an organization by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// List returns active organizations matching the filters, newest first,
// cursor-paged on (created_at, id).
func (r *Repository) List(ctx context.Context, filters DirectoryFilters, cursor *pagination.Cursor, limit int) ([]models.Organization, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("is_active = TRUE")

	if filters.Kind != nil {
		q = q.Where("kind = ?", *filters.Kind)
	}
	if filters.Category != "" {
		q = q.Where("? = ANY(categories)", filters.Category)
	}
	if filters.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filters.Search+"%")
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orgs []models.Organization
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// Update saves the provided organization.
func (r *Repository) Update(ctx context.Context, org *models.Organization) error {
	if org == nil {
		return fmt.Errorf("organization is required")
	}
	return r.db.WithContext(ctx).Save(org).Error
}

// Deactivate flips the active flag off without removing history.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
