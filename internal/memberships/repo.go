package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// Repository exposes membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListUserOrgs returns the organizations a user belongs to along with membership metadata.
func (r *Repository) ListUserOrgs(ctx context.Context, userID uuid.UUID) ([]MembershipWithOrg, error) {
	var rows []membershipWithOrgRow

	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("memberships.*, organizations.name AS org_name, organizations.kind AS org_kind").
		Joins("JOIN organizations ON organizations.id = memberships.org_id").
		Where("memberships.user_id = ? AND memberships.status = ?", userID, enums.MembershipStatusActive).
		Order("organizations.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return membershipRowsToDTO(rows), nil
}

// GetMembership retrieves a membership by user and organization.
func (r *Repository) GetMembership(ctx context.Context, userID, orgID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND org_id = ?", userID, orgID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateMembership persists a new membership record.
func (r *Repository) CreateMembership(ctx context.Context, orgID, userID uuid.UUID, role enums.MemberRole, invitedBy *uuid.UUID, status enums.MembershipStatus) (*models.Membership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid membership status %q", status)
	}

	membership := &models.Membership{
		OrgID:           orgID,
		UserID:          userID,
		Role:            role,
		Status:          status,
		InvitedByUserID: invitedBy,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// UserHasRole reports whether the user holds one of the provided roles in the organization.
func (r *Repository) UserHasRole(ctx context.Context, userID, orgID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND org_id = ? AND status = ? AND role IN ?", userID, orgID, enums.MembershipStatusActive, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsActiveMember reports whether the user has any active membership in the organization.
func (r *Repository) IsActiveMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND org_id = ? AND status = ?", userID, orgID, enums.MembershipStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMembershipWithOrg returns membership details joined with org metadata.
func (r *Repository) GetMembershipWithOrg(ctx context.Context, userID, orgID uuid.UUID) (*MembershipWithOrg, error) {
	var row membershipWithOrgRow
	result := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("memberships.*, organizations.name AS org_name, organizations.kind AS org_kind").
		Joins("JOIN organizations ON organizations.id = memberships.org_id").
		Where("memberships.user_id = ? AND memberships.org_id = ?", userID, orgID).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	dto := membershipWithOrgFromRow(row)
	return &dto, nil
}

// RevokeMembership marks the membership removed. Memberships are never
// hard-deleted; revoking an already removed membership is a no-op.
func (r *Repository) RevokeMembership(ctx context.Context, userID, orgID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND org_id = ? AND status <> ?", userID, orgID, enums.MembershipStatusRemoved).
		Update("status", enums.MembershipStatusRemoved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ? AND org_id = ?", userID, orgID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
