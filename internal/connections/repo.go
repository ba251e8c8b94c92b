package connections

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	"github.com/amaldonado/fixpoint-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a connections repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, conn *models.Connection) (*models.Connection, error) {
	if err := r.db.WithContext(ctx).Create(conn).Error; err != nil {
		return nil, err
	}
	return conn, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// FindLatestByPair returns the most recent record for the pair. Live
// records are unique per pair; rejected history may hold several rows.
func (r *repository) FindLatestByPair(ctx context.Context, storeOrgID, providerOrgID uuid.UUID) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.WithContext(ctx).
		Where("store_org_id = ? AND provider_org_id = ?", storeOrgID, providerOrgID).
		Order("created_at DESC, id DESC").
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *repository) ReopenRejected(ctx context.Context, id uuid.UUID, requestedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, enums.ConnectionStatusRejected).
		Updates(map[string]any{
			"status":       enums.ConnectionStatusPending,
			"requested_at": requestedAt,
			"connected_at": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.ConnectionStatus, connectedAt *time.Time) (bool, error) {
	updates := map[string]any{"status": status}
	if connectedAt != nil {
		updates["connected_at"] = *connectedAt
	}

	res := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, enums.ConnectionStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListForOrg returns the org's connections newest first, with the
// counterpart org resolved at read time.
func (r *repository) ListForOrg(ctx context.Context, orgID uuid.UUID, filters ListFilters, cursor *pagination.Cursor, limit int) ([]ConnectionWithOrgs, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Select(`connections.*,
			CASE WHEN connections.store_org_id = @org THEN connections.provider_org_id ELSE connections.store_org_id END AS counterpart_org_id,
			CASE WHEN connections.store_org_id = @org THEN providers.name ELSE stores.name END AS counterpart_name`,
			map[string]any{"org": orgID}).
		Joins("JOIN organizations AS stores ON stores.id = connections.store_org_id").
		Joins("JOIN organizations AS providers ON providers.id = connections.provider_org_id").
		Where("connections.store_org_id = ? OR connections.provider_org_id = ?", orgID, orgID)

	if filters.Status != nil {
		q = q.Where("connections.status = ?", *filters.Status)
	}
	if cursor != nil {
		q = q.Where("(connections.created_at, connections.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []ConnectionWithOrgs
	err := q.Order("connections.created_at DESC, connections.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
