package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// Connection is the ledger record for a store↔provider relationship.
//
// A partial unique index on (store_org_id, provider_org_id) scoped to
// live statuses (pending, active) guarantees at most one live record
// per pair under concurrent requests; see the migrations.
type Connection struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreOrgID    uuid.UUID              `gorm:"column:store_org_id;type:uuid;not null"`
	ProviderOrgID uuid.UUID              `gorm:"column:provider_org_id;type:uuid;not null"`
	Status        enums.ConnectionStatus `gorm:"column:status;type:connection_status;not null;default:'pending'"`
	RequestedAt   time.Time              `gorm:"column:requested_at;not null"`
	ConnectedAt   *time.Time             `gorm:"column:connected_at"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
