package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

// Organization represents the canonical tenant model. Organizations are
// never hard-deleted, only deactivated.
type Organization struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Kind       enums.OrgKind     `gorm:"column:kind;type:org_kind;not null"`
	Name       string            `gorm:"column:name;not null"`
	Settings   types.OrgSettings `gorm:"column:settings;type:jsonb"`
	Categories pq.StringArray    `gorm:"column:categories;type:text[]"`
	IsActive   bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
