package connections

import (
	"time"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// RequestConnectionDTO is the request body for opening a connection.
type RequestConnectionDTO struct {
	ProviderOrgID uuid.UUID `json:"provider_org_id" validate:"required"`
}

// ConnectionResponse is the wire shape for a connection record. The
// counterpart fields are resolved relative to the org that asked.
type ConnectionResponse struct {
	ID               uuid.UUID              `json:"id"`
	StoreOrgID       uuid.UUID              `json:"store_org_id"`
	ProviderOrgID    uuid.UUID              `json:"provider_org_id"`
	Status           enums.ConnectionStatus `json:"status"`
	RequestedAt      time.Time              `json:"requested_at"`
	ConnectedAt      *time.Time             `json:"connected_at,omitempty"`
	CounterpartOrgID *uuid.UUID             `json:"counterpart_org_id,omitempty"`
	CounterpartName  *string                `json:"counterpart_name,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// ListFilters narrows connection listings.
type ListFilters struct {
	Status *enums.ConnectionStatus
}

// ConnectionList is a cursor page of connections.
type ConnectionList struct {
	Items      []ConnectionResponse `json:"items"`
	NextCursor *string              `json:"next_cursor,omitempty"`
}

// ConnectionWithOrgs pairs a connection row with the counterpart org
// metadata joined at read time.
type ConnectionWithOrgs struct {
	models.Connection
	CounterpartOrgID uuid.UUID `gorm:"column:counterpart_org_id"`
	CounterpartName  string    `gorm:"column:counterpart_name"`
}

// ToResponse maps a bare connection row into its wire shape.
func ToResponse(conn *models.Connection) *ConnectionResponse {
	if conn == nil {
		return nil
	}
	return &ConnectionResponse{
		ID:            conn.ID,
		StoreOrgID:    conn.StoreOrgID,
		ProviderOrgID: conn.ProviderOrgID,
		Status:        conn.Status,
		RequestedAt:   conn.RequestedAt,
		ConnectedAt:   copyTimePointer(conn.ConnectedAt),
		CreatedAt:     conn.CreatedAt,
	}
}

func toResponseWithOrgs(row ConnectionWithOrgs) ConnectionResponse {
	counterpartID := row.CounterpartOrgID
	counterpartName := row.CounterpartName
	return ConnectionResponse{
		ID:               row.ID,
		StoreOrgID:       row.StoreOrgID,
		ProviderOrgID:    row.ProviderOrgID,
		Status:           row.Status,
		RequestedAt:      row.RequestedAt,
		ConnectedAt:      copyTimePointer(row.ConnectedAt),
		CounterpartOrgID: &counterpartID,
		CounterpartName:  &counterpartName,
		CreatedAt:        row.CreatedAt,
	}
}

func copyTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
