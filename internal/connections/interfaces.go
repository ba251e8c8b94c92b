package connections

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	"github.com/amaldonado/fixpoint-backend/pkg/pagination"
)

// Repository defines persistence operations for connection records.
type Repository interface {
	Create(ctx context.Context, conn *models.Connection) (*models.Connection, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Connection, error)
	FindLatestByPair(ctx context.Context, storeOrgID, providerOrgID uuid.UUID) (*models.Connection, error)
	// ReopenRejected flips a rejected record back to pending with a fresh
	// requested_at. Returns false when the record was no longer rejected.
	ReopenRejected(ctx context.Context, id uuid.UUID, requestedAt time.Time) (bool, error)
	// UpdateStatusIfPending resolves a pending record to the target
	// status. Returns false when the record was no longer pending.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.ConnectionStatus, connectedAt *time.Time) (bool, error)
	ListForOrg(ctx context.Context, orgID uuid.UUID, filters ListFilters, cursor *pagination.Cursor, limit int) ([]ConnectionWithOrgs, error)
}

// Dispatcher delivers notifications for effective connection
// transitions. Implementations must not block the request path beyond
// their own timeout and must swallow delivery failures.
type Dispatcher interface {
	ConnectionEvent(ctx context.Context, event enums.ConnectionEvent, conn *models.Connection)
}
