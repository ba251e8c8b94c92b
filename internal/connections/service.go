package connections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amaldonado/fixpoint-backend/pkg/db"
	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/amaldonado/fixpoint-backend/pkg/errors"
	"github.com/amaldonado/fixpoint-backend/pkg/metrics"
	"github.com/amaldonado/fixpoint-backend/pkg/pagination"
	"github.com/amaldonado/fixpoint-backend/pkg/types"
)

const liveConnectionConstraint = "uq_connections_live_pair"

type orgReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

type membershipChecker interface {
	IsActiveMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error)
}

// Service exposes the connection lifecycle operations.
type Service interface {
	Request(ctx context.Context, session types.SessionContext, providerOrgID uuid.UUID) (*ConnectionResponse, error)
	Accept(ctx context.Context, session types.SessionContext, connectionID uuid.UUID) (*ConnectionResponse, error)
	Reject(ctx context.Context, session types.SessionContext, connectionID uuid.UUID) (*ConnectionResponse, error)
	ListForOrg(ctx context.Context, session types.SessionContext, orgID uuid.UUID, filters ListFilters, cursorStr string, limit int) (*ConnectionList, error)
}

type service struct {
	repo        Repository
	orgs        orgReader
	memberships membershipChecker
	dispatcher  Dispatcher
	metrics     *metrics.ConnectionMetrics
	maxAttempts int
	now         func() time.Time
}

// NewService builds a connection service with the required dependencies.
func NewService(repo Repository, orgs orgReader, memberships membershipChecker, dispatcher Dispatcher, connMetrics *metrics.ConnectionMetrics, maxAttempts int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("connections repository required")
	}
	if orgs == nil {
		return nil, fmt.Errorf("organizations reader required")
	}
	if memberships == nil {
		return nil, fmt.Errorf("memberships checker required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &service{
		repo:        repo,
		orgs:        orgs,
		memberships: memberships,
		dispatcher:  dispatcher,
		metrics:     connMetrics,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}, nil
}

// Request opens (or reopens) a pending connection from the caller's
// store org to the target provider org. A live record for the pair
// surfaces AlreadyExists; losing every CAS/insert race surfaces
// Conflict.
func (s *service) Request(ctx context.Context, session types.SessionContext, providerOrgID uuid.UUID) (*ConnectionResponse, error) {
	started := s.now()
	defer func() { s.metrics.ObserveDuration("request", s.now().Sub(started)) }()

	if session.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !session.HasActiveOrg() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	storeOrgID := session.OrgID()
	if providerOrgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider org id required")
	}
	if providerOrgID == storeOrgID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot connect an organization to itself")
	}

	storeOrg, err := s.loadOrg(ctx, storeOrgID)
	if err != nil {
		return nil, err
	}
	if storeOrg.Kind != enums.OrgKindStore {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "connection requests originate from store organizations")
	}
	if err := s.requireMembership(ctx, session.UserID, storeOrgID); err != nil {
		return nil, err
	}

	providerOrg, err := s.loadOrg(ctx, providerOrgID)
	if err != nil {
		return nil, err
	}
	if providerOrg.Kind != enums.OrgKindProvider {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target organization is not a provider")
	}
	if !providerOrg.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target organization is inactive")
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		existing, err := s.repo.FindLatestByPair(ctx, storeOrgID, providerOrgID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			conn, created, err := s.insertPending(ctx, storeOrgID, providerOrgID)
			if err != nil {
				return nil, err
			}
			if !created {
				continue
			}
			s.metrics.IncTransition("requested")
			s.dispatcher.ConnectionEvent(ctx, enums.ConnectionEventRequested, conn)
			return ToResponse(conn), nil

		case err != nil:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load connection")

		case existing.Status.IsLive():
			return nil, pkgerrors.New(pkgerrors.CodeAlreadyExists, "connection already exists").
				WithDetails(map[string]any{"connection_id": existing.ID, "status": existing.Status})

		default: // rejected: reopen in place
			requestedAt := s.now().UTC()
			ok, err := s.repo.ReopenRejected(ctx, existing.ID, requestedAt)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reopen connection")
			}
			if !ok {
				s.metrics.IncConflict("request")
				continue
			}
			existing.Status = enums.ConnectionStatusPending
			existing.RequestedAt = requestedAt
			existing.ConnectedAt = nil
			s.metrics.IncTransition("reopened")
			s.dispatcher.ConnectionEvent(ctx, enums.ConnectionEventRequested, existing)
			return ToResponse(existing), nil
		}
	}

	return nil, pkgerrors.New(pkgerrors.CodeConflict, "connection is being modified concurrently")
}

// Accept resolves a pending connection to active. Only members of the
// provider org may accept. Idempotent when the record is already
// active.
func (s *service) Accept(ctx context.Context, session types.SessionContext, connectionID uuid.UUID) (*ConnectionResponse, error) {
	started := s.now()
	defer func() { s.metrics.ObserveDuration("accept", s.now().Sub(started)) }()

	conn, err := s.loadForDecision(ctx, session, connectionID)
	if err != nil {
		return nil, err
	}

	connectedAt := s.now().UTC()
	ok, err := s.repo.UpdateStatusIfPending(ctx, conn.ID, enums.ConnectionStatusActive, &connectedAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept connection")
	}
	if ok {
		conn.Status = enums.ConnectionStatusActive
		conn.ConnectedAt = &connectedAt
		s.metrics.IncTransition("accepted")
		s.dispatcher.ConnectionEvent(ctx, enums.ConnectionEventAccepted, conn)
		return ToResponse(conn), nil
	}

	// CAS missed: a concurrent decision already resolved the record.
	s.metrics.IncConflict("accept")
	return s.resolveDecisionRace(ctx, conn.ID, enums.ConnectionStatusActive)
}

// Reject resolves a pending connection to rejected. Only members of the
// provider org may reject. Idempotent when the record is already
// rejected.
func (s *service) Reject(ctx context.Context, session types.SessionContext, connectionID uuid.UUID) (*ConnectionResponse, error) {
	started := s.now()
	defer func() { s.metrics.ObserveDuration("reject", s.now().Sub(started)) }()

	conn, err := s.loadForDecision(ctx, session, connectionID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.UpdateStatusIfPending(ctx, conn.ID, enums.ConnectionStatusRejected, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject connection")
	}
	if ok {
		conn.Status = enums.ConnectionStatusRejected
		s.metrics.IncTransition("rejected")
		s.dispatcher.ConnectionEvent(ctx, enums.ConnectionEventRejected, conn)
		return ToResponse(conn), nil
	}

	s.metrics.IncConflict("reject")
	return s.resolveDecisionRace(ctx, conn.ID, enums.ConnectionStatusRejected)
}

func (s *service) ListForOrg(ctx context.Context, session types.SessionContext, orgID uuid.UUID, filters ListFilters, cursorStr string, limit int) (*ConnectionList, error) {
	if session.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orgID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization id required")
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid connection status")
	}
	if err := s.requireMembership(ctx, session.UserID, orgID); err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(cursorStr)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	pageSize := pagination.NormalizeLimit(limit)
	rows, err := s.repo.ListForOrg(ctx, orgID, filters, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list connections")
	}

	list := &ConnectionList{Items: make([]ConnectionResponse, 0, len(rows))}
	for i := range rows {
		if i == pageSize {
			break
		}
		list.Items = append(list.Items, toResponseWithOrgs(rows[i]))
	}
	if len(rows) > pageSize {
		last := rows[pageSize-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &next
	}
	return list, nil
}

func (s *service) insertPending(ctx context.Context, storeOrgID, providerOrgID uuid.UUID) (*models.Connection, bool, error) {
	conn := &models.Connection{
		StoreOrgID:    storeOrgID,
		ProviderOrgID: providerOrgID,
		Status:        enums.ConnectionStatusPending,
		RequestedAt:   s.now().UTC(),
	}
	if _, err := s.repo.Create(ctx, conn); err != nil {
		if db.IsUniqueViolation(err, liveConnectionConstraint) {
			// A concurrent request won the insert; re-read on retry.
			s.metrics.IncConflict("request")
			return nil, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create connection")
	}
	return conn, true, nil
}

func (s *service) loadForDecision(ctx context.Context, session types.SessionContext, connectionID uuid.UUID) (*models.Connection, error) {
	if session.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if connectionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "connection id required")
	}

	conn, err := s.repo.FindByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "connection not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load connection")
	}

	if err := s.requireMembership(ctx, session.UserID, conn.ProviderOrgID); err != nil {
		return nil, err
	}
	return conn, nil
}

// resolveDecisionRace re-reads after a missed CAS: already at the
// target is idempotent success without a notification; any other
// resolved state is an invalid transition.
func (s *service) resolveDecisionRace(ctx context.Context, connectionID uuid.UUID, target enums.ConnectionStatus) (*ConnectionResponse, error) {
	conn, err := s.repo.FindByID(ctx, connectionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload connection")
	}
	switch conn.Status {
	case target:
		return ToResponse(conn), nil
	case enums.ConnectionStatusPending:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "connection is being modified concurrently")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("connection is %s and cannot become %s", conn.Status, target))
	}
}

func (s *service) loadOrg(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load organization")
	}
	return org, nil
}

func (s *service) requireMembership(ctx context.Context, userID, orgID uuid.UUID) error {
	ok, err := s.memberships.IsActiveMember(ctx, userID, orgID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this organization")
	}
	return nil
}
