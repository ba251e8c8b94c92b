package organizations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	pkgerrors "github.com/amaldonado/fixpoint-backend/pkg/errors"
	"github.com/amaldonado/fixpoint-backend/pkg/pagination"
)

type orgRepository interface {
	Create(ctx context.Context, dto CreateOrgDTO) (*models.Organization, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	List(ctx context.Context, filters DirectoryFilters, cursor *pagination.Cursor, limit int) ([]models.Organization, error)
}

// Service exposes organization reads and directory listings.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OrgResponse, error)
	ListDirectory(ctx context.Context, filters DirectoryFilters, cursorStr string, limit int) (*OrgList, error)
}

type service struct {
	repo orgRepository
}

// NewService builds an organization service with the provided repository.
func NewService(repo orgRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("organizations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*OrgResponse, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization id required")
	}
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load organization")
	}
	resp := ToResponse(org)
	return &resp, nil
}

func (s *service) ListDirectory(ctx context.Context, filters DirectoryFilters, cursorStr string, limit int) (*OrgList, error) {
	if filters.Kind != nil && !filters.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid organization kind")
	}
	filters.Search = strings.TrimSpace(filters.Search)
	filters.Category = strings.TrimSpace(filters.Category)

	cursor, err := pagination.ParseCursor(cursorStr)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	pageSize := pagination.NormalizeLimit(limit)
	orgs, err := s.repo.List(ctx, filters, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list organizations")
	}

	list := &OrgList{Items: make([]OrgResponse, 0, len(orgs))}
	for i := range orgs {
		if i == pageSize {
			break
		}
		list.Items = append(list.Items, ToResponse(&orgs[i]))
	}
	if len(orgs) > pageSize {
		last := orgs[pageSize-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &next
	}
	return list, nil
}
