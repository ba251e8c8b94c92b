package organizations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/amaldonado/fixpoint-backend/pkg/errors"
	"github.com/amaldonado/fixpoint-backend/pkg/pagination"
)

type stubOrgRepo struct {
	orgs   map[uuid.UUID]*models.Organization
	listed []models.Organization
}

func (s *stubOrgRepo) Create(ctx context.Context, dto CreateOrgDTO) (*models.Organization, error) {
	org := dto.ToModel()
	org.ID = uuid.New()
	if s.orgs == nil {
		s.orgs = make(map[uuid.UUID]*models.Organization)
	}
	s.orgs[org.ID] = org
	return org, nil
}

func (s *stubOrgRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, ok := s.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return org, nil
}

func (s *stubOrgRepo) List(ctx context.Context, filters DirectoryFilters, cursor *pagination.Cursor, limit int) ([]models.Organization, error) {
	if len(s.listed) > limit {
		return s.listed[:limit], nil
	}
	return s.listed, nil
}

func TestGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubOrgRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetByID(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByIDReturnsOrg(t *testing.T) {
	repo := &stubOrgRepo{}
	org, _ := repo.Create(context.Background(), CreateOrgDTO{
		Kind:       enums.OrgKindProvider,
		Name:       "Rapid Repair Co",
		Categories: []string{"hvac", "plumbing"},
	})

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.GetByID(context.Background(), org.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Name != "Rapid Repair Co" || got.Kind != enums.OrgKindProvider {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestListDirectoryPaginates(t *testing.T) {
	base := time.Now().UTC()
	repo := &stubOrgRepo{}
	for i := 0; i < 3; i++ {
		repo.listed = append(repo.listed, models.Organization{
			ID:        uuid.New(),
			Kind:      enums.OrgKindStore,
			Name:      "Store",
			IsActive:  true,
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	list, err := svc.ListDirectory(context.Background(), DirectoryFilters{}, "", 2)
	if err != nil {
		t.Fatalf("list directory: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}
	if list.NextCursor == nil {
		t.Fatalf("expected next cursor for third row")
	}
	if _, err := pagination.ParseCursor(*list.NextCursor); err != nil {
		t.Fatalf("cursor does not round-trip: %v", err)
	}
}

func TestListDirectoryRejectsBadCursor(t *testing.T) {
	svc, err := NewService(&stubOrgRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.ListDirectory(context.Background(), DirectoryFilters{}, "not-base64!!", 10)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
