package memberships

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

func setupMembershipsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	organizations := `
CREATE TABLE IF NOT EXISTS organizations (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  settings TEXT,
  categories TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	membershipsTable := `
CREATE TABLE IF NOT EXISTS memberships (
  id TEXT PRIMARY KEY,
  org_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL,
  status TEXT NOT NULL,
  invited_by_user_id TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, org_id)
);`
	require.NoError(t, db.Exec(organizations).Error)
	require.NoError(t, db.Exec(membershipsTable).Error)
	return db
}

func newOrg(t *testing.T, db *gorm.DB, name string, kind enums.OrgKind) *models.Organization {
	t.Helper()

	org := &models.Organization{
		ID:       uuid.New(),
		Kind:     kind,
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func newMembership(t *testing.T, db *gorm.DB, org *models.Organization, userID uuid.UUID, role enums.MemberRole, status enums.MembershipStatus) *models.Membership {
	t.Helper()

	membership := &models.Membership{
		ID:     uuid.New(),
		OrgID:  org.ID,
		UserID: userID,
		Role:   role,
		Status: status,
	}
	require.NoError(t, db.Create(membership).Error)
	return membership
}

func TestListUserOrgsReturnsActiveMembershipsWithOrgMetadata(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	beta := newOrg(t, db, "Beta Hardware", enums.OrgKindStore)
	alpha := newOrg(t, db, "Alpha Repairs", enums.OrgKindProvider)
	removed := newOrg(t, db, "Gone Stores", enums.OrgKindStore)
	newMembership(t, db, beta, userID, enums.MemberRoleStoreAdmin, enums.MembershipStatusActive)
	newMembership(t, db, alpha, userID, enums.MemberRoleProviderTech, enums.MembershipStatusActive)
	newMembership(t, db, removed, userID, enums.MemberRoleStoreStaff, enums.MembershipStatusRemoved)
	newMembership(t, db, beta, uuid.New(), enums.MemberRoleStoreStaff, enums.MembershipStatusActive)

	rows, err := repo.ListUserOrgs(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha Repairs", rows[0].OrgName)
	assert.Equal(t, enums.OrgKindProvider, rows[0].OrgKind)
	assert.Equal(t, enums.MemberRoleProviderTech, rows[0].Role)
	assert.Equal(t, "Beta Hardware", rows[1].OrgName)
	assert.Equal(t, enums.MemberRoleStoreAdmin, rows[1].Role)
}

func TestCreateMembershipPersistsAndValidatesEnums(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	org := newOrg(t, db, "Corner Store", enums.OrgKindStore)
	userID := uuid.New()
	inviter := uuid.New()

	created, err := repo.CreateMembership(context.Background(), org.ID, userID, enums.MemberRoleStoreStaff, &inviter, enums.MembershipStatusInvited)
	require.NoError(t, err)
	require.NotNil(t, created.InvitedByUserID)
	assert.Equal(t, inviter, *created.InvitedByUserID)

	found, err := repo.GetMembership(context.Background(), userID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.MemberRoleStoreStaff, found.Role)
	assert.Equal(t, enums.MembershipStatusInvited, found.Status)

	_, err = repo.CreateMembership(context.Background(), org.ID, uuid.New(), enums.MemberRole("janitor"), nil, enums.MembershipStatusActive)
	require.Error(t, err)
	_, err = repo.CreateMembership(context.Background(), org.ID, uuid.New(), enums.MemberRoleStoreStaff, nil, enums.MembershipStatus("ghost"))
	require.Error(t, err)
}

func TestGetMembershipMissingRow(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetMembership(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserHasRoleChecksRoleAndStatus(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	org := newOrg(t, db, "Main Street", enums.OrgKindProvider)
	userID := uuid.New()
	newMembership(t, db, org, userID, enums.MemberRoleProviderAdmin, enums.MembershipStatusActive)

	has, err := repo.UserHasRole(context.Background(), userID, org.ID, enums.MemberRoleProviderAdmin, enums.MemberRoleProviderTech)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.UserHasRole(context.Background(), userID, org.ID, enums.MemberRoleStoreAdmin)
	require.NoError(t, err)
	assert.False(t, has)

	has, err = repo.UserHasRole(context.Background(), userID, org.ID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.RevokeMembership(context.Background(), userID, org.ID))
	has, err = repo.UserHasRole(context.Background(), userID, org.ID, enums.MemberRoleProviderAdmin)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestIsActiveMember(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	org := newOrg(t, db, "Uptown", enums.OrgKindStore)
	member := uuid.New()
	outsider := uuid.New()
	newMembership(t, db, org, member, enums.MemberRoleStoreStaff, enums.MembershipStatusActive)

	active, err := repo.IsActiveMember(context.Background(), member, org.ID)
	require.NoError(t, err)
	assert.True(t, active)

	active, err = repo.IsActiveMember(context.Background(), outsider, org.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestGetMembershipWithOrgJoinsMetadata(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	org := newOrg(t, db, "Joined Co", enums.OrgKindProvider)
	userID := uuid.New()
	newMembership(t, db, org, userID, enums.MemberRoleProviderTech, enums.MembershipStatusActive)

	row, err := repo.GetMembershipWithOrg(context.Background(), userID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joined Co", row.OrgName)
	assert.Equal(t, enums.OrgKindProvider, row.OrgKind)
	assert.Equal(t, enums.MemberRoleProviderTech, row.Role)

	_, err = repo.GetMembershipWithOrg(context.Background(), uuid.New(), org.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRevokeMembership(t *testing.T) {
	db := setupMembershipsTestDB(t)
	repo := NewRepository(db)
	org := newOrg(t, db, "Revocable", enums.OrgKindStore)
	userID := uuid.New()
	newMembership(t, db, org, userID, enums.MemberRoleStoreAdmin, enums.MembershipStatusActive)

	require.NoError(t, repo.RevokeMembership(context.Background(), userID, org.ID))

	found, err := repo.GetMembership(context.Background(), userID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.MembershipStatusRemoved, found.Status)

	rows, err := repo.ListUserOrgs(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Revoking again is a no-op, not an error.
	require.NoError(t, repo.RevokeMembership(context.Background(), userID, org.ID))

	err = repo.RevokeMembership(context.Background(), uuid.New(), org.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
