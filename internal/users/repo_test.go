package users

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

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  account_role TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  email_verified INTEGER NOT NULL DEFAULT 0,
  profile_completed INTEGER NOT NULL DEFAULT 0,
  location_completed INTEGER NOT NULL DEFAULT 0,
  provider_connected INTEGER NOT NULL DEFAULT 0,
  verification_submitted INTEGER NOT NULL DEFAULT 0,
  onboarding_completed INTEGER NOT NULL DEFAULT 0,
  onboarding_completed_at DATETIME,
  onboarding_skipped_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersTable).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role enums.AccountRole) *models.User {
	t.Helper()

	user := &models.User{
		ID:          uuid.New(),
		Email:       email,
		FirstName:   "Jordan",
		LastName:    "Reyes",
		AccountRole: role,
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreatePersistsUser(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	created, err := repo.Create(context.Background(), CreateUserDTO{
		Email:       "owner@store.test",
		FirstName:   "Casey",
		LastName:    "Nguyen",
		AccountRole: enums.AccountRoleStore,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	found, err := repo.FindByEmail(context.Background(), "owner@store.test")
	require.NoError(t, err)
	assert.Equal(t, "Casey", found.FirstName)
	assert.Equal(t, enums.AccountRoleStore, found.AccountRole)
	assert.False(t, found.OnboardingCompleted)
}

func TestFindByIDMissingRow(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindByEmailIsCaseInsensitive(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	seeded := seedUser(t, db, "Tech@Provider.Test", enums.AccountRoleMaintenance)

	found, err := repo.FindByEmail(context.Background(), "tech@provider.test")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
}

func TestUpdateFlagsAppliesOnboardingColumns(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	seeded := seedUser(t, db, "steps@store.test", enums.AccountRoleStore)

	err := repo.UpdateFlags(context.Background(), seeded.ID, map[string]any{
		"email_verified":    true,
		"profile_completed": true,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.True(t, found.EmailVerified)
	assert.True(t, found.ProfileCompleted)
	assert.False(t, found.LocationCompleted)

	// An empty update map is a no-op, not an error.
	require.NoError(t, repo.UpdateFlags(context.Background(), seeded.ID, nil))
}

func TestUpdateSavesMutations(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	seeded := seedUser(t, db, "rename@store.test", enums.AccountRoleStore)

	seeded.FirstName = "Morgan"
	seeded.IsActive = false
	require.NoError(t, repo.Update(context.Background(), seeded))

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morgan", found.FirstName)
	assert.False(t, found.IsActive)

	require.Error(t, repo.Update(context.Background(), nil))
}
