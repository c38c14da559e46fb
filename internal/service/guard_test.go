package service

import (
	"testing"

	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/repository"
	"github.com/elvinq/carbazar/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGuard(t *testing.T) (*Guard, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDatabase(t)
	return NewGuard(repository.NewUserRepository(db)), db
}

func TestGuard_OwnerMayMutate(t *testing.T) {
	guard, db := setupGuard(t)
	owner := testutil.CreateTestUser(t, db, "owner", "owner@example.com", "password1", models.RoleUser)

	actor := Actor{ID: owner.ID, Role: owner.Role}
	require.NoError(t, guard.CanMutate(actor, owner.ID))
}

func TestGuard_NonOwnerDenied(t *testing.T) {
	guard, db := setupGuard(t)
	owner := testutil.CreateTestUser(t, db, "owner", "owner@example.com", "password1", models.RoleUser)
	other := testutil.CreateTestUser(t, db, "other", "other@example.com", "password1", models.RoleUser)

	actor := Actor{ID: other.ID, Role: other.Role}
	require.ErrorIs(t, guard.CanMutate(actor, owner.ID), ErrNotOwner)
}

func TestGuard_BlockedUserDenied(t *testing.T) {
	guard, db := setupGuard(t)
	user := testutil.CreateTestUser(t, db, "blocked", "blocked@example.com", "password1", models.RoleUser)
	require.NoError(t, db.Model(user).Update("is_blocked", true).Error)

	actor := Actor{ID: user.ID, Role: user.Role}

	// Blocked beats ownership: even the owner is rejected.
	require.ErrorIs(t, guard.CanMutate(actor, user.ID), ErrUserBlocked)
	require.ErrorIs(t, guard.CanCreate(actor), ErrUserBlocked)
}

func TestGuard_AdminBypassesEverything(t *testing.T) {
	guard, db := setupGuard(t)
	owner := testutil.CreateTestUser(t, db, "owner", "owner@example.com", "password1", models.RoleUser)
	admin := testutil.CreateTestUser(t, db, "admin", "admin@example.com", "password1", models.RoleAdmin)
	require.NoError(t, db.Model(admin).Update("is_blocked", true).Error)

	actor := Actor{ID: admin.ID, Role: admin.Role}

	// Admin role short-circuits both the block check and the ownership check.
	require.NoError(t, guard.CanMutate(actor, owner.ID))
	require.NoError(t, guard.CanCreate(actor))
}

func TestGuard_UnknownActor(t *testing.T) {
	guard, _ := setupGuard(t)

	actor := Actor{ID: 9999, Role: models.RoleUser}
	require.ErrorIs(t, guard.CanMutate(actor, 1), ErrUnknownActor)
}

func TestGuard_BlockReadFromStoreNotToken(t *testing.T) {
	guard, db := setupGuard(t)
	user := testutil.CreateTestUser(t, db, "fresh", "fresh@example.com", "password1", models.RoleUser)

	actor := Actor{ID: user.ID, Role: user.Role}
	require.NoError(t, guard.CanMutate(actor, user.ID))

	// Block applied after the actor "logged in": next guard check sees it.
	require.NoError(t, db.Model(user).Update("is_blocked", true).Error)
	require.ErrorIs(t, guard.CanMutate(actor, user.ID), ErrUserBlocked)
}
