package file

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sgubproject/listd/internal/crypto"
	"github.com/sgubproject/listd/internal/errs"
	"github.com/sgubproject/listd/internal/model"
	"github.com/sgubproject/listd/internal/repository"
	"github.com/sgubproject/listd/internal/store"
)

func newRepos(t *testing.T) (*UserRepo, *ItemRepo) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	t.Cleanup(st.Close)
	require.NoError(t, st.Initialize(context.Background()))
	return NewUserRepo(st, zap.NewNop()), NewItemRepo(st)
}

func seedAdminAccount(t *testing.T, users *UserRepo) *model.User {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, users.SeedAdmin(ctx, "admin123"))
	admin, err := users.FindByUsername(ctx, model.ReservedAdminUsername)
	require.NoError(t, err)
	return admin
}

func TestSignup_ValidationAndDefaults(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()

	_, err := users.Signup(ctx, "", "pwd")
	require.True(t, errs.Is(err, errs.Validation))

	_, err = users.Signup(ctx, "alice", "")
	require.True(t, errs.Is(err, errs.Validation))

	_, err = users.Signup(ctx, "Admin", "pwd")
	require.True(t, errs.Is(err, errs.Validation), "reserved name must be rejected regardless of casing")

	u, err := users.Signup(ctx, "  Alice  ", "pwd")
	require.NoError(t, err)
	require.Equal(t, "Alice", u.Username, "username stored trimmed with original casing")
	require.Equal(t, model.RoleUser, u.Role)
	require.False(t, u.Validated)
	require.NotEmpty(t, u.ID)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "pwd", u.PasswordHash)
	require.False(t, u.SignedUpAt.IsZero())
}

func TestSignup_DuplicateUsernameCaseInsensitive(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()

	_, err := users.Signup(ctx, "Bob", "pwd")
	require.NoError(t, err)

	_, err = users.Signup(ctx, "bob", "pwd2")
	require.True(t, errs.Is(err, errs.Conflict), "got %v", err)
}

func TestFindByUsername_CaseInsensitive(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()

	created, err := users.Signup(ctx, "Carlos", "pwd")
	require.NoError(t, err)

	got, err := users.FindByUsername(ctx, "cArLoS")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = users.FindByUsername(ctx, "nobody")
	require.True(t, errs.Is(err, errs.NotFound))

	byID, err := users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Carlos", byID.Username)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()

	u, err := users.Signup(ctx, "alice", "old")
	require.NoError(t, err)

	require.True(t, errs.Is(users.ChangePassword(ctx, u.ID, "", "new"), errs.Validation))
	require.True(t, errs.Is(users.ChangePassword(ctx, "ghost", "old", "new"), errs.NotFound))
	require.True(t, errs.Is(users.ChangePassword(ctx, u.ID, "wrong", "new"), errs.Validation))

	require.NoError(t, users.ChangePassword(ctx, u.ID, "old", "new"))
	after, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, crypto.VerifyPassword("new", after.PasswordHash))
	require.False(t, crypto.VerifyPassword("old", after.PasswordHash))
}

func TestList_ReturnsSummariesOnly(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()

	_, err := users.Signup(ctx, "alice", "pwd")
	require.NoError(t, err)
	_, err = users.Signup(ctx, "bob", "pwd")
	require.NoError(t, err)

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, s := range list {
		require.NotEmpty(t, s.ID)
		require.NotEmpty(t, s.Username)
		require.False(t, s.Validated)
	}
}

func TestAdminAdd(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()

	_, err := users.Add(ctx, "", "pwd")
	require.True(t, errs.Is(err, errs.Validation))

	_, err = users.Add(ctx, "ADMIN", "pwd")
	require.True(t, errs.Is(err, errs.Validation))

	// Missing password gets a generated one.
	u, err := users.Add(ctx, "dana", "")
	require.NoError(t, err)
	require.NotEmpty(t, u.PasswordHash)
	require.False(t, u.Validated)

	_, err = users.Add(ctx, "Dana", "pwd")
	require.True(t, errs.Is(err, errs.Conflict))
}

func TestAdminUpdate(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()
	admin := seedAdminAccount(t, users)

	u, err := users.Signup(ctx, "alice", "pwd")
	require.NoError(t, err)
	other, err := users.Signup(ctx, "bob", "pwd")
	require.NoError(t, err)

	_, err = users.Update(ctx, "ghost", repository.UserUpdate{})
	require.True(t, errs.Is(err, errs.NotFound))

	_, err = users.Update(ctx, admin.ID, repository.UserUpdate{})
	require.True(t, errs.Is(err, errs.Protected))

	name := "Admin"
	_, err = users.Update(ctx, u.ID, repository.UserUpdate{Username: &name})
	require.True(t, errs.Is(err, errs.Validation))

	name = "BOB"
	_, err = users.Update(ctx, u.ID, repository.UserUpdate{Username: &name})
	require.True(t, errs.Is(err, errs.Conflict), "rename collides case-insensitively with %q", other.Username)

	name = "alice2"
	valid := true
	updated, err := users.Update(ctx, u.ID, repository.UserUpdate{Username: &name, Validated: &valid})
	require.NoError(t, err)
	require.Equal(t, "alice2", updated.Username)
	require.True(t, updated.Validated)
}

func TestAdminDelete_CascadesItems(t *testing.T) {
	t.Parallel()
	users, items := newRepos(t)
	ctx := context.Background()
	admin := seedAdminAccount(t, users)

	u, err := users.Signup(ctx, "alice", "pwd")
	require.NoError(t, err)
	_, err = items.Add(ctx, u.ID, "milk")
	require.NoError(t, err)

	require.True(t, errs.Is(users.Delete(ctx, "ghost"), errs.NotFound))
	require.True(t, errs.Is(users.Delete(ctx, admin.ID), errs.Protected))

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = users.FindByID(ctx, u.ID)
	require.True(t, errs.Is(err, errs.NotFound))

	left, err := items.List(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, left, "delete must cascade to the user's items")
}

func TestResetPassword(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()
	admin := seedAdminAccount(t, users)

	u, err := users.Signup(ctx, "alice", "pwd")
	require.NoError(t, err)

	require.True(t, errs.Is(users.ResetPassword(ctx, "ghost", ""), errs.NotFound))
	require.True(t, errs.Is(users.ResetPassword(ctx, admin.ID, ""), errs.Protected),
		"admin reset without explicit temp password must be refused")

	// Regular user without a temp password gets a generated one.
	require.NoError(t, users.ResetPassword(ctx, u.ID, ""))
	after, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, crypto.VerifyPassword("pwd", after.PasswordHash))

	require.NoError(t, users.ResetPassword(ctx, admin.ID, "temp-admin"))
	adminAfter, err := users.FindByID(ctx, admin.ID)
	require.NoError(t, err)
	require.True(t, crypto.VerifyPassword("temp-admin", adminAfter.PasswordHash))
}

func TestSetValidated(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()
	admin := seedAdminAccount(t, users)

	u, err := users.Signup(ctx, "alice", "pwd")
	require.NoError(t, err)

	require.True(t, errs.Is(users.SetValidated(ctx, "ghost", true), errs.NotFound))
	require.True(t, errs.Is(users.SetValidated(ctx, admin.ID, false), errs.Protected))
	require.NoError(t, users.SetValidated(ctx, admin.ID, true))

	require.NoError(t, users.SetValidated(ctx, u.ID, true))
	after, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, after.Validated)

	require.NoError(t, users.SetValidated(ctx, u.ID, false))
	after, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, after.Validated)
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()

	require.NoError(t, users.SeedAdmin(ctx, "admin123"))
	admin, err := users.FindByUsername(ctx, model.ReservedAdminUsername)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, admin.Role)
	require.True(t, admin.Validated)
	require.True(t, crypto.VerifyPassword("admin123", admin.PasswordHash))

	// Second seed is a no-op.
	require.NoError(t, users.SeedAdmin(ctx, "different"))
	again, err := users.FindByUsername(ctx, model.ReservedAdminUsername)
	require.NoError(t, err)
	require.Equal(t, admin.ID, again.ID)
	require.True(t, crypto.VerifyPassword("admin123", again.PasswordHash))
}

func TestSeedAdmin_GeneratesPasswordWhenEmpty(t *testing.T) {
	t.Parallel()
	users, _ := newRepos(t)
	ctx := context.Background()

	require.NoError(t, users.SeedAdmin(ctx, ""))
	admin, err := users.FindByUsername(ctx, model.ReservedAdminUsername)
	require.NoError(t, err)
	require.NotEmpty(t, admin.PasswordHash)
	require.False(t, crypto.VerifyPassword("", admin.PasswordHash))
}

func TestSeedSampleUsers(t *testing.T) {
	t.Parallel()
	users, items := newRepos(t)
	ctx := context.Background()

	existing, err := users.Signup(ctx, "carlos", "pwd")
	require.NoError(t, err)

	require.NoError(t, users.SeedSampleUsers(ctx, []repository.SeedUser{
		{Username: "nabil", Password: "nabil123"},
		{Username: "Carlos", Password: "other"}, // taken case-insensitively
		{Username: "admin", Password: "nope"},   // reserved
		{Username: "", Password: "x"},           // invalid
		{Username: "y", Password: ""},           // invalid
	}))

	nabil, err := users.FindByUsername(ctx, "nabil")
	require.NoError(t, err)
	require.True(t, nabil.Validated)
	require.Equal(t, model.RoleUser, nabil.Role)

	welcome, err := items.List(ctx, nabil.ID)
	require.NoError(t, err)
	require.Len(t, welcome, 1)
	require.Equal(t, "Welcome to your list", welcome[0].Text)

	// The pre-existing account was not clobbered.
	carlos, err := users.FindByID(ctx, existing.ID)
	require.NoError(t, err)
	require.True(t, crypto.VerifyPassword("pwd", carlos.PasswordHash))

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
