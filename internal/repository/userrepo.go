// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/sgubproject/listd/internal/model"
)

// UserUpdate carries the optional fields of an administrative user update.
// Nil fields are left untouched.
type UserUpdate struct {
	Username  *string
	Validated *bool
}

// SeedUser is a sample account candidate for startup seeding.
type SeedUser struct {
	Username string
	Password string
}

// UserRepository manages accounts and enforces the username and admin
// protection invariants.
type UserRepository interface {
	// FindByUsername loads a user by username, compared case-insensitively.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// FindByID loads a user by id.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Signup creates an unvalidated regular account.
	Signup(ctx context.Context, username, password string) (*model.User, error)
	// ChangePassword verifies the current password before installing a new one.
	ChangePassword(ctx context.Context, id, current, next string) error

	// List returns all users reduced to their safe listing shape.
	List(ctx context.Context) ([]model.UserSummary, error)
	// Add creates an unvalidated account, generating a password when none is given.
	Add(ctx context.Context, username, password string) (*model.User, error)
	// Update renames a user and/or sets its validated flag. Refuses the admin account.
	Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error)
	// Delete removes a user and all of their items. Refuses the admin account.
	Delete(ctx context.Context, id string) error
	// ResetPassword installs a temporary password, generated when empty.
	// The admin account requires an explicit one.
	ResetPassword(ctx context.Context, id, tempPassword string) error
	// SetValidated flips the validated flag. Refuses to invalidate the admin account.
	SetValidated(ctx context.Context, id string, validated bool) error

	// SeedAdmin guarantees the reserved admin account exists.
	SeedAdmin(ctx context.Context, password string) error
	// SeedSampleUsers creates validated sample accounts, skipping invalid,
	// reserved, or already-existing entries.
	SeedSampleUsers(ctx context.Context, samples []SeedUser) error
}
