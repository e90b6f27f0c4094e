package service

import (
	"context"

	"github.com/sgubproject/listd/internal/errs"
	"github.com/sgubproject/listd/internal/model"
	"github.com/sgubproject/listd/internal/repository"
)

// AdminService defines administrative account management. The protection of
// the reserved admin account is enforced by the user repository.
type AdminService interface {
	// ListUsers returns all accounts in their safe listing shape.
	ListUsers(ctx context.Context) ([]model.UserSummary, error)
	// AddUser creates an unvalidated account, generating a password if empty.
	AddUser(ctx context.Context, username, password string) (*model.UserSummary, error)
	// UpdateUser renames and/or sets the validated flag of an account.
	UpdateUser(ctx context.Context, id string, upd repository.UserUpdate) (*model.UserSummary, error)
	// DeleteUser removes an account and its items.
	DeleteUser(ctx context.Context, id string) error
	// ResetPassword installs a temporary password on an account.
	ResetPassword(ctx context.Context, id, tempPassword string) error
	// SetValidated flips an account's validated flag.
	SetValidated(ctx context.Context, id string, validated bool) error
}

type AdminServiceImpl struct {
	users repository.UserRepository
}

var _ AdminService = (*AdminServiceImpl)(nil)

// NewAdminService constructs AdminService.
func NewAdminService(users repository.UserRepository) *AdminServiceImpl {
	return &AdminServiceImpl{users: users}
}

// ListUsers returns all accounts without password hashes.
func (s *AdminServiceImpl) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	return s.users.List(ctx)
}

// AddUser creates an account on the administrator's behalf.
func (s *AdminServiceImpl) AddUser(ctx context.Context, username, password string) (*model.UserSummary, error) {
	u, err := s.users.Add(ctx, username, password)
	if err != nil {
		return nil, err
	}
	sum := u.Summary()
	return &sum, nil
}

// UpdateUser renames and/or revalidates an account.
func (s *AdminServiceImpl) UpdateUser(ctx context.Context, id string, upd repository.UserUpdate) (*model.UserSummary, error) {
	if id == "" {
		return nil, errs.New(errs.Validation, "id required")
	}
	u, err := s.users.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	sum := u.Summary()
	return &sum, nil
}

// DeleteUser removes an account together with its item collection.
func (s *AdminServiceImpl) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return errs.New(errs.Validation, "id required")
	}
	return s.users.Delete(ctx, id)
}

// ResetPassword installs a temporary password on an account.
func (s *AdminServiceImpl) ResetPassword(ctx context.Context, id, tempPassword string) error {
	if id == "" {
		return errs.New(errs.Validation, "id required")
	}
	return s.users.ResetPassword(ctx, id, tempPassword)
}

// SetValidated flips an account's validated flag.
func (s *AdminServiceImpl) SetValidated(ctx context.Context, id string, validated bool) error {
	if id == "" {
		return errs.New(errs.Validation, "id required")
	}
	return s.users.SetValidated(ctx, id, validated)
}
