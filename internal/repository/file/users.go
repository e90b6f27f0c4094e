// Package file implements the repositories on top of the JSON document store.
package file

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/sgubproject/listd/internal/crypto"
	"github.com/sgubproject/listd/internal/errs"
	"github.com/sgubproject/listd/internal/model"
	"github.com/sgubproject/listd/internal/repository"
	"github.com/sgubproject/listd/internal/store"
)

const (
	generatedPasswordLen = 8
	seededAdminPwdLen    = 12
)

// UserRepo enforces account invariants over the document store: usernames are
// unique case-insensitively, the reserved admin account cannot be claimed or
// destructively modified, and deleting a user removes their items.
type UserRepo struct {
	store *store.Store
	log   *zap.Logger
}

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo constructs the repository.
func NewUserRepo(st *store.Store, log *zap.Logger) *UserRepo {
	return &UserRepo{store: st, log: log}
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}

func reserved(username string) bool {
	return strings.EqualFold(username, model.ReservedAdminUsername)
}

func findByUsername(doc *model.Document, username string) *model.User {
	for i := range doc.Users {
		if strings.EqualFold(doc.Users[i].Username, username) {
			return &doc.Users[i]
		}
	}
	return nil
}

func findByID(doc *model.Document, id string) *model.User {
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			return &doc.Users[i]
		}
	}
	return nil
}

// FindByUsername loads a user by username, compared case-insensitively.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	doc, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	u := findByUsername(doc, username)
	if u == nil {
		return nil, errs.New(errs.NotFound, "user not found")
	}
	return u, nil
}

// FindByID loads a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	doc, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	u := findByID(doc, id)
	if u == nil {
		return nil, errs.New(errs.NotFound, "user not found")
	}
	return u, nil
}

// Signup creates an unvalidated regular account. The stored username keeps
// its original casing, trimmed of surrounding whitespace.
func (r *UserRepo) Signup(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.New(errs.Validation, "username required")
	}
	if password == "" {
		return nil, errs.New(errs.Validation, "password required")
	}
	if reserved(username) {
		return nil, errs.New(errs.Validation, "username admin is reserved")
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, errs.Wrap(errs.Storage, "hash password", err)
	}

	created := model.User{
		ID:           newID(),
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Validated:    false,
		SignedUpAt:   time.Now().UTC(),
	}
	_, err = r.store.Mutate(ctx, func(doc *model.Document) error {
		if findByUsername(doc, username) != nil {
			return errs.New(errs.Conflict, "username taken")
		}
		doc.Users = append(doc.Users, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ChangePassword verifies the current password before installing a new hash.
func (r *UserRepo) ChangePassword(ctx context.Context, id, current, next string) error {
	if current == "" || next == "" {
		return errs.New(errs.Validation, "current and new password required")
	}
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		u := findByID(doc, id)
		if u == nil {
			return errs.New(errs.NotFound, "user not found")
		}
		if !crypto.VerifyPassword(current, u.PasswordHash) {
			return errs.New(errs.Validation, "wrong password")
		}
		hash, err := crypto.HashPassword(next)
		if err != nil {
			return errs.Wrap(errs.Storage, "hash password", err)
		}
		u.PasswordHash = hash
		return nil
	})
	return err
}

// List returns every user reduced to id, username, and validated flag.
// Password hashes never leave the repository.
func (r *UserRepo) List(ctx context.Context) ([]model.UserSummary, error) {
	doc, err := r.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserSummary, 0, len(doc.Users))
	for i := range doc.Users {
		out = append(out, doc.Users[i].Summary())
	}
	return out, nil
}

// Add creates an unvalidated account on behalf of an administrator. An empty
// password is replaced with a generated one.
func (r *UserRepo) Add(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.New(errs.Validation, "username required")
	}
	if reserved(username) {
		return nil, errs.New(errs.Validation, "cannot add admin user")
	}
	if password == "" {
		pwd, err := crypto.RandPassword(generatedPasswordLen)
		if err != nil {
			return nil, errs.Wrap(errs.Storage, "generate password", err)
		}
		password = pwd
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, errs.Wrap(errs.Storage, "hash password", err)
	}

	created := model.User{
		ID:           newID(),
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Validated:    false,
		SignedUpAt:   time.Now().UTC(),
	}
	_, err = r.store.Mutate(ctx, func(doc *model.Document) error {
		if findByUsername(doc, username) != nil {
			return errs.New(errs.Conflict, "username taken")
		}
		doc.Users = append(doc.Users, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update renames a user and/or flips the validated flag. The admin account is
// never touched, and a new username is subject to the same reserved-name and
// uniqueness rules as signup.
func (r *UserRepo) Update(ctx context.Context, id string, upd repository.UserUpdate) (*model.User, error) {
	var updated model.User
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		u := findByID(doc, id)
		if u == nil {
			return errs.New(errs.NotFound, "user not found")
		}
		if u.IsAdmin() {
			return errs.New(errs.Protected, "cannot modify admin")
		}
		if upd.Username != nil {
			name := strings.TrimSpace(*upd.Username)
			if name == "" {
				return errs.New(errs.Validation, "username required")
			}
			if reserved(name) {
				return errs.New(errs.Validation, "username admin is reserved")
			}
			if taken := findByUsername(doc, name); taken != nil && taken.ID != id {
				return errs.New(errs.Conflict, "username taken")
			}
			u.Username = name
		}
		if upd.Validated != nil {
			u.Validated = *upd.Validated
		}
		updated = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a user and cascades removal of their item collection.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		u := findByID(doc, id)
		if u == nil {
			return errs.New(errs.NotFound, "user not found")
		}
		if u.IsAdmin() {
			return errs.New(errs.Protected, "cannot delete admin")
		}
		kept := doc.Users[:0]
		for i := range doc.Users {
			if doc.Users[i].ID != id {
				kept = append(kept, doc.Users[i])
			}
		}
		doc.Users = kept
		delete(doc.ItemsByUserID, id)
		return nil
	})
	return err
}

// ResetPassword installs a temporary password, generating one when none is
// supplied. The admin account only accepts an explicit temp password, since a
// generated one would be unrecoverable.
func (r *UserRepo) ResetPassword(ctx context.Context, id, tempPassword string) error {
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		u := findByID(doc, id)
		if u == nil {
			return errs.New(errs.NotFound, "user not found")
		}
		if u.IsAdmin() && tempPassword == "" {
			return errs.New(errs.Protected, "temp password required for admin")
		}
		pwd := tempPassword
		if pwd == "" {
			p, err := crypto.RandPassword(generatedPasswordLen)
			if err != nil {
				return errs.Wrap(errs.Storage, "generate password", err)
			}
			pwd = p
		}
		hash, err := crypto.HashPassword(pwd)
		if err != nil {
			return errs.Wrap(errs.Storage, "hash password", err)
		}
		u.PasswordHash = hash
		return nil
	})
	return err
}

// SetValidated flips the validated flag. Invalidating the admin account is
// refused.
func (r *UserRepo) SetValidated(ctx context.Context, id string, validated bool) error {
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		u := findByID(doc, id)
		if u == nil {
			return errs.New(errs.NotFound, "user not found")
		}
		if u.IsAdmin() && !validated {
			return errs.New(errs.Protected, "cannot invalidate admin")
		}
		u.Validated = validated
		return nil
	})
	return err
}

// SeedAdmin creates the reserved admin account on first run. A generated
// password is logged, since it is otherwise unrecoverable.
func (r *UserRepo) SeedAdmin(ctx context.Context, password string) error {
	generated := false
	if password == "" {
		pwd, err := crypto.RandPassword(seededAdminPwdLen)
		if err != nil {
			return errs.Wrap(errs.Storage, "generate password", err)
		}
		password = pwd
		generated = true
	}
	created := false
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		if findByUsername(doc, model.ReservedAdminUsername) != nil {
			return nil
		}
		hash, err := crypto.HashPassword(password)
		if err != nil {
			return errs.Wrap(errs.Storage, "hash password", err)
		}
		doc.Users = append(doc.Users, model.User{
			ID:           newID(),
			Username:     model.ReservedAdminUsername,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			Validated:    true,
			SignedUpAt:   time.Now().UTC(),
		})
		created = true
		return nil
	})
	if err != nil {
		return err
	}
	if created {
		if generated {
			r.log.Info("seeded admin account", zap.String("password", password))
		} else {
			r.log.Info("seeded admin account")
		}
	}
	return nil
}

// SeedSampleUsers creates validated sample accounts, each with one welcome
// item. Entries with missing fields, the reserved name, or an already-taken
// username are skipped.
func (r *UserRepo) SeedSampleUsers(ctx context.Context, samples []repository.SeedUser) error {
	if len(samples) == 0 {
		return nil
	}
	var seeded []string
	_, err := r.store.Mutate(ctx, func(doc *model.Document) error {
		seeded = seeded[:0]
		for _, s := range samples {
			username := strings.TrimSpace(s.Username)
			if username == "" || s.Password == "" {
				continue
			}
			if reserved(username) || findByUsername(doc, username) != nil {
				continue
			}
			hash, err := crypto.HashPassword(s.Password)
			if err != nil {
				return errs.Wrap(errs.Storage, "hash password", err)
			}
			u := model.User{
				ID:           newID(),
				Username:     username,
				PasswordHash: hash,
				Role:         model.RoleUser,
				Validated:    true,
				SignedUpAt:   time.Now().UTC(),
			}
			doc.Users = append(doc.Users, u)
			doc.ItemsByUserID[u.ID] = []model.Item{{ID: newID(), Text: "Welcome to your list"}}
			seeded = append(seeded, u.Username)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(seeded) > 0 {
		r.log.Info("seeded sample users", zap.Strings("usernames", seeded))
	}
	return nil
}
