// Package service contains application services for auth, items, and administration.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sgubproject/listd/internal/crypto"
	"github.com/sgubproject/listd/internal/errs"
	"github.com/sgubproject/listd/internal/model"
	"github.com/sgubproject/listd/internal/repository"
)

const tokenLeeway = 30 * time.Second

// Claims are the JWT claims issued at signin. Subject carries the user id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SigninResult is returned on successful authentication.
type SigninResult struct {
	Token     string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// Profile is the authenticated user's own view of their account.
type Profile struct {
	Username   string
	SignedUpAt time.Time
}

// AuthService defines signup, authentication, and self-service operations.
type AuthService interface {
	// Signup submits a new unvalidated account.
	Signup(ctx context.Context, username, password string) error
	// Signin authenticates a validated user and issues a signed token.
	Signin(ctx context.Context, username, password string) (*SigninResult, error)
	// ChangePassword swaps the caller's password after verifying the current one.
	ChangePassword(ctx context.Context, userID, current, next string) error
	// Profile returns the caller's own account view.
	Profile(ctx context.Context, userID string) (*Profile, error)
	// VerifyToken parses and validates a signed token.
	VerifyToken(token string) (*Claims, error)
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	signKey  []byte
	tokenTTL time.Duration
}

var _ AuthService = (*AuthServiceImpl)(nil)

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, tokenTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signKey: signKey, tokenTTL: tokenTTL}
}

// Signup creates a new account awaiting admin validation.
func (s *AuthServiceImpl) Signup(ctx context.Context, username, password string) error {
	_, err := s.users.Signup(ctx, username, password)
	return err
}

// Signin verifies credentials and the validation gate, then issues an HS256
// token. Failures never reveal whether the username exists.
func (s *AuthServiceImpl) Signin(ctx context.Context, username, password string) (*SigninResult, error) {
	if username == "" || password == "" {
		return nil, errs.New(errs.Validation, "username and password required")
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errs.Is(err, errs.NotFound) {
			return nil, errs.New(errs.Unauthorized, "invalid credentials")
		}
		return nil, err
	}
	if !crypto.VerifyPassword(password, u.PasswordHash) {
		return nil, errs.New(errs.Unauthorized, "invalid credentials")
	}
	if !u.IsAdmin() && !u.Validated {
		return nil, errs.New(errs.Forbidden, "account pending validation")
	}
	token, exp, err := s.issueToken(u)
	if err != nil {
		return nil, errs.Wrap(errs.Storage, "sign token", err)
	}
	return &SigninResult{Token: token, Username: u.Username, Role: u.Role, ExpiresAt: exp}, nil
}

func (s *AuthServiceImpl) issueToken(u *model.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.tokenTTL)
	claims := Claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// VerifyToken parses a bearer token, enforcing HS256 and expiry with leeway.
func (s *AuthServiceImpl) VerifyToken(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.signKey, nil
	}, jwt.WithLeeway(tokenLeeway))
	if err != nil || !parsed.Valid {
		return nil, errs.New(errs.Unauthorized, "invalid or expired token")
	}
	return &claims, nil
}

// ChangePassword swaps the caller's own password.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.users.ChangePassword(ctx, userID, current, next)
}

// Profile returns the caller's username and signup time.
func (s *AuthServiceImpl) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{Username: u.Username, SignedUpAt: u.SignedUpAt}, nil
}
