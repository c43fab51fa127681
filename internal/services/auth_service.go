package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"shopfront/internal/domain"
	"shopfront/internal/store"
	"shopfront/internal/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users  store.Users
	Tokens *TokenIssuer
	// Cost is the bcrypt work factor; zero means bcrypt.DefaultCost.
	Cost int

	dummyOnce sync.Once
	dummy     []byte
}

func NewAuthService(users store.Users, tokens *TokenIssuer) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if !validate.Present(name, email, password) {
		return nil, "", invalid("name, email and password are required")
	}
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil, "", invalid("email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	u, err := s.newUser(name, email, password, false)
	if err != nil {
		return nil, "", err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", invalid("email already registered")
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	tok, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, tok, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	if !validate.Present(email, password) {
		return nil, "", invalid("email and password are required")
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// same bcrypt work as a wrong password
			_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
			return nil, "", ErrBadCreds
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	tok, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, tok, nil
}

// Verify yields the user id embedded in a bearer token.
func (s *AuthService) Verify(tok string) (string, error) {
	if strings.TrimSpace(tok) == "" {
		return "", &Error{Kind: ErrUnauthorized, Msg: "missing token"}
	}
	return s.Tokens.Verify(tok)
}

// CurrentUser loads the user behind userID. A token whose user no longer
// exists is treated as unauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Error{Kind: ErrUnauthorized, Msg: "unknown user"}
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// RequireAdmin returns ErrForbidden unless userID belongs to an admin.
func (s *AuthService) RequireAdmin(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin {
		return nil, &Error{Kind: ErrForbidden, Msg: "admin access required"}
	}
	return u, nil
}

// EnsureAdmin creates an admin account for email unless one already exists.
// It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if !validate.Present(email, password) {
		return false, invalid("admin email and password are required")
	}
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	u, err := s.newUser(name, email, password, true)
	if err != nil {
		return false, err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Users.List(ctx)
}

// dummyHash is the hash of a random value at the service's cost. Logins for
// unknown emails compare against it.
func (s *AuthService) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.cost())
	})
	return s.dummy
}

func (s *AuthService) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

func (s *AuthService) newUser(name, email, password string, admin bool) (*domain.User, error) {
	if len(password) > 72 {
		return nil, invalid("password must be at most 72 bytes")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.User{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		Hash:    string(h),
		IsAdmin: admin,
	}, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
