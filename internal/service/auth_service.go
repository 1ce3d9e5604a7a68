package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/voyager-trip-planner/internal/model"
	"github.com/iliyamo/voyager-trip-planner/internal/repository"
	"github.com/iliyamo/voyager-trip-planner/internal/utils"
)

// Registration limits.
const (
	MinPasswordLength = 8
	MaxNameLength     = 100
	MaxEmailLength    = 255
)

// UserStore is the persistence the authenticator needs.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// AuthService registers users, checks credentials and issues and verifies
// stateless session tokens.
type AuthService struct {
	users  UserStore
	secret string
	ttl    time.Duration
	cost   int
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserStore, secret string, ttl time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:  users,
		secret: secret,
		ttl:    ttl,
		cost:   bcryptCost,
		now:    time.Now,
	}
}

// WithClock replaces the time source used to issue and verify tokens.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      model.Identity `json:"user"`
}

// Register creates a user and returns its id.  Only the bcrypt hash of the
// password is stored.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (uint64, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return 0, validationError("name, email and password are required")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return 0, validationError("password must be at least 8 characters long")
	}
	if len(password) > utils.MaxPasswordBytes {
		return 0, validationError("password must be at most 72 bytes long")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return 0, validationError("name must be at most 100 characters long")
	}
	if len(email) > MaxEmailLength || !looksLikeEmail(email) {
		return 0, validationError("email address is invalid")
	}

	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, validationError("password must be at most 72 bytes long")
		}
		return 0, &Error{Kind: ErrStore, Message: "could not register user", Err: err}
	}

	id, err := s.users.Create(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return 0, errEmailRegistered
		}
		return 0, storeError(err)
	}
	return id, nil
}

// Login checks the credentials and issues a session token.  An unknown
// email and a wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, errInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Spend the same bcrypt work as a real check.
			utils.VerifyPassword(s.fakeHash(), password)
			return LoginResult{}, errInvalidCredentials
		}
		return LoginResult{}, storeError(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, errInvalidCredentials
	}

	tok, err := utils.NewSessionToken(s.secret, u.ID, s.ttl, s.now())
	if err != nil {
		return LoginResult{}, &Error{Kind: ErrStore, Message: "could not issue token", Err: err}
	}
	return LoginResult{Token: tok.Token, ExpiresAt: tok.Exp, User: u.Identity()}, nil
}

// Authenticate verifies a raw session token and resolves the caller.
// Absent, malformed, foreign-signed and expired tokens, and tokens whose
// user no longer exists, are all rejected with the same error.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (model.Identity, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return model.Identity{}, errInvalidToken
	}
	claims, err := utils.ParseSessionToken(s.secret, rawToken, s.now())
	if err != nil {
		return model.Identity{}, errInvalidToken
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Identity{}, errInvalidToken
		}
		return model.Identity{}, storeError(err)
	}
	return u.Identity(), nil
}

func (s *AuthService) fakeHash() string {
	s.dummyOnce.Do(func() {
		h, err := utils.HashPassword("voyager-placeholder-password", s.cost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func looksLikeEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}
