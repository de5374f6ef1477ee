package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/auth"
)

const minPasswordLen = 6

// RegisterUseCase opens a new account and signs the caller in.
type RegisterUseCase struct {
	users     port.UserRepository
	hasher    port.PasswordHasher
	tokens    port.TokenIssuer
	sessions  port.SessionStore
	publisher port.EventPublisher
}

// NewRegisterUseCase wires dependencies.
func NewRegisterUseCase(
	users port.UserRepository,
	hasher port.PasswordHasher,
	tokens port.TokenIssuer,
	sessions port.SessionStore,
	publisher port.EventPublisher,
) *RegisterUseCase {
	return &RegisterUseCase{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		sessions:  sessions,
		publisher: publisher,
	}
}

// Execute creates the account. Role defaults to user.
func (uc *RegisterUseCase) Execute(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	// 1. Validate input.
	if strings.TrimSpace(req.Name) == "" {
		return dto.AuthResponse{}, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	email, err := model.NormalizeEmail(req.Email)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLen {
		return dto.AuthResponse{}, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidRequest, minPasswordLen)
	}
	roleName := req.Role
	if roleName == "" {
		roleName = valueobject.RoleUser.String()
	}
	role, err := valueobject.NewRole(roleName)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// 2. Reject taken emails before paying for a hash.
	if _, err := uc.users.FindByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, port.ErrNotFound) {
		return dto.AuthResponse{}, fmt.Errorf("find user: %w", err)
	}

	// 3. Create the account.
	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := model.NewUser(req.Name, email, hash, role, time.Now().UTC())
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, port.ErrConflict) {
			return dto.AuthResponse{}, ErrEmailTaken
		}
		return dto.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	// 4. Publish domain events.
	if err := uc.publisher.Publish(ctx, user.DomainEvents()...); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("publish events: %w", err)
	}

	// 5. Open a session.
	return openSession(ctx, uc.tokens, uc.sessions, user)
}

// LoginUseCase signs an existing account in.
type LoginUseCase struct {
	users    port.UserRepository
	hasher   port.PasswordHasher
	tokens   port.TokenIssuer
	sessions port.SessionStore
}

// NewLoginUseCase wires dependencies.
func NewLoginUseCase(
	users port.UserRepository,
	hasher port.PasswordHasher,
	tokens port.TokenIssuer,
	sessions port.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{users: users, hasher: hasher, tokens: tokens, sessions: sessions}
}

// Execute checks the credentials and opens a session.
func (uc *LoginUseCase) Execute(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	email, err := model.NormalizeEmail(req.Email)
	if err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}
	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, fmt.Errorf("find user: %w", err)
	}
	if err := uc.hasher.Compare(user.PasswordHash(), req.Password); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}
	return openSession(ctx, uc.tokens, uc.sessions, user)
}

func openSession(ctx context.Context, tokens port.TokenIssuer, sessions port.SessionStore, user model.User) (dto.AuthResponse, error) {
	token, expiresAt, err := tokens.GenerateToken(user.ID(), user.Email(), []string{user.Role().String()})
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("generate token: %w", err)
	}
	session := model.NewSession(token, user, time.Now().UTC(), expiresAt)
	if err := sessions.Put(ctx, session); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("store session: %w", err)
	}
	return dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

// LogoutUseCase ends a session.
type LogoutUseCase struct {
	sessions port.SessionStore
}

// NewLogoutUseCase wires dependencies.
func NewLogoutUseCase(sessions port.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions}
}

// Execute deletes the session behind token. Unknown tokens are not an error.
func (uc *LogoutUseCase) Execute(ctx context.Context, token string) error {
	if err := uc.sessions.Delete(ctx, token); err != nil && !errors.Is(err, port.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// AuthenticateUseCase resolves a bearer token into the calling principal. The
// token must verify and still have a live server-side session, so logout
// takes effect before the token expires.
type AuthenticateUseCase struct {
	validator auth.TokenValidator
	sessions  port.SessionStore
}

// NewAuthenticateUseCase wires dependencies.
func NewAuthenticateUseCase(validator auth.TokenValidator, sessions port.SessionStore) *AuthenticateUseCase {
	return &AuthenticateUseCase{validator: validator, sessions: sessions}
}

// Execute returns the principal for token or ErrUnauthenticated.
func (uc *AuthenticateUseCase) Execute(ctx context.Context, token string) (dto.Principal, error) {
	if token == "" {
		return dto.Principal{}, ErrUnauthenticated
	}
	claims, err := uc.validator.ValidateToken(token)
	if err != nil {
		return dto.Principal{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	session, err := uc.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return dto.Principal{}, ErrUnauthenticated
		}
		return dto.Principal{}, fmt.Errorf("load session: %w", err)
	}
	if session.UserID != claims.UserID || session.Expired(time.Now().UTC()) {
		return dto.Principal{}, ErrUnauthenticated
	}
	return dto.Principal{
		UserID: session.UserID,
		Name:   session.Name,
		Email:  session.Email,
		Role:   session.Role,
	}, nil
}
