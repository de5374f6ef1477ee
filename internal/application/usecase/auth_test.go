package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/application/usecase"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
)

func existingUser(t *testing.T, email, password string, role valueobject.Role) model.User {
	t.Helper()
	hash, _ := plainHasher{}.Hash(password)
	return model.ReconstructUser("user-"+role.String(), "Maria Silva", email, hash, role, time.Now().UTC())
}

func TestRegister_Execute(t *testing.T) {
	t.Run("creates a borrower and opens a session", func(t *testing.T) {
		users := newMockUserRepository()
		tokens := newMockTokens()
		sessions := newMockSessionStore()
		publisher := &mockEventPublisher{}
		uc := usecase.NewRegisterUseCase(users, plainHasher{}, tokens, sessions, publisher)

		resp, err := uc.Execute(context.Background(), dto.RegisterRequest{
			Name:     "Maria Silva",
			Email:    "Maria@Email.com",
			Password: "senha123",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "maria@email.com", resp.User.Email)
		assert.Equal(t, "user", resp.User.Role)
		assert.Contains(t, sessions.sessions, resp.Token)
		assert.Equal(t, []string{event.TypeUserRegistered}, publisher.types())

		stored, err := users.FindByEmail(context.Background(), "maria@email.com")
		require.NoError(t, err)
		assert.Equal(t, "hashed:senha123", stored.PasswordHash())
	})

	t.Run("registers a partner", func(t *testing.T) {
		uc := usecase.NewRegisterUseCase(newMockUserRepository(), plainHasher{}, newMockTokens(), newMockSessionStore(), &mockEventPublisher{})

		resp, err := uc.Execute(context.Background(), dto.RegisterRequest{
			Name: "Banco Alpha", Email: "alpha@banco.com", Password: "senha123", Role: "partner",
		})

		require.NoError(t, err)
		assert.Equal(t, "partner", resp.User.Role)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		users := newMockUserRepository(existingUser(t, "maria@email.com", "senha123", valueobject.RoleUser))
		uc := usecase.NewRegisterUseCase(users, plainHasher{}, newMockTokens(), newMockSessionStore(), &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.RegisterRequest{
			Name: "Outra Maria", Email: "MARIA@email.com", Password: "senha123",
		})

		assert.ErrorIs(t, err, usecase.ErrEmailTaken)
	})

	t.Run("maps a storage conflict to a taken email", func(t *testing.T) {
		users := newMockUserRepository()
		users.createErr = port.ErrConflict
		uc := usecase.NewRegisterUseCase(users, plainHasher{}, newMockTokens(), newMockSessionStore(), &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.RegisterRequest{
			Name: "Maria", Email: "maria@email.com", Password: "senha123",
		})

		assert.ErrorIs(t, err, usecase.ErrEmailTaken)
	})

	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"blank name", dto.RegisterRequest{Name: "  ", Email: "a@b.com", Password: "senha123"}},
		{"bad email", dto.RegisterRequest{Name: "Ana", Email: "not-an-email", Password: "senha123"}},
		{"short password", dto.RegisterRequest{Name: "Ana", Email: "a@b.com", Password: "123"}},
		{"unknown role", dto.RegisterRequest{Name: "Ana", Email: "a@b.com", Password: "senha123", Role: "admin"}},
	}
	for _, tc := range tests {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			publisher := &mockEventPublisher{}
			uc := usecase.NewRegisterUseCase(newMockUserRepository(), plainHasher{}, newMockTokens(), newMockSessionStore(), publisher)

			_, err := uc.Execute(context.Background(), tc.req)

			assert.ErrorIs(t, err, usecase.ErrInvalidRequest)
			assert.Empty(t, publisher.publishedEvents)
		})
	}
}

func TestLogin_Execute(t *testing.T) {
	user := existingUser(t, "usuario@email.com", "senha123", valueobject.RoleUser)

	t.Run("opens a session for valid credentials", func(t *testing.T) {
		sessions := newMockSessionStore()
		uc := usecase.NewLoginUseCase(newMockUserRepository(user), plainHasher{}, newMockTokens(), sessions)

		resp, err := uc.Execute(context.Background(), dto.LoginRequest{Email: " Usuario@Email.com", Password: "senha123"})

		require.NoError(t, err)
		assert.Equal(t, user.ID(), resp.User.ID)
		session := sessions.sessions[resp.Token]
		assert.Equal(t, user.ID(), session.UserID)
		assert.Equal(t, "user", session.Role)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		uc := usecase.NewLoginUseCase(newMockUserRepository(user), plainHasher{}, newMockTokens(), newMockSessionStore())

		_, err := uc.Execute(context.Background(), dto.LoginRequest{Email: "usuario@email.com", Password: "errada"})

		assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		uc := usecase.NewLoginUseCase(newMockUserRepository(user), plainHasher{}, newMockTokens(), newMockSessionStore())

		_, err := uc.Execute(context.Background(), dto.LoginRequest{Email: "ninguem@email.com", Password: "senha123"})

		assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
	})
}

func TestAuthenticateAndLogout(t *testing.T) {
	user := existingUser(t, "parceiro@email.com", "senha123", valueobject.RolePartner)
	tokens := newMockTokens()
	sessions := newMockSessionStore()
	login := usecase.NewLoginUseCase(newMockUserRepository(user), plainHasher{}, tokens, sessions)
	authenticate := usecase.NewAuthenticateUseCase(tokens, sessions)
	logout := usecase.NewLogoutUseCase(sessions)
	ctx := context.Background()

	resp, err := login.Execute(ctx, dto.LoginRequest{Email: "parceiro@email.com", Password: "senha123"})
	require.NoError(t, err)

	principal, err := authenticate.Execute(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, dto.Principal{UserID: user.ID(), Name: user.Name(), Email: user.Email(), Role: "partner"}, principal)

	_, err = authenticate.Execute(ctx, "forged")
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)

	_, err = authenticate.Execute(ctx, "")
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)

	require.NoError(t, logout.Execute(ctx, resp.Token))
	_, err = authenticate.Execute(ctx, resp.Token)
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated, "token must stop working after logout")

	assert.NoError(t, logout.Execute(ctx, resp.Token), "logout is idempotent")
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	user := existingUser(t, "usuario@email.com", "senha123", valueobject.RoleUser)
	tokens := newMockTokens()
	sessions := newMockSessionStore()
	token, _, err := tokens.GenerateToken(user.ID(), user.Email(), []string{"user"})
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, sessions.Put(context.Background(), model.NewSession(token, user, now.Add(-2*time.Hour), now.Add(-time.Hour))))

	_, err = usecase.NewAuthenticateUseCase(tokens, sessions).Execute(context.Background(), token)

	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)
}
