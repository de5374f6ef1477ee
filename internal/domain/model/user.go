package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/events"
)

// User is a marketplace account: a borrower or a partner institution.
type User struct {
	id           string
	name         string
	email        string
	passwordHash string
	role         valueobject.Role
	createdAt    time.Time
	domainEvents events.EventCollector
}

// NewUser creates an account. The email is normalised to lower case.
func NewUser(name, email, passwordHash string, role valueobject.Role, now time.Time) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, errors.New("name is required")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	if passwordHash == "" {
		return User{}, errors.New("password hash is required")
	}
	if role.IsZero() {
		return User{}, errors.New("role is required")
	}

	u := User{
		id:           uuid.New().String(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    now,
	}
	u.domainEvents.Record(event.NewUserRegistered(u.id, u.email, role.String()))
	return u, nil
}

// ReconstructUser rebuilds a user from persistence.
func ReconstructUser(id, name, email, passwordHash string, role valueobject.Role, createdAt time.Time) User {
	return User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
	}
}

// NormalizeEmail validates an address and lower-cases it.
func NormalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return "", errors.New("invalid email address")
	}
	return strings.ToLower(addr.Address), nil
}

func (u User) ID() string                        { return u.id }
func (u User) Name() string                      { return u.name }
func (u User) Email() string                     { return u.email }
func (u User) PasswordHash() string              { return u.passwordHash }
func (u User) Role() valueobject.Role            { return u.role }
func (u User) CreatedAt() time.Time              { return u.createdAt }
func (u User) DomainEvents() []event.DomainEvent { return u.domainEvents.Events() }
