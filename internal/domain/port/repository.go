package port

import (
	"context"
	"errors"
	"time"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/openbanking"
)

var (
	// ErrNotFound is returned by repositories when no record matches.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("conflict")
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// OfferRepository persists the offer catalog. Catalog order is creation order.
type OfferRepository interface {
	Save(ctx context.Context, offer model.CreditOffer) error
	FindByID(ctx context.Context, id string) (model.CreditOffer, error)
	List(ctx context.Context) ([]model.CreditOffer, error)
	ListByInstitution(ctx context.Context, institutionID string) ([]model.CreditOffer, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepository keeps the current credit profile per user.
type ProfileRepository interface {
	Save(ctx context.Context, profile model.CreditProfile) error
	FindByUserID(ctx context.Context, userID string) (model.CreditProfile, error)
}

// ConsentRepository keeps the current Open Finance consent per user.
type ConsentRepository interface {
	Save(ctx context.Context, consent model.OpenFinanceConsent) error
	FindByUserID(ctx context.Context, userID string) (model.OpenFinanceConsent, error)
	// ListExpirable returns non-terminal consents whose validity ended at or before now.
	ListExpirable(ctx context.Context, now time.Time) ([]model.OpenFinanceConsent, error)
}

// UserRepository persists accounts. Create returns ErrConflict for a taken email.
type UserRepository interface {
	Create(ctx context.Context, user model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// NotificationRepository persists notifications, newest first on read.
type NotificationRepository interface {
	Save(ctx context.Context, n model.Notification) error
	FindByID(ctx context.Context, id string) (model.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
}

// SessionStore keeps server-side session records keyed by token.
type SessionStore interface {
	Put(ctx context.Context, session model.Session) error
	Get(ctx context.Context, token string) (model.Session, error)
	Delete(ctx context.Context, token string) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// ProfileAnalysisService produces a fresh credit profile for a user.
type ProfileAnalysisService interface {
	Analyze(ctx context.Context, userID string) (model.CreditProfile, error)
}

// TransactionSource reads a user's Open Finance transaction history.
type TransactionSource interface {
	ListTransactions(ctx context.Context, userID string) ([]openbanking.Transaction, error)
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	GenerateToken(userID, email string, roles []string) (string, time.Time, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
