package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
)

// Notification is a message shown to a single user.
type Notification struct {
	id        string
	userID    string
	kind      valueobject.NotificationType
	message   string
	read      bool
	createdAt time.Time
}

// NewNotification creates an unread notification.
func NewNotification(userID string, kind valueobject.NotificationType, message string, now time.Time) (Notification, error) {
	if userID == "" {
		return Notification{}, errors.New("user ID is required")
	}
	if message == "" {
		return Notification{}, errors.New("message is required")
	}
	return Notification{
		id:        uuid.New().String(),
		userID:    userID,
		kind:      kind,
		message:   message,
		createdAt: now,
	}, nil
}

// ReconstructNotification rebuilds a notification from persistence.
func ReconstructNotification(id, userID string, kind valueobject.NotificationType, message string, read bool, createdAt time.Time) Notification {
	return Notification{id: id, userID: userID, kind: kind, message: message, read: read, createdAt: createdAt}
}

// MarkRead returns a read copy.
func (n Notification) MarkRead() Notification {
	next := n
	next.read = true
	return next
}

func (n Notification) ID() string                         { return n.id }
func (n Notification) UserID() string                     { return n.userID }
func (n Notification) Type() valueobject.NotificationType { return n.kind }
func (n Notification) Message() string                    { return n.message }
func (n Notification) Read() bool                         { return n.read }
func (n Notification) CreatedAt() time.Time               { return n.createdAt }
