// Package memory provides process-local implementations of the repository
// ports. They back the demo mode and the REST handler tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
)

// OfferRepository keeps offers in creation order.
type OfferRepository struct {
	mu     sync.RWMutex
	order  []string
	offers map[string]model.CreditOffer
}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{offers: make(map[string]model.CreditOffer)}
}

func (r *OfferRepository) Save(_ context.Context, offer model.CreditOffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offer.ID()]; !ok {
		r.order = append(r.order, offer.ID())
	}
	// Compatibility is per caller and never stored.
	r.offers[offer.ID()] = offer.WithoutCompatibility()
	return nil
}

func (r *OfferRepository) FindByID(_ context.Context, id string) (model.CreditOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.offers[id]
	if !ok {
		return model.CreditOffer{}, fmt.Errorf("offer %s: %w", id, port.ErrNotFound)
	}
	return o, nil
}

func (r *OfferRepository) List(_ context.Context) ([]model.CreditOffer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.CreditOffer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.offers[id])
	}
	return out, nil
}

func (r *OfferRepository) ListByInstitution(ctx context.Context, institutionID string) ([]model.CreditOffer, error) {
	all, _ := r.List(ctx)
	return slices.DeleteFunc(all, func(o model.CreditOffer) bool { return !o.OwnedBy(institutionID) }), nil
}

func (r *OfferRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return fmt.Errorf("offer %s: %w", id, port.ErrNotFound)
	}
	delete(r.offers, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

// ProfileRepository keeps one profile per user.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]model.CreditProfile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]model.CreditProfile)}
}

func (r *ProfileRepository) Save(_ context.Context, p model.CreditProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID()] = p
	return nil
}

func (r *ProfileRepository) FindByUserID(_ context.Context, userID string) (model.CreditProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return model.CreditProfile{}, fmt.Errorf("profile for %s: %w", userID, port.ErrNotFound)
	}
	return p, nil
}

// ConsentRepository keeps the current consent per user. Saving a consent with
// a new ID replaces the user's previous one.
type ConsentRepository struct {
	mu       sync.RWMutex
	consents map[string]model.OpenFinanceConsent
}

func NewConsentRepository() *ConsentRepository {
	return &ConsentRepository{consents: make(map[string]model.OpenFinanceConsent)}
}

func (r *ConsentRepository) Save(_ context.Context, c model.OpenFinanceConsent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consents[c.UserID()] = c
	return nil
}

func (r *ConsentRepository) FindByUserID(_ context.Context, userID string) (model.OpenFinanceConsent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.consents[userID]
	if !ok {
		return model.OpenFinanceConsent{}, fmt.Errorf("consent for %s: %w", userID, port.ErrNotFound)
	}
	return c, nil
}

func (r *ConsentRepository) ListExpirable(_ context.Context, now time.Time) ([]model.OpenFinanceConsent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.OpenFinanceConsent
	for _, c := range r.consents {
		if !c.Status().IsTerminal() && !now.Before(c.ValidUntil()) {
			out = append(out, c)
		}
	}
	return out, nil
}

// UserRepository indexes accounts by ID and email.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[string]model.User), byEmail: make(map[string]string)}
}

func (r *UserRepository) Create(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[u.Email()]; taken {
		return fmt.Errorf("email %s: %w", u.Email(), port.ErrConflict)
	}
	r.byID[u.ID()] = u
	r.byEmail[u.Email()] = u.ID()
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", id, port.ErrNotFound)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return model.User{}, fmt.Errorf("user %s: %w", email, port.ErrNotFound)
	}
	return r.byID[id], nil
}

// NotificationRepository keeps notifications in arrival order.
type NotificationRepository struct {
	mu    sync.RWMutex
	items []model.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Save(_ context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID() == n.ID() {
			r.items[i] = n
			return nil
		}
	}
	r.items = append(r.items, n)
	return nil
}

func (r *NotificationRepository) FindByID(_ context.Context, id string) (model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.items {
		if n.ID() == id {
			return n, nil
		}
	}
	return model.Notification{}, fmt.Errorf("notification %s: %w", id, port.ErrNotFound)
}

// ListByUser returns newest first.
func (r *NotificationRepository) ListByUser(_ context.Context, userID string) ([]model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Notification{}
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID() == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}
