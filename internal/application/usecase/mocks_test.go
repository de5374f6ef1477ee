package usecase_test

import (
	"context"
	"errors"
	"time"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/auth"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/openbanking"
)

// --- Mock implementations ---

type mockOfferRepository struct {
	offers      []model.CreditOffer
	listErr     error
	saveFunc    func(ctx context.Context, o model.CreditOffer) error
	deleteFunc  func(ctx context.Context, id string) error
	savedOffers []model.CreditOffer
	deletedIDs  []string
}

func (m *mockOfferRepository) Save(ctx context.Context, o model.CreditOffer) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, o)
	}
	m.savedOffers = append(m.savedOffers, o)
	return nil
}

func (m *mockOfferRepository) FindByID(_ context.Context, id string) (model.CreditOffer, error) {
	for _, o := range m.offers {
		if o.ID() == id {
			return o, nil
		}
	}
	return model.CreditOffer{}, port.ErrNotFound
}

func (m *mockOfferRepository) List(context.Context) ([]model.CreditOffer, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.offers, nil
}

func (m *mockOfferRepository) ListByInstitution(_ context.Context, institutionID string) ([]model.CreditOffer, error) {
	var out []model.CreditOffer
	for _, o := range m.offers {
		if o.OwnedBy(institutionID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOfferRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

type mockProfileRepository struct {
	findFunc      func(ctx context.Context, userID string) (model.CreditProfile, error)
	savedProfiles []model.CreditProfile
}

func (m *mockProfileRepository) Save(_ context.Context, p model.CreditProfile) error {
	m.savedProfiles = append(m.savedProfiles, p)
	return nil
}

func (m *mockProfileRepository) FindByUserID(ctx context.Context, userID string) (model.CreditProfile, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, userID)
	}
	return model.CreditProfile{}, port.ErrNotFound
}

type mockConsentRepository struct {
	findFunc       func(ctx context.Context, userID string) (model.OpenFinanceConsent, error)
	saveFunc       func(ctx context.Context, c model.OpenFinanceConsent) error
	expirable      []model.OpenFinanceConsent
	savedConsents  []model.OpenFinanceConsent
	expirableAfter time.Time
}

func (m *mockConsentRepository) Save(ctx context.Context, c model.OpenFinanceConsent) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, c); err != nil {
			return err
		}
	}
	m.savedConsents = append(m.savedConsents, c)
	return nil
}

func (m *mockConsentRepository) FindByUserID(ctx context.Context, userID string) (model.OpenFinanceConsent, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, userID)
	}
	return model.OpenFinanceConsent{}, port.ErrNotFound
}

func (m *mockConsentRepository) ListExpirable(_ context.Context, now time.Time) ([]model.OpenFinanceConsent, error) {
	m.expirableAfter = now
	return m.expirable, nil
}

type mockUserRepository struct {
	users     map[string]model.User
	createErr error
}

func newMockUserRepository(users ...model.User) *mockUserRepository {
	m := &mockUserRepository{users: map[string]model.User{}}
	for _, u := range users {
		m.users[u.Email()] = u
	}
	return m
}

func (m *mockUserRepository) Create(_ context.Context, u model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users[u.Email()] = u
	return nil
}

func (m *mockUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	for _, u := range m.users {
		if u.ID() == id {
			return u, nil
		}
	}
	return model.User{}, port.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return model.User{}, port.ErrNotFound
}

type mockNotificationRepository struct {
	items []model.Notification
}

func (m *mockNotificationRepository) Save(_ context.Context, n model.Notification) error {
	for i, existing := range m.items {
		if existing.ID() == n.ID() {
			m.items[i] = n
			return nil
		}
	}
	m.items = append(m.items, n)
	return nil
}

func (m *mockNotificationRepository) FindByID(_ context.Context, id string) (model.Notification, error) {
	for _, n := range m.items {
		if n.ID() == id {
			return n, nil
		}
	}
	return model.Notification{}, port.ErrNotFound
}

func (m *mockNotificationRepository) ListByUser(_ context.Context, userID string) ([]model.Notification, error) {
	var out []model.Notification
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].UserID() == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

type mockSessionStore struct {
	sessions map[string]model.Session
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[string]model.Session{}}
}

func (m *mockSessionStore) Put(_ context.Context, s model.Session) error {
	m.sessions[s.Token] = s
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, token string) (model.Session, error) {
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	return model.Session{}, port.ErrNotFound
}

func (m *mockSessionStore) Delete(_ context.Context, token string) error {
	if _, ok := m.sessions[token]; !ok {
		return port.ErrNotFound
	}
	delete(m.sessions, token)
	return nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, evts ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

type mockAnalysisService struct {
	analyzeFunc func(ctx context.Context, userID string) (model.CreditProfile, error)
}

func (m *mockAnalysisService) Analyze(ctx context.Context, userID string) (model.CreditProfile, error) {
	return m.analyzeFunc(ctx, userID)
}

type mockTransactionSource struct {
	txs []openbanking.Transaction
	err error
}

func (m *mockTransactionSource) ListTransactions(context.Context, string) ([]openbanking.Transaction, error) {
	return m.txs, m.err
}

// mockTokens issues "token-<userID>-<n>" and validates tokens it issued.
type mockTokens struct {
	issued map[string]*auth.Claims
	ttl    time.Duration
}

func newMockTokens() *mockTokens {
	return &mockTokens{issued: map[string]*auth.Claims{}, ttl: time.Hour}
}

func (m *mockTokens) GenerateToken(userID, email string, roles []string) (string, time.Time, error) {
	token := "token-" + userID + "-" + string(rune('a'+len(m.issued)))
	m.issued[token] = &auth.Claims{UserID: userID, Email: email, Roles: roles}
	return token, time.Now().UTC().Add(m.ttl), nil
}

func (m *mockTokens) ValidateToken(token string) (*auth.Claims, error) {
	if c, ok := m.issued[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// plainHasher stores passwords with a prefix so tests can reason about them.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}
