// Package seed loads the demo accounts and catalog used by local
// environments.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
)

// Demo credentials.
const (
	BorrowerEmail = "usuario@email.com"
	PartnerEmail  = "parceiro@email.com"
	Password      = "senha123"
)

// Demo loads a borrower, a partner and the partner's starter catalog. It is
// idempotent: existing accounts are reused and the catalog is only created
// when the partner has no offers.
type Demo struct {
	users  port.UserRepository
	offers port.OfferRepository
	hasher port.PasswordHasher
	logger *slog.Logger
	now    func() time.Time
}

// NewDemo wires dependencies.
func NewDemo(users port.UserRepository, offers port.OfferRepository, hasher port.PasswordHasher, logger *slog.Logger) *Demo {
	return &Demo{users: users, offers: offers, hasher: hasher, logger: logger, now: time.Now}
}

// Load seeds the data.
func (d *Demo) Load(ctx context.Context) error {
	if _, err := d.ensureUser(ctx, "Usuário Demo", BorrowerEmail, valueobject.RoleUser); err != nil {
		return err
	}
	partner, err := d.ensureUser(ctx, "Parceiro Demo", PartnerEmail, valueobject.RolePartner)
	if err != nil {
		return err
	}

	existing, err := d.offers.ListByInstitution(ctx, partner.ID())
	if err != nil {
		return fmt.Errorf("list partner offers: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	now := d.now().UTC()
	for _, terms := range Catalog() {
		offer, err := model.NewCreditOffer(partner.ID(), terms, now)
		if err != nil {
			return fmt.Errorf("build demo offer %s: %w", terms.InstitutionName, err)
		}
		if err := d.offers.Save(ctx, offer); err != nil {
			return fmt.Errorf("save demo offer %s: %w", terms.InstitutionName, err)
		}
	}
	d.logger.Info("demo data seeded", "partner_id", partner.ID(), "offers", len(Catalog()))
	return nil
}

func (d *Demo) ensureUser(ctx context.Context, name, email string, role valueobject.Role) (model.User, error) {
	user, err := d.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, port.ErrNotFound) {
		return model.User{}, fmt.Errorf("find demo user %s: %w", email, err)
	}

	hash, err := d.hasher.Hash(Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash demo password: %w", err)
	}
	user, err = model.NewUser(name, email, hash, role, d.now().UTC())
	if err != nil {
		return model.User{}, fmt.Errorf("build demo user %s: %w", email, err)
	}
	if err := d.users.Create(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("create demo user %s: %w", email, err)
	}
	return user, nil
}

// Catalog returns the starter offers published by the demo partner.
func Catalog() []model.OfferTerms {
	return []model.OfferTerms{
		{
			InstitutionName:         "Banco Alpha",
			Amount:                  decimal.NewFromInt(15000),
			MinAmount:               decimal.NewFromInt(5000),
			MaxAmount:               decimal.NewFromInt(20000),
			InterestRate:            decimal.RequireFromString("0.028"),
			MinInstallments:         12,
			MaxInstallments:         48,
			MinScore:                600,
			Description:             "Crédito pessoal com taxas competitivas para bons pagadores",
			RequirementsDescription: "Renda mínima de R$ 3.000, conta corrente há mais de 6 meses",
		},
		{
			InstitutionName:         "Financeira Beta",
			Amount:                  decimal.NewFromInt(8000),
			MinAmount:               decimal.NewFromInt(3000),
			MaxAmount:               decimal.NewFromInt(10000),
			InterestRate:            decimal.RequireFromString("0.035"),
			MinInstallments:         6,
			MaxInstallments:         24,
			MinScore:                550,
			Description:             "Empréstimo rápido com aprovação em até 24 horas",
			RequirementsDescription: "Renda mínima de R$ 2.000, sem restrições no CPF",
		},
		{
			InstitutionName:         "Cooperativa Gama",
			Amount:                  decimal.NewFromInt(25000),
			MinAmount:               decimal.NewFromInt(10000),
			MaxAmount:               decimal.NewFromInt(30000),
			InterestRate:            decimal.RequireFromString("0.023"),
			MinInstallments:         24,
			MaxInstallments:         60,
			MinScore:                720,
			Description:             "Crédito para cooperados com as menores taxas do mercado",
			RequirementsDescription: "Ser cooperado há pelo menos 1 ano, renda mínima de R$ 5.000",
		},
	}
}
