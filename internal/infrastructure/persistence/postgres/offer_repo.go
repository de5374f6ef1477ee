package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	pgutil "github.com/MiguelMaleico/credit360-smart-market/pkg/postgres"
)

const offerColumns = `
	id, institution_id, institution_name, amount, min_amount, max_amount,
	interest_rate, min_installments, max_installments, min_score,
	description, requirements_description, created_at, updated_at`

// OfferRepo implements port.OfferRepository. Every save also appends the
// submitted terms to offer_revisions in the same transaction.
type OfferRepo struct {
	pool *pgxpool.Pool
}

// NewOfferRepo creates a new repository backed by PostgreSQL.
func NewOfferRepo(pool *pgxpool.Pool) *OfferRepo {
	return &OfferRepo{pool: pool}
}

// revision is the audit snapshot of an offer's terms.
type revision struct {
	InstitutionName         string          `json:"institution_name"`
	Amount                  decimal.Decimal `json:"amount"`
	MinAmount               decimal.Decimal `json:"min_amount"`
	MaxAmount               decimal.Decimal `json:"max_amount"`
	InterestRate            decimal.Decimal `json:"interest_rate"`
	MinInstallments         int             `json:"min_installments"`
	MaxInstallments         int             `json:"max_installments"`
	MinScore                int             `json:"min_score"`
	Description             string          `json:"description"`
	RequirementsDescription string          `json:"requirements_description"`
}

// Save upserts the offer by ID. Compatibility is never stored.
func (r *OfferRepo) Save(ctx context.Context, o model.CreditOffer) error {
	t := o.Terms()
	terms, err := json.Marshal(revision(t))
	if err != nil {
		return fmt.Errorf("encode offer terms: %w", err)
	}

	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO credit_offers (`+offerColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			ON CONFLICT (id) DO UPDATE SET
				institution_name         = EXCLUDED.institution_name,
				amount                   = EXCLUDED.amount,
				min_amount               = EXCLUDED.min_amount,
				max_amount               = EXCLUDED.max_amount,
				interest_rate            = EXCLUDED.interest_rate,
				min_installments         = EXCLUDED.min_installments,
				max_installments         = EXCLUDED.max_installments,
				min_score                = EXCLUDED.min_score,
				description              = EXCLUDED.description,
				requirements_description = EXCLUDED.requirements_description,
				updated_at               = EXCLUDED.updated_at
			WHERE credit_offers.institution_id = EXCLUDED.institution_id`,
			o.ID(), o.InstitutionID(), t.InstitutionName,
			t.Amount, t.MinAmount, t.MaxAmount, t.InterestRate,
			t.MinInstallments, t.MaxInstallments, t.MinScore,
			t.Description, t.RequirementsDescription,
			o.CreatedAt(), o.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save offer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("offer %s belongs to another institution: %w", o.ID(), port.ErrConflict)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO offer_revisions (offer_id, institution_id, terms, revised_at)
			VALUES ($1, $2, $3, $4)`,
			o.ID(), o.InstitutionID(), terms, o.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("record offer revision: %w", err)
		}
		return nil
	})
}

func (r *OfferRepo) FindByID(ctx context.Context, id string) (model.CreditOffer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM credit_offers WHERE id = $1`, id)
	o, err := scanOffer(row)
	if err != nil {
		return model.CreditOffer{}, notFound(err, "offer "+id)
	}
	return o, nil
}

// List returns the catalog in creation order.
func (r *OfferRepo) List(ctx context.Context) ([]model.CreditOffer, error) {
	return r.query(ctx, `SELECT `+offerColumns+` FROM credit_offers ORDER BY position`)
}

func (r *OfferRepo) ListByInstitution(ctx context.Context, institutionID string) ([]model.CreditOffer, error) {
	return r.query(ctx, `SELECT `+offerColumns+` FROM credit_offers WHERE institution_id = $1 ORDER BY position`, institutionID)
}

func (r *OfferRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM credit_offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("offer %s: %w", id, port.ErrNotFound)
	}
	return nil
}

func (r *OfferRepo) query(ctx context.Context, query string, args ...any) ([]model.CreditOffer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	result := []model.CreditOffer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func scanOffer(s scannable) (model.CreditOffer, error) {
	var (
		id, institutionID    string
		t                    model.OfferTerms
		createdAt, updatedAt time.Time
	)
	err := s.Scan(
		&id, &institutionID, &t.InstitutionName,
		&t.Amount, &t.MinAmount, &t.MaxAmount, &t.InterestRate,
		&t.MinInstallments, &t.MaxInstallments, &t.MinScore,
		&t.Description, &t.RequirementsDescription,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.CreditOffer{}, err
	}
	return model.ReconstructCreditOffer(id, institutionID, t, createdAt.UTC(), updatedAt.UTC()), nil
}
