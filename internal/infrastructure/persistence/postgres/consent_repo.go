package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
)

const consentColumns = `id, user_id, scope, status, created_at, valid_until, authorized_at, updated_at`

// ConsentRepo implements port.ConsentRepository. A user holds at most one
// consent row; saving a renewed consent replaces it.
type ConsentRepo struct {
	pool *pgxpool.Pool
}

// NewConsentRepo creates a new repository backed by PostgreSQL.
func NewConsentRepo(pool *pgxpool.Pool) *ConsentRepo {
	return &ConsentRepo{pool: pool}
}

func (r *ConsentRepo) Save(ctx context.Context, c model.OpenFinanceConsent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO open_finance_consents (`+consentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			id            = EXCLUDED.id,
			scope         = EXCLUDED.scope,
			status        = EXCLUDED.status,
			created_at    = EXCLUDED.created_at,
			valid_until   = EXCLUDED.valid_until,
			authorized_at = EXCLUDED.authorized_at,
			updated_at    = EXCLUDED.updated_at`,
		c.ID(), c.UserID(), c.Scope(), c.Status().String(),
		c.CreatedAt(), c.ValidUntil(), c.AuthorizedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save consent: %w", err)
	}
	return nil
}

func (r *ConsentRepo) FindByUserID(ctx context.Context, userID string) (model.OpenFinanceConsent, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+consentColumns+` FROM open_finance_consents WHERE user_id = $1`, userID)
	c, err := scanConsent(row)
	if err != nil {
		return model.OpenFinanceConsent{}, notFound(err, "consent for "+userID)
	}
	return c, nil
}

func (r *ConsentRepo) ListExpirable(ctx context.Context, now time.Time) ([]model.OpenFinanceConsent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+consentColumns+` FROM open_finance_consents
		WHERE status IN ('pending', 'authorized') AND valid_until <= $1
		ORDER BY valid_until`, now)
	if err != nil {
		return nil, fmt.Errorf("query expirable consents: %w", err)
	}
	defer rows.Close()

	var result []model.OpenFinanceConsent
	for rows.Next() {
		c, err := scanConsent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func scanConsent(s scannable) (model.OpenFinanceConsent, error) {
	var (
		id, userID, statusStr          string
		scope                          []string
		createdAt, validUntil, updated time.Time
		authorizedAt                   *time.Time
	)
	if err := s.Scan(&id, &userID, &scope, &statusStr, &createdAt, &validUntil, &authorizedAt, &updated); err != nil {
		return model.OpenFinanceConsent{}, err
	}
	status, err := valueobject.NewConsentStatus(statusStr)
	if err != nil {
		return model.OpenFinanceConsent{}, fmt.Errorf("parse consent status: %w", err)
	}
	if authorizedAt != nil {
		at := authorizedAt.UTC()
		authorizedAt = &at
	}
	return model.ReconstructOpenFinanceConsent(id, userID, scope, status,
		createdAt.UTC(), validUntil.UTC(), authorizedAt, updated.UTC()), nil
}
