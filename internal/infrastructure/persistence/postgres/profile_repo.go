package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
)

// ProfileRepo implements port.ProfileRepository.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepo creates a new repository backed by PostgreSQL.
func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Save replaces the user's profile wholesale.
func (r *ProfileRepo) Save(ctx context.Context, p model.CreditProfile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO credit_profiles (user_id, score, payment_capacity, recommended_limit, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			score             = EXCLUDED.score,
			payment_capacity  = EXCLUDED.payment_capacity,
			recommended_limit = EXCLUDED.recommended_limit,
			last_updated      = EXCLUDED.last_updated`,
		p.UserID(), p.Score(), p.PaymentCapacity(), p.RecommendedLimit(), p.LastUpdated(),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) FindByUserID(ctx context.Context, userID string) (model.CreditProfile, error) {
	var (
		score                 int
		capacity, recommended decimal.Decimal
		lastUpdated           time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT score, payment_capacity, recommended_limit, last_updated
		FROM credit_profiles WHERE user_id = $1`, userID,
	).Scan(&score, &capacity, &recommended, &lastUpdated)
	if err != nil {
		return model.CreditProfile{}, notFound(err, "profile for "+userID)
	}
	p, err := model.NewCreditProfile(userID, score, capacity, recommended, lastUpdated)
	if err != nil {
		return model.CreditProfile{}, fmt.Errorf("restore profile: %w", err)
	}
	return p, nil
}
