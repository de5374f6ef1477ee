package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
	pgutil "github.com/MiguelMaleico/credit360-smart-market/pkg/postgres"
)

const userColumns = `id, name, email, password_hash, role, created_at`

// UserRepo implements port.UserRepository.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a new repository backed by PostgreSQL.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID(), u.Name(), u.Email(), u.PasswordHash(), u.Role().String(), u.CreatedAt(),
	)
	if pgutil.IsUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", u.Email(), port.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, notFound(err, "user "+id)
	}
	return u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, notFound(err, "user "+email)
	}
	return u, nil
}

func scanUser(s scannable) (model.User, error) {
	var (
		id, name, email, hash, roleStr string
		createdAt                      time.Time
	)
	if err := s.Scan(&id, &name, &email, &hash, &roleStr, &createdAt); err != nil {
		return model.User{}, err
	}
	role, err := valueobject.NewRole(roleStr)
	if err != nil {
		return model.User{}, fmt.Errorf("parse role: %w", err)
	}
	return model.ReconstructUser(id, name, email, hash, role, createdAt.UTC()), nil
}
