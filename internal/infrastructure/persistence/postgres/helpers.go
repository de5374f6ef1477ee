package postgres

import (
	"fmt"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	pgutil "github.com/MiguelMaleico/credit360-smart-market/pkg/postgres"
)

type scannable interface {
	Scan(dest ...any) error
}

// notFound maps pgx.ErrNoRows to port.ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if pgutil.IsNoRows(err) {
		return fmt.Errorf("%s: %w", what, port.ErrNotFound)
	}
	return fmt.Errorf("scan %s: %w", what, err)
}
