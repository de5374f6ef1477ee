package postgres

import (
	"embed"

	pgutil "github.com/MiguelMaleico/credit360-smart-market/pkg/postgres"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies the marketplace schema to the database behind dsn.
func Migrate(dsn string) error {
	return pgutil.RunMigrations(dsn, migrationFS, "migrations")
}

// Rollback drops the marketplace schema.
func Rollback(dsn string) error {
	return pgutil.RunMigrationsDown(dsn, migrationFS, "migrations")
}

// Tables lists every table owned by the schema, children first.
var Tables = []string{
	"notifications",
	"open_finance_consents",
	"credit_profiles",
	"offer_revisions",
	"credit_offers",
	"users",
}
