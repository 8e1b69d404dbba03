package database

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// appCode keys this application's rows in the shared migration ledger, so
// several apps can track their migrations in the same table.
const appCode = "training-scheduler"

const ledgerDDL = `CREATE TABLE IF NOT EXISTS migration_history (
	id BIGSERIAL PRIMARY KEY,
	app_code VARCHAR(50) NOT NULL,
	migration_name VARCHAR(255) NOT NULL,
	executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (app_code, migration_name)
)`

// Migrate applies embedded SQL migrations in name order, recording each in
// the migration_history ledger. Migrations already recorded for this app
// code are skipped, making re-application idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ledgerDDL); err != nil {
		return fmt.Errorf("create migration ledger: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var applied bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM migration_history WHERE app_code = $1 AND migration_name = $2)`,
			appCode, name,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		sql, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err = pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		if _, err = pool.Exec(ctx,
			`INSERT INTO migration_history (app_code, migration_name) VALUES ($1, $2)
			 ON CONFLICT (app_code, migration_name) DO UPDATE SET executed_at = NOW()`,
			appCode, name,
		); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}
