package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DefaultMigrationsTable records applied migration versions.
const DefaultMigrationsTable = "schema_migrations"

// Migrate applies all pending up migrations from the given filesystem,
// usually an embed.FS holding *.sql files. An empty table name falls back to
// DefaultMigrationsTable.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	// goose speaks database/sql, so bridge the pgx pool through stdlib.
	// The wrapper shares the pool's connections and must not be closed here.
	sqlDB := stdlib.OpenDBFromPool(pool)

	if table == "" {
		table = DefaultMigrationsTable
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log})
	goose.SetTableName(table)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g gooseLogger) Fatalf(format string, args ...any) {
	// Error level only. goose surfaces the failure as a returned error, so
	// exiting here would skip shutdown hooks.
	g.log.Error(fmt.Sprintf(format, args...))
}
