// Package db provides PostgreSQL connection utilities built on
// [github.com/jackc/pgx/v5/pgxpool].
//
// It covers connection pooling with startup retries, transaction helpers,
// health checks, graceful shutdown, and schema migrations via
// [github.com/pressly/goose/v3].
//
// # Configuration
//
// Config carries koanf tags, so it nests under a `database` block when loaded
// through pkg/config:
//
//	INTAKE_DATABASE__CONN_URL           - PostgreSQL connection URL (required)
//	INTAKE_DATABASE__MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	INTAKE_DATABASE__MIN_CONNS          - Minimum idle connections (default: 5)
//	INTAKE_DATABASE__HEALTHCHECK_PERIOD - Health check interval (default: 1m)
//	INTAKE_DATABASE__MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	INTAKE_DATABASE__MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	INTAKE_DATABASE__RETRY_ATTEMPTS     - Connection retry attempts (default: 3)
//	INTAKE_DATABASE__RETRY_INTERVAL     - Base retry interval (default: 5s)
//
// # Usage
//
//	cfg := db.DefaultConfig()
//	cfg.ConnectionString = os.Getenv("INTAKE_DATABASE__CONN_URL")
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
// Connect retries with exponential backoff, so services starting alongside
// the database come up without crash loops.
//
// # Transactions
//
// WithTx commits when fn returns nil and rolls back on error or panic:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		return tx.QueryRow(ctx, "SELECT 1").Scan(&result)
//	})
//
// # Migrations
//
// Migrate applies embedded SQL files through goose:
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, pool, migrations, db.DefaultMigrationsTable, logger)
//
// # Health Checks and Shutdown
//
// Healthcheck returns a func(context.Context) error suitable for pkg/health
// probes; Shutdown returns a hook for intake.ShutdownHook.
//
// # Error Handling
//
//   - [ErrFailedToParseDBConfig] - invalid connection string format
//   - [ErrFailedToOpenDBConnection] - connection failed after all retries
//   - [ErrHealthcheckFailed] - database ping failed
//   - [ErrSetDialect] - migration dialect configuration error
//   - [ErrApplyMigrations] - migration execution failed
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package db
