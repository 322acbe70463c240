package janitor

import (
	"context"
	"log/slog"
	"time"
)

// ExpiredDeleter purges expired rows. session.Store satisfies it.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionCleanup returns a job that deletes expired sessions and logs
// how many were removed.
func SessionCleanup(store ExpiredDeleter, log *slog.Logger) Job {
	return func(ctx context.Context) error {
		n, err := store.DeleteExpired(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.InfoContext(ctx, "expired sessions removed", slog.Int64("count", n))
		}
		return nil
	}
}

// Sweeper removes files older than maxAge. storage.LocalStorage
// satisfies it for temp-upload directories.
type Sweeper interface {
	Cleanup(ctx context.Context, maxAge time.Duration) (int, error)
}

// StorageCleanup returns a job that sweeps stale files from a disk and
// logs how many were removed.
func StorageCleanup(disk Sweeper, maxAge time.Duration, log *slog.Logger) Job {
	return func(ctx context.Context) error {
		n, err := disk.Cleanup(ctx, maxAge)
		if err != nil {
			return err
		}
		if n > 0 {
			log.InfoContext(ctx, "stale files removed", slog.Int("count", n))
		}
		return nil
	}
}
