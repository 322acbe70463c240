// Package janitor schedules recurring maintenance jobs on cron specs.
//
// It wraps a cron scheduler with named jobs, per-run timeouts, panic
// recovery, and structured logging, and exposes lifecycle funcs that
// plug directly into the application's startup and shutdown hooks.
//
// # Usage
//
//	jan := janitor.New(janitor.WithLogger(log))
//
//	if err := jan.Add("sessions", "*/15 * * * *", janitor.SessionCleanup(store, log)); err != nil {
//		return err
//	}
//	if err := jan.Add("tmp-uploads", "@hourly", janitor.StorageCleanup(tmpDisk, 24*time.Hour, log)); err != nil {
//		return err
//	}
//
//	err := intake.Run(app,
//		intake.StartupHook(jan.StartFunc()),
//		intake.ShutdownHook(jan.Shutdown()),
//	)
//
// # Schedules
//
// Specs use the standard five-field cron format (minute, hour, day of
// month, month, day of week). Descriptors are also accepted:
//
//	"*/15 * * * *"  every 15 minutes
//	"0 3 * * *"     daily at 03:00
//	"@hourly"       top of every hour
//	"@every 10m"    fixed 10 minute interval
//
// Schedules are evaluated in UTC unless WithLocation overrides it.
//
// # Job runs
//
// Each run gets a context derived from the Start context, capped by
// WithJobTimeout (15 minutes by default). Canceling the Start context,
// which Run does during shutdown, cancels in-flight jobs. A job that
// returns an error or panics is logged and retried on its next tick;
// it never stops the scheduler or other jobs.
//
// Stop drains running jobs before returning, honoring the shutdown
// deadline passed to it.
package janitor
