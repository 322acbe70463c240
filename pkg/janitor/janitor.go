package janitor

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/intake/pkg/logger"
)

// Job is a unit of scheduled maintenance work. The context carries the
// per-run timeout and is canceled when the application shuts down.
type Job func(ctx context.Context) error

// Janitor runs named maintenance jobs on cron schedules. Register jobs
// with Add before starting; the scheduler is immutable once running.
type Janitor struct {
	cron       *cron.Cron
	log        *slog.Logger
	jobTimeout time.Duration

	mu      sync.Mutex
	names   map[string]cron.EntryID
	started bool
	baseCtx context.Context
}

type options struct {
	logger     *slog.Logger
	location   *time.Location
	jobTimeout time.Duration
}

// Option configures a Janitor.
type Option func(*options)

// WithLogger sets the logger used for job lifecycle events and panic
// reports. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithLocation sets the time zone cron schedules are evaluated in.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithJobTimeout caps the run time of a single job execution.
// Defaults to 15 minutes.
func WithJobTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.jobTimeout = d
		}
	}
}

// New creates a Janitor. Panicking jobs are recovered and logged so a
// single bad run never takes the scheduler down.
func New(opts ...Option) *Janitor {
	o := &options{
		logger:     logger.NewNope(),
		location:   time.UTC,
		jobTimeout: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Janitor{
		cron: cron.New(
			cron.WithLocation(o.location),
			cron.WithChain(cron.Recover(cronLogger{log: o.logger})),
		),
		log:        o.logger,
		jobTimeout: o.jobTimeout,
		names:      make(map[string]cron.EntryID),
	}
}

// Add registers a named job on a cron schedule. Specs use the standard
// five-field format (minute, hour, day of month, month, day of week)
// plus descriptors like "@hourly" and "@every 10m". Names must be
// unique; registration is rejected once the scheduler has started.
func (j *Janitor) Add(name, spec string, job Job) error {
	if name == "" {
		return ErrEmptyName
	}
	if spec == "" {
		return ErrEmptySpec
	}
	if job == nil {
		return ErrNilJob
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.started {
		return ErrAlreadyStarted
	}
	if _, exists := j.names[name]; exists {
		return ErrDuplicateJob
	}

	id, err := j.cron.AddFunc(spec, j.wrap(name, job))
	if err != nil {
		return errors.Join(ErrInvalidSpec, err)
	}
	j.names[name] = id
	return nil
}

// Jobs returns the registered job names in sorted order.
func (j *Janitor) Jobs() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	names := make([]string, 0, len(j.names))
	for name := range j.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start begins running scheduled jobs. The context becomes the parent
// of every job run, so canceling it stops in-flight work during
// shutdown. Start returns immediately; jobs run on the scheduler's own
// goroutines.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.started {
		return ErrAlreadyStarted
	}
	if ctx == nil {
		ctx = context.Background()
	}
	j.baseCtx = ctx
	j.started = true
	j.cron.Start()

	j.log.InfoContext(ctx, "janitor started", slog.Int("jobs", len(j.names)))
	return nil
}

// Stop halts scheduling and waits for running jobs to finish, or until
// ctx is done. Stopping an idle janitor is a no-op.
func (j *Janitor) Stop(ctx context.Context) error {
	j.mu.Lock()
	if !j.started {
		j.mu.Unlock()
		return nil
	}
	j.started = false
	j.mu.Unlock()

	done := j.cron.Stop()
	select {
	case <-done.Done():
		j.log.Info("janitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartFunc returns a startup hook that launches the scheduler.
//
//	intake.Run(app, intake.StartupHook(jan.StartFunc()))
func (j *Janitor) StartFunc() func(context.Context) error {
	return func(ctx context.Context) error {
		return j.Start(ctx)
	}
}

// Shutdown returns a shutdown hook that drains the scheduler.
//
//	intake.Run(app, intake.ShutdownHook(jan.Shutdown()))
func (j *Janitor) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		return j.Stop(ctx)
	}
}

// wrap turns a Job into a cron func that derives a per-run context,
// measures duration, and logs the outcome.
func (j *Janitor) wrap(name string, job Job) func() {
	return func() {
		j.mu.Lock()
		base := j.baseCtx
		j.mu.Unlock()
		if base == nil {
			base = context.Background()
		}

		ctx, cancel := context.WithTimeout(base, j.jobTimeout)
		defer cancel()

		start := time.Now()
		err := job(ctx)
		elapsed := time.Since(start)

		if err != nil {
			j.log.ErrorContext(ctx, "janitor job failed",
				slog.String("job", name),
				slog.Duration("duration", elapsed),
				slog.Any("error", err))
			return
		}
		j.log.InfoContext(ctx, "janitor job completed",
			slog.String("job", name),
			slog.Duration("duration", elapsed))
	}
}

// cronLogger adapts slog to the cron.Logger interface so recovered
// panics land in the application log.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, slog.Any("error", err))...)
}
