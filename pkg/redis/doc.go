// Package redis opens go-redis clients with production pool defaults and
// the glue the rest of the service expects: a startup retry loop, a health
// probe, and a shutdown hook.
//
// The upload service leans on one Redis for several concerns at once
// (session store, cache, rate counters), so Open verifies connectivity
// before handing the client out rather than letting the first request
// discover a dead broker:
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"),
//		redis.WithPoolSize(20),
//		redis.WithRetry(5, 3*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// Both redis:// and rediss:// (TLS) URLs parse; pool shape and timeouts
// are functional options with defaults listed on each With function.
//
// # Health and Shutdown
//
// [Healthcheck] returns a func(ctx) error probe for the readiness
// endpoint, and [Shutdown] adapts Close to intake's shutdown hooks:
//
//	app := intake.New(
//		intake.WithHealthChecks(
//			intake.WithReadinessCheck("redis", redis.Healthcheck(client)),
//		),
//	)
//	err := intake.Run(app, intake.ShutdownHook(redis.Shutdown(client)))
//
// # Errors
//
// Failures surface as one of [ErrEmptyConnectionURL], [ErrFailedToParseURL],
// [ErrConnectionFailed], or [ErrHealthcheckFailed], joined with the
// underlying cause for the logs.
package redis
