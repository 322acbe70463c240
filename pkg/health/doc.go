// Package health implements liveness and readiness probe handlers.
//
// [LivenessHandler] reports that the process is running;
// [ReadinessHandler] runs a set of named [Checks] against the
// dependencies a file service leans on (Postgres for upload metadata,
// Redis for sessions and caches, S3 reachability) and reports whether
// the instance should receive traffic. Both are plain http.HandlerFunc
// values, so they mount on any router.
//
// The app wires them automatically at /health/live and /health/ready
// when built with health options:
//
//	app := intake.New(
//	    intake.WithHealthChecks(
//	        intake.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//	        intake.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	    ),
//	)
//
// For standalone use, mount the handlers directly:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second), health.WithLogger(log)))
//
// # Responses
//
// Probes answer plain text by default: "OK" with 200 when everything
// passes, "Service Unavailable" with 503 otherwise. Ask for detail
// with Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "postgres": {"status": "healthy"},
//	    "redis": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
//
// Checks run concurrently under a shared timeout (five seconds unless
// [WithTimeout] says otherwise), so one stalled dependency cannot make
// the probe slower than the deadline or hide the state of the others.
//
// # Orchestrator wiring
//
// Point the platform's probes at the two paths:
//
//	livenessProbe:
//	  httpGet:
//	    path: /health/live
//	    port: 8080
//	readinessProbe:
//	  httpGet:
//	    path: /health/ready
//	    port: 8080
//
// or, for Docker:
//
//	HEALTHCHECK --interval=30s --timeout=5s \
//	  CMD curl -f http://localhost:8080/health/ready || exit 1
//
// Liveness failures restart the container; readiness failures only
// stop traffic. Keep dependency checks out of the liveness probe so a
// database outage does not turn into a restart loop.
package health
