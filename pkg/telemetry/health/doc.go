/*
Package health serves the gateway's probe endpoints.

  - /health: liveness, 200 while the process is up
  - /ready: readiness, 200 only when every configured backend host answers
  - /version: build information

Each backend gets a reachability check that sends HEAD to its base URL:

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("inventory", health.BackendCheck(httpClient, cfg.Backends.InventoryURL))
	checker.SetObserver(collector)

	mux.HandleFunc("GET /health", checker.LivenessHandler())
	mux.HandleFunc("GET /ready", checker.ReadinessHandler())

Checks run concurrently and each is bounded by the check timeout. The
readiness result for every backend is also reported to the observer, which
the metrics collector exports as a backend_up gauge.
*/
package health
