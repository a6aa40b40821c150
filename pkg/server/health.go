package server

import (
	"net/http"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/config"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/telemetry/health"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

// newHealthChecker registers a reachability check per internal backend.
// The external geolocation API is left out: it is not ours to gate
// readiness on.
func newHealthChecker(cfg *config.Config) *health.Checker {
	checker := health.New(cfg.Telemetry.Health.CheckTimeout)

	probeClient := &http.Client{
		Timeout: cfg.Telemetry.Health.CheckTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	backends := map[string]string{
		upstream.BackendInventory: cfg.Backends.InventoryURL,
		upstream.BackendLLM:       cfg.Backends.LLMURL,
		upstream.BackendUser:      cfg.Backends.UserURL,
		upstream.BackendImage:     cfg.Backends.ImageURL,
	}
	for name, url := range backends {
		if url == "" {
			continue
		}
		checker.RegisterCheck(name, health.BackendCheck(probeClient, url))
	}
	return checker
}

func healthVersionHandler(info BuildInfo) http.HandlerFunc {
	return health.VersionHandler(info.Version, info.Commit, info.BuildTime)
}
