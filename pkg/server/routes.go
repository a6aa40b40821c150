package server

import (
	"net/http"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/middleware"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

// passThroughRoute is a route relayed unchanged to a backend.
type passThroughRoute struct {
	pattern string
	backend string
	auth    bool
}

// passThroughRoutes is the gateway's pass-through surface. Paths are
// forwarded as received, so the backend sees the same path and query.
var passThroughRoutes = []passThroughRoute{
	// inventory
	{pattern: "GET /properties", backend: upstream.BackendInventory},
	{pattern: "POST /properties", backend: upstream.BackendInventory},
	{pattern: "GET /properties/{path...}", backend: upstream.BackendInventory},
	{pattern: "GET /queryProperties", backend: upstream.BackendInventory},
	{pattern: "GET /fetchPropertiesByUser", backend: upstream.BackendInventory, auth: true},
	{pattern: "GET /fetchInterestsByUser", backend: upstream.BackendInventory},
	{pattern: "GET /fetchInterestsByProperty", backend: upstream.BackendInventory},
	{pattern: "POST /declareInterest", backend: upstream.BackendInventory},
	{pattern: "DELETE /declareInterest", backend: upstream.BackendInventory},

	// user, public
	{pattern: "GET /loginURL", backend: upstream.BackendUser},
	{pattern: "GET /signupURL", backend: upstream.BackendUser},
	{pattern: "GET /logoutURL", backend: upstream.BackendUser},
	{pattern: "GET /session", backend: upstream.BackendUser},
	{pattern: "GET /verifyAccessToken", backend: upstream.BackendUser},
	{pattern: "GET /refreshAccessToken", backend: upstream.BackendUser},

	// user, authenticated
	{pattern: "GET /userId", backend: upstream.BackendUser, auth: true},
	{pattern: "GET /user", backend: upstream.BackendUser, auth: true},
	{pattern: "POST /updateUser", backend: upstream.BackendUser, auth: true},
	{pattern: "GET /deleteUser", backend: upstream.BackendUser, auth: true},
	{pattern: "POST /changePassword", backend: upstream.BackendUser, auth: true},

	// image
	{pattern: "GET /getPrimaryImageUrl", backend: upstream.BackendImage},
	{pattern: "GET /getImageUrls", backend: upstream.BackendImage},
}

// Route patterns served by the gateway itself.
const (
	RouteInitialQuery   = "GET /initial_query"
	RouteCreateProperty = "POST /createProperty"
)

// handle registers h for pattern with its route label.
func handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, middleware.Route(pattern, h))
}

// registerRoutes adds every gateway route to mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	for _, route := range passThroughRoutes {
		backend := proxy.Backend{Name: route.backend, BaseURL: s.backendURL(route.backend)}
		if route.auth {
			handle(mux, route.pattern, s.engine.AuthHandler(backend))
		} else {
			handle(mux, route.pattern, s.engine.Handler(backend))
		}
	}

	handle(mux, RouteInitialQuery, s.queryHandler)
	handle(mux, RouteCreateProperty, s.listingHandler)

	healthCfg := s.cfg.Telemetry.Health
	if healthCfg.Enabled {
		handle(mux, "GET "+healthCfg.LivenessPath, s.health.LivenessHandler())
		handle(mux, "GET "+healthCfg.ReadinessPath, s.health.ReadinessHandler())
		handle(mux, "GET "+healthCfg.VersionPath,
			healthVersionHandler(s.info))
	}

	if s.metrics.Enabled() {
		handle(mux, "GET "+s.metrics.Path(), s.metrics.Handler())
	}
}

// backendURL returns the configured base URL of a logical backend.
func (s *Server) backendURL(backend string) string {
	switch backend {
	case upstream.BackendInventory:
		return s.cfg.Backends.InventoryURL
	case upstream.BackendLLM:
		return s.cfg.Backends.LLMURL
	case upstream.BackendUser:
		return s.cfg.Backends.UserURL
	case upstream.BackendImage:
		return s.cfg.Backends.ImageURL
	default:
		return ""
	}
}
