// Package proxy is the gateway's reverse proxy engine.
//
// Most gateway routes are pass-through: the inbound request is forwarded to
// one backend with its method, path, query, headers and body unchanged, and
// the backend's status, headers and body are relayed back. Some routes first
// require a valid bearer token.
//
// # Architecture
//
//   - Engine: forwards captured requests through the upstream client
//   - Handlers: orchestration endpoints built on the pipelines (subpackage handlers)
//   - Middleware: recovery, request ID, logging, CORS (subpackage middleware)
//   - Types: captured requests, relayed responses and gateway errors
//
// # Basic Usage
//
//	client := upstream.NewClient(upstream.Options{Timeout: cfg.Backends.Timeout})
//	gate := auth.NewGate(client, cfg.Backends.UserURL)
//	engine := proxy.NewEngine(client, gate, cfg.Gateway.MaxProxyBodyBytes)
//
//	inventory := proxy.Backend{Name: upstream.BackendInventory, BaseURL: cfg.Backends.InventoryURL}
//	users := proxy.Backend{Name: upstream.BackendUser, BaseURL: cfg.Backends.UserURL}
//
//	mux.Handle("GET /properties", engine.Handler(inventory))
//	mux.Handle("GET /user", engine.AuthHandler(users))
//
// # Failure Behavior
//
// Backend error statuses are relayed unchanged. When the backend cannot be
// reached the client receives 502 with a {"detail": ...} body. Forwarding
// never retries and adds no time limit beyond the upstream client timeout.
//
// A rejected token short-circuits ForwardWithAuth with 401 before any call
// to the target backend:
//
//   - no Authorization header: "Request does not contain authorization token."
//   - token not confirmed: "Invalid authorization token."
package proxy
