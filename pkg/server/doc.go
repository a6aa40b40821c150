/*
Package server assembles and runs the gateway.

New wires the components from one validated configuration:

	upstream.Client      pooled backend client, reports to metrics
	auth.Gate            token verification against the user service
	proxy.Engine         pass-through routes, optionally behind the gate
	query.Pipeline       GET /initial_query
	listing.Pipeline     POST /createProperty
	health.Checker       /health, /ready (one probe per backend), /version
	metrics.Collector    /metrics

Routes use method patterns; every registration goes through
middleware.Route so requests are labelled by pattern. The middleware chain,
outermost first, is recovery, request ID, tracing, logging, CORS.

	srv, err := server.New(cfg, server.BuildInfo{Version: version})
	if err != nil {
		return err
	}
	return srv.Start(ctx) // returns after ctx is cancelled and shutdown completes
*/
package server
