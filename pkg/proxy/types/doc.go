// Package types defines the data passed between the gateway's HTTP layer,
// the reverse proxy engine and the orchestration pipelines.
//
// # Core Types
//
//   - ProxiedRequest: an inbound request captured for forwarding
//   - BackendResponse: status, headers and body relayed to the client
//   - GatewayError: a failure with the status and message shown to the client
//   - ErrorResponse: the {"detail": "..."} error body
//
// Every error the gateway produces itself is rendered as:
//
//	{"detail": "Something went wrong with the LLM service."}
package types
