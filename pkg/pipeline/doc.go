// Package pipeline holds the gateway's multi-step orchestrations.
//
// Each pipeline runs its stages strictly in order, awaits every backend call
// before starting the next, and turns the failure of a stage into one
// *types.GatewayError with a fixed status and message. Nothing is retried and
// nothing is compensated.
//
//   - query: free text → LLM filters → inventory search
//   - listing: owner → geocode → create property → sequential image uploads
package pipeline
