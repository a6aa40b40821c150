// Package upstream is the gateway's single outbound HTTP adapter.
//
// Every call to the inventory, language model, user, image and geocoding
// services goes through a Client. The client shares one pooled transport,
// applies the configured timeout, never retries, and reports each call to an
// optional Observer for metrics.
//
// Two call styles are offered:
//
//   - Send returns whatever the backend answered. Pass-through routes use it
//     so status, headers and body can be relayed unchanged.
//   - Call additionally turns non-2xx answers into a *StatusError and
//     injects W3C trace context. Orchestration pipelines use it. Setting
//     Request.ExpectStatus narrows success to that one status.
//
// Failures are typed:
//
//   - *TransportError: no response (refused, reset, DNS, timeout)
//   - *StatusError: the backend answered with a status Call does not accept
//   - *ContractError: the backend answered successfully with an unusable payload
//
// Payload shapes the gateway depends on can be pinned with a Contract, a
// compiled JSON schema:
//
//	var coordinates = upstream.MustContract("coordinates", `{"type": "array"}`)
//
//	resp, err := client.Call(ctx, req)
//	if err != nil {
//	    return err
//	}
//	var places []place
//	if err := coordinates.Decode(upstream.BackendGeolocation, resp.Body, &places); err != nil {
//	    return err
//	}
package upstream
