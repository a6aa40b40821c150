// Package handlers serves the gateway routes that are not plain
// pass-through: GET /initial_query runs the query pipeline and
// POST /createProperty runs the listing pipeline.
//
// Both handlers write the pipeline result as the response body with status
// 200, or {"detail": ...} with the status chosen by the failing stage.
package handlers
