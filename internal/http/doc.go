// Package http provides HTTP handlers and middleware for the event
// scheduling API.
//
// The router exposes the following endpoints:
//   - GET /events, POST /events, GET /events/{id}, PUT /events/{id},
//     DELETE /events/{id}: event management endpoints exchanging the
//     `eventRequest`/`eventResponse` payloads defined in event_handler.go.
//     Mutations run the full scheduling validation; rejected proposals
//     return 422 with the conflict verdict.
//   - GET /distances, POST /distances, PUT /distances/{id},
//     DELETE /distances/{id}: travel-time edge management.
//   - POST /distances/batch: bulk import that reports per-row outcomes.
//   - GET /distances/matrix: dense travel-time matrix over active cities.
//   - GET /distances/missing: active city pairs with no recorded edge.
//   - GET /cities, POST /cities, PUT /cities/{id}: city catalog endpoints.
//   - GET /resources, POST /resources, PUT /resources/{id}: resource catalog
//     endpoints for observers, SNGs, and generators.
//   - GET /live: websocket feed of committed event mutations.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
