// Package api provides HTTP REST API handlers for My Immortal Reincarnation.
//
// The api package implements:
//   - State and tier table endpoints
//   - Cultivation actions, single or batched with ?times=N
//   - Save, load and reset
//   - WebSocket mounting for live status updates
//
// Endpoints:
//
// State:
//   - GET /api/cultivator - Current cultivator with display labels
//   - GET /api/tiers - Static tier tables
//   - GET /api/health - Liveness check
//
// Progression:
//   - POST /api/cultivate/spirit?times=N - Spiritual increments (N in 1..1000, default 1)
//   - POST /api/cultivate/vessel?times=N - Vessel increments
//   - POST /api/heartbeat - Periodic event; answers 501 with status "unspecified"
//   - POST /api/reset - Fresh cultivator in memory
//
// Persistence:
//   - POST /api/save - Write the cultivator to storage; 500 when the write fails
//   - POST /api/load - Replace the cultivator from storage; a corrupt save
//     answers 200 with status "recovered"
//
// Errors are returned as JSON with an appropriate HTTP status code:
//
//	{"error": "error message"}
package api
