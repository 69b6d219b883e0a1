// Package mcp provides the Model Context Protocol server for My Immortal Reincarnation.
//
// The mcp package implements:
//   - A thin client that proxies every tool call to the REST API
//   - Tool definitions for cultivation, persistence and the tier tables
//   - Text formatting of results for AI agents
//   - A single-message HTTP handler for the /mcp endpoint
//
// MCP Tools:
//   - cultivator_state: Current tiers, qualities and qi
//   - cultivate_spirit: Spiritual cultivation, optional times (1..1000)
//   - cultivate_vessel: Vessel cultivation, optional times (1..1000)
//   - save_game: Persist the cultivator
//   - load_game: Restore the saved cultivator
//   - tier_table: Every tier, stage and quality with multipliers
//   - game_instructions: Rules of cultivation
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: router.Handle("/mcp", client.HTTPHandler())
//
// The client holds no game state. Everything goes through the API, so agents
// and browser players act on the same cultivator and live clients see agent
// actions as they happen.
package mcp
