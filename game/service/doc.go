// Package service provides the business logic layer for My Immortal Reincarnation.
//
// The service package implements:
//   - Serialized delivery of player actions to the progression engine
//   - Display views (labels, two-decimal qi, status panel lines)
//   - Batched increments for clients that click faster than they can send requests
//   - Change notifications for live clients
//   - Tracing spans around every action
//
// Core Interfaces:
//
// CultivationService is the main service interface used by the REST API, the
// MCP tools and the terminal commands. Notifier receives a StatusView whenever
// an action changes the cultivator; the WebSocket hub implements it.
//
// Architecture:
//
// The service sits between the transports (HTTP/WebSocket/MCP/CLI) and the
// engine. The engine holds no locks, so the service is its single owner and
// runs each action to completion under a mutex before accepting the next one.
// Construction performs the initial load, so a new service starts from the
// saved game when one exists.
//
// Usage:
//
//	eng := engine.NewEngine(codec.New(store))
//	svc := service.NewCultivationService(eng, service.WithNotifier(hub))
//
//	result, err := svc.CultivateSpirit(ctx, 10)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Message)
//
// Save failures are returned as errors. Load never fails: a missing or corrupt
// save produces a fresh cultivator and a result whose status is "recovered".
package service
