// Package websocket provides live status updates for My Immortal Reincarnation.
//
// The websocket package implements:
//   - A single broadcast group for every connected client
//   - Automatic status pushes after every change
//   - Replay of the latest status to clients as they connect
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// A central Hub owns the client set and is the only goroutine that touches it.
// Register, unregister and broadcast requests arrive over channels. Each
// connection gets a read pump and a write pump goroutine.
//
// The Hub implements service.Notifier, so the cultivation service hands it a
// StatusView after every action that changed the cultivator. BroadcastStatus
// never blocks the service; a full queue drops the update.
//
// Message Protocol:
//
// Outgoing messages are JSON: {"event": "status_update", "status": {...}}.
// Incoming messages are read and discarded. Clients act through the REST API.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	svc := service.NewCultivationService(eng, service.WithNotifier(hub))
//	router.Handle("/ws", hub)
package websocket
