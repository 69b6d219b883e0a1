// Package engine provides the core progression logic for My Immortal Reincarnation.
//
// The engine package implements:
//   - Tier tables for the spiritual track, the vessel track and quality grades
//   - The Cultivator record and its default (fresh game) state
//   - Increment commands for spiritual and vessel qi
//   - Save and load through a pluggable Persistence implementation
//
// Core Types:
//
// The Engine interface defines the contract for progression operations,
// implemented by ProgressionEngine. Cultivator is the complete player state.
// SpiritualTier, PhysicalTier and Quality are closed, ordered enumerations backed
// by static lookup tables indexed by ordinal.
//
// Usage:
//
//	eng := engine.NewEngine(codec.New(store))
//	eng.Load()
//
//	// Cultivate
//	eng.IncrementSpiritual()
//	eng.IncrementVessel()
//
//	if _, err := eng.Save(); err != nil {
//		log.Printf("save failed: %v", err)
//	}
//
// Rules:
//
// Each spiritual increment yields qi scaled by the current spiritual tier's
// multiplier. Vessel increments yield a flat unit of qi. Tiers never advance on
// their own; they change only when a saved state is loaded. Loading never fails
// outright: missing or corrupt saves fall back to a fresh cultivator and the
// outcome records what happened.
//
// The engine holds no locks. Commands must be delivered one at a time.
package engine
