package engine

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidState = errors.New("invalid cultivator state")
)

const (
	// BaseIncrement is the qi gained by one action before tier scaling.
	BaseIncrement = 1.0
)

// Cultivator is the complete progression record of the single player.
type Cultivator struct {
	VesselQi         float64       `json:"vessel_qi"`
	VesselCycles     uint32        `json:"vessel_cycles"` // Reserved; no command increments it yet
	VesselTier       PhysicalTier  `json:"vessel_tier"`
	SpiritualQi      float64       `json:"spiritual_qi"`
	SpiritualHarmony Quality       `json:"spiritual_harmony"`
	SpiritualTier    SpiritualTier `json:"spiritual_tier"`
	Meridians        Quality       `json:"meridians"`
}

// NewCultivator returns the fresh-game state: empty accumulators and the lowest
// rank of every tier and quality.
func NewCultivator() Cultivator {
	return Cultivator{
		VesselQi:         0,
		VesselCycles:     0,
		VesselTier:       QiGathering,
		SpiritualQi:      0,
		SpiritualHarmony: Worst,
		SpiritualTier:    Mortal,
		Meridians:        Worst,
	}
}

// Validate checks that accumulators are non-negative and every enumeration field
// holds a declared value.
func (c Cultivator) Validate() error {
	if c.VesselQi < 0 || math.IsNaN(c.VesselQi) || math.IsInf(c.VesselQi, 0) {
		return fmt.Errorf("%w: vessel_qi must be a non-negative number, got %v", ErrInvalidState, c.VesselQi)
	}
	if c.SpiritualQi < 0 || math.IsNaN(c.SpiritualQi) || math.IsInf(c.SpiritualQi, 0) {
		return fmt.Errorf("%w: spiritual_qi must be a non-negative number, got %v", ErrInvalidState, c.SpiritualQi)
	}
	if !c.VesselTier.Valid() {
		return fmt.Errorf("%w: unknown vessel tier %d", ErrInvalidState, int(c.VesselTier))
	}
	if !c.SpiritualTier.Valid() {
		return fmt.Errorf("%w: unknown spiritual tier %d", ErrInvalidState, int(c.SpiritualTier))
	}
	if !c.SpiritualHarmony.Valid() {
		return fmt.Errorf("%w: unknown spiritual harmony %d", ErrInvalidState, int(c.SpiritualHarmony))
	}
	if !c.Meridians.Valid() {
		return fmt.Errorf("%w: unknown meridian quality %d", ErrInvalidState, int(c.Meridians))
	}
	return nil
}

// SpiritualRate returns the qi one spiritual increment yields at the current tier.
func (c Cultivator) SpiritualRate() float64 {
	return BaseIncrement * c.SpiritualTier.Multiplier()
}

// CommandKind names an event the engine can be asked to handle.
type CommandKind string

const (
	CommandSpirit    CommandKind = "spirit"
	CommandVessel    CommandKind = "vessel"
	CommandSave      CommandKind = "save"
	CommandLoad      CommandKind = "load"
	CommandHeartbeat CommandKind = "heartbeat"
)

// Command is one discrete event delivered to the engine.
type Command struct {
	Kind CommandKind `json:"kind"`
}

// Status classifies how the engine handled a command.
type Status string

const (
	StatusApplied     Status = "applied"
	StatusRecovered   Status = "recovered"   // State replaced with defaults after a failure
	StatusFailed      Status = "failed"      // Command had no effect and returned an error
	StatusUnspecified Status = "unspecified" // Declared event with no defined behavior
	StatusRejected    Status = "rejected"    // Unknown command
)

// Outcome reports the result of a command. Changed is true when observable state
// differs from before (or was replaced wholesale).
type Outcome struct {
	Command CommandKind `json:"command"`
	Status  Status      `json:"status"`
	Changed bool        `json:"changed"`
	Err     error       `json:"-"`
}
