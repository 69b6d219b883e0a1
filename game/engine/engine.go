package engine

import (
	"errors"
	"fmt"
)

var ErrNoPersistence = errors.New("no persistence configured")

// Persistence stores and retrieves cultivator snapshots. Retrieve returns the
// default cultivator, not an error, when nothing has been saved yet.
type Persistence interface {
	Store(c Cultivator) error
	Retrieve() (Cultivator, error)
}

// Engine provides the main interface for progression operations
type Engine interface {
	// State management
	State() Cultivator
	SetState(c Cultivator) error
	Reset() Cultivator

	// Progression
	IncrementSpiritual() Outcome
	IncrementVessel() Outcome
	Heartbeat() Outcome

	// Persistence
	Save() (Outcome, error)
	Load() Outcome

	// Dispatch routes a command to the matching operation
	Dispatch(cmd Command) Outcome
}

// ProgressionEngine implements Engine. It is not safe for concurrent use; callers
// deliver one command at a time.
type ProgressionEngine struct {
	state       Cultivator
	persistence Persistence
}

// NewEngine creates an engine holding the default cultivator
func NewEngine(persistence Persistence) *ProgressionEngine {
	return &ProgressionEngine{
		state:       NewCultivator(),
		persistence: persistence,
	}
}

// State returns a snapshot of the current cultivator
func (e *ProgressionEngine) State() Cultivator {
	return e.state
}

// SetState replaces the cultivator wholesale (used for persistence loading)
func (e *ProgressionEngine) SetState(c Cultivator) error {
	if err := c.Validate(); err != nil {
		return err
	}
	e.state = c
	return nil
}

// Reset restores the fresh-game state
func (e *ProgressionEngine) Reset() Cultivator {
	e.state = NewCultivator()
	return e.state
}

// IncrementSpiritual adds one tier-scaled portion of qi to the spiritual track.
// The tier itself never advances here.
func (e *ProgressionEngine) IncrementSpiritual() Outcome {
	e.state.SpiritualQi += e.state.SpiritualRate()
	return Outcome{Command: CommandSpirit, Status: StatusApplied, Changed: true}
}

// IncrementVessel adds a flat unit of qi to the vessel track regardless of tier
func (e *ProgressionEngine) IncrementVessel() Outcome {
	e.state.VesselQi += BaseIncrement
	return Outcome{Command: CommandVessel, Status: StatusApplied, Changed: true}
}

// Heartbeat is a declared periodic event without defined behavior. It leaves the
// state untouched and says so in its outcome.
func (e *ProgressionEngine) Heartbeat() Outcome {
	return Outcome{Command: CommandHeartbeat, Status: StatusUnspecified, Changed: false}
}

// Save writes a snapshot of the current state. Write failures are returned.
func (e *ProgressionEngine) Save() (Outcome, error) {
	if e.persistence == nil {
		return Outcome{Command: CommandSave, Status: StatusFailed, Err: ErrNoPersistence}, ErrNoPersistence
	}

	if err := e.persistence.Store(e.state); err != nil {
		err = fmt.Errorf("failed to save cultivator: %w", err)
		return Outcome{Command: CommandSave, Status: StatusFailed, Err: err}, err
	}

	return Outcome{Command: CommandSave, Status: StatusApplied, Changed: true}, nil
}

// Load replaces the state with the persisted snapshot. Any failure resets to the
// default cultivator instead; the failure is reported in Outcome.Err.
func (e *ProgressionEngine) Load() Outcome {
	if e.persistence == nil {
		e.state = NewCultivator()
		return Outcome{Command: CommandLoad, Status: StatusRecovered, Changed: true, Err: ErrNoPersistence}
	}

	loaded, err := e.persistence.Retrieve()
	if err == nil {
		err = e.SetState(loaded)
	}
	if err != nil {
		e.state = NewCultivator()
		return Outcome{
			Command: CommandLoad,
			Status:  StatusRecovered,
			Changed: true,
			Err:     fmt.Errorf("failed to load cultivator: %w", err),
		}
	}

	return Outcome{Command: CommandLoad, Status: StatusApplied, Changed: true}
}

// Dispatch executes a single command
func (e *ProgressionEngine) Dispatch(cmd Command) Outcome {
	switch cmd.Kind {
	case CommandSpirit:
		return e.IncrementSpiritual()
	case CommandVessel:
		return e.IncrementVessel()
	case CommandSave:
		outcome, _ := e.Save()
		return outcome
	case CommandLoad:
		return e.Load()
	case CommandHeartbeat:
		return e.Heartbeat()
	default:
		return Outcome{
			Command: cmd.Kind,
			Status:  StatusRejected,
			Err:     fmt.Errorf("unknown command %q", cmd.Kind),
		}
	}
}
