package service

import (
	"context"
)

// CultivationService defines every player-facing operation
type CultivationService interface {
	// State
	State(ctx context.Context) (*StatusView, error)
	Tiers(ctx context.Context) (*TierTableInfo, error)

	// Progression
	CultivateSpirit(ctx context.Context, times int) (*ActionResult, error)
	CultivateVessel(ctx context.Context, times int) (*ActionResult, error)
	Heartbeat(ctx context.Context) (*ActionResult, error)
	Reset(ctx context.Context) (*ActionResult, error)

	// Persistence
	Save(ctx context.Context) (*ActionResult, error)
	Load(ctx context.Context) (*ActionResult, error)
}

// Notifier receives the new status after every action that changed state
type Notifier interface {
	BroadcastStatus(view *StatusView)
}
