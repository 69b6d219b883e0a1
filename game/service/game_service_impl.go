package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/immortal-reincarnation/game/engine"
	"github.com/wricardo/immortal-reincarnation/telemetry"
)

var (
	ErrInvalidTimes = errors.New("invalid increment count")
	ErrSaveFailed   = errors.New("save failed")
)

// cultivationServiceImpl implements CultivationService. It is the single owner of
// the engine and delivers one command at a time.
type cultivationServiceImpl struct {
	engine   engine.Engine
	notifier Notifier
	tracer   trace.Tracer
	logger   *log.Logger
	mu       sync.Mutex
}

// Option configures the service
type Option func(*cultivationServiceImpl)

// WithNotifier registers a receiver for status changes
func WithNotifier(n Notifier) Option {
	return func(s *cultivationServiceImpl) {
		s.notifier = n
	}
}

// WithLogger sets the logger for load and save diagnostics
func WithLogger(logger *log.Logger) Option {
	return func(s *cultivationServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCultivationService creates the service and restores the saved game, the
// same way the game starts on a fresh process.
func NewCultivationService(eng engine.Engine, opts ...Option) CultivationService {
	s := &cultivationServiceImpl{
		engine: eng,
		tracer: telemetry.Tracer(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	outcome := s.engine.Load()
	if outcome.Err != nil {
		s.logger.Printf("Warning: Starting a fresh cultivation: %v", outcome.Err)
	}
	return s
}

// State returns the current cultivator
func (s *cultivationServiceImpl) State(ctx context.Context) (*StatusView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewStatusView(s.engine.State()), nil
}

// Tiers returns the static tier tables
func (s *cultivationServiceImpl) Tiers(ctx context.Context) (*TierTableInfo, error) {
	return NewTierTableInfo(), nil
}

// CultivateSpirit applies times spiritual increments at the current tier
func (s *cultivationServiceImpl) CultivateSpirit(ctx context.Context, times int) (*ActionResult, error) {
	return s.cultivate(ctx, engine.CommandSpirit, times)
}

// CultivateVessel applies times vessel increments
func (s *cultivationServiceImpl) CultivateVessel(ctx context.Context, times int) (*ActionResult, error) {
	return s.cultivate(ctx, engine.CommandVessel, times)
}

func (s *cultivationServiceImpl) cultivate(ctx context.Context, kind engine.CommandKind, times int) (*ActionResult, error) {
	if times == 0 {
		times = 1
	}
	if times < 0 || times > MaxIncrementsPerCall {
		return nil, fmt.Errorf("%w: times must be between 1 and %d, got %d", ErrInvalidTimes, MaxIncrementsPerCall, times)
	}

	_, span := s.tracer.Start(ctx, "cultivation."+string(kind),
		trace.WithAttributes(attribute.Int("cultivation.times", times)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.engine.State()
	var outcome engine.Outcome
	for i := 0; i < times; i++ {
		outcome = s.engine.Dispatch(engine.Command{Kind: kind})
	}
	after := s.engine.State()

	result := s.newResult(outcome, after)
	result.Times = times
	switch kind {
	case engine.CommandSpirit:
		result.QiGained = after.SpiritualQi - before.SpiritualQi
		result.Message = fmt.Sprintf("You cultivate your spirit and gather %s qi", engine.FormatQi(result.QiGained))
	case engine.CommandVessel:
		result.QiGained = after.VesselQi - before.VesselQi
		result.Message = fmt.Sprintf("You temper your vessel and gather %s qi", engine.FormatQi(result.QiGained))
	}
	span.SetAttributes(attribute.String("cultivation.status", string(outcome.Status)))

	s.notify(result)
	return result, nil
}

// Heartbeat delivers the periodic event, which has no effect yet
func (s *cultivationServiceImpl) Heartbeat(ctx context.Context) (*ActionResult, error) {
	_, span := s.tracer.Start(ctx, "cultivation.heartbeat")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.newResult(s.engine.Heartbeat(), s.engine.State())
	result.Message = "The heartbeat has no effect yet"
	return result, nil
}

// Reset discards progress in memory. The saved game is untouched until Save.
func (s *cultivationServiceImpl) Reset(ctx context.Context) (*ActionResult, error) {
	_, span := s.tracer.Start(ctx, "cultivation.reset")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.engine.Reset()
	result := &ActionResult{
		Command:    "reset",
		Status:     engine.StatusApplied,
		Changed:    true,
		Message:    "Your cultivation begins anew",
		StatusView: NewStatusView(state),
	}
	s.notify(result)
	return result, nil
}

// Save persists the current cultivator. A write failure is returned as an error
// wrapping ErrSaveFailed.
func (s *cultivationServiceImpl) Save(ctx context.Context) (*ActionResult, error) {
	_, span := s.tracer.Start(ctx, "cultivation.save")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.engine.Save()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		s.logger.Printf("Warning: Failed to save game: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	result := s.newResult(outcome, s.engine.State())
	result.Message = "Game saved"
	return result, nil
}

// Load replaces the cultivator with the saved one. It never fails: a missing or
// corrupt save yields a fresh cultivator and the result says so.
func (s *cultivationServiceImpl) Load(ctx context.Context) (*ActionResult, error) {
	_, span := s.tracer.Start(ctx, "cultivation.load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.engine.Load()
	result := s.newResult(outcome, s.engine.State())
	if outcome.Status == engine.StatusRecovered {
		span.RecordError(outcome.Err)
		s.logger.Printf("Warning: Saved game could not be read, starting fresh: %v", outcome.Err)
		result.Message = "The saved game could not be read; your cultivation begins anew"
	} else {
		result.Message = "Game loaded"
	}
	span.SetAttributes(attribute.String("cultivation.status", string(outcome.Status)))

	s.notify(result)
	return result, nil
}

func (s *cultivationServiceImpl) newResult(outcome engine.Outcome, state engine.Cultivator) *ActionResult {
	result := &ActionResult{
		Command:    outcome.Command,
		Status:     outcome.Status,
		Changed:    outcome.Changed,
		StatusView: NewStatusView(state),
	}
	if outcome.Err != nil {
		result.Error = outcome.Err.Error()
	}
	return result
}

// notify must be called with s.mu held
func (s *cultivationServiceImpl) notify(result *ActionResult) {
	if s.notifier != nil && result.Changed {
		s.notifier.BroadcastStatus(result.StatusView)
	}
}
