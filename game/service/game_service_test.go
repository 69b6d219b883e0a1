package service_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/immortal-reincarnation/game/codec"
	"github.com/wricardo/immortal-reincarnation/game/engine"
	"github.com/wricardo/immortal-reincarnation/game/service"
	"github.com/wricardo/immortal-reincarnation/game/storage"
)

// MockNotifier records every broadcast status
type MockNotifier struct {
	mu    sync.Mutex
	views []*service.StatusView
}

func (m *MockNotifier) BroadcastStatus(view *service.StatusView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views = append(m.views, view)
}

func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// failingStore rejects every write
type failingStore struct {
	*storage.MemoryStore
}

func (f failingStore) Set(key, value string) error {
	return errors.New("disk full")
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func newTestService(t *testing.T, store storage.Store, opts ...service.Option) service.CultivationService {
	t.Helper()
	eng := engine.NewEngine(codec.New(store, codec.WithLogger(quietLogger())))
	opts = append([]service.Option{service.WithLogger(quietLogger())}, opts...)
	return service.NewCultivationService(eng, opts...)
}

func TestNewCultivationService_FreshStart(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryStore())

	view, err := svc.State(context.Background())
	if err != nil {
		t.Fatalf("Failed to get state: %v", err)
	}
	if view.Cultivator != engine.NewCultivator() {
		t.Errorf("Expected default cultivator, got %+v", view.Cultivator)
	}
	if view.SpiritualTierLabel != "Mortal" {
		t.Errorf("Expected Mortal, got %s", view.SpiritualTierLabel)
	}
	if view.SpiritualQiDisplay != "0.00" {
		t.Errorf("Expected 0.00, got %s", view.SpiritualQiDisplay)
	}
	if view.NextSpiritualTier != "Qi Condensation" {
		t.Errorf("Expected next tier Qi Condensation, got %s", view.NextSpiritualTier)
	}
}

func TestNewCultivationService_RestoresSave(t *testing.T) {
	store := storage.NewMemoryStore()
	saved := engine.NewCultivator()
	saved.SpiritualTier = engine.CoreFormation
	saved.VesselQi = 42
	if err := codec.New(store).Store(saved); err != nil {
		t.Fatalf("Failed to seed save: %v", err)
	}

	svc := newTestService(t, store)
	view, _ := svc.State(context.Background())
	if view.Cultivator != saved {
		t.Errorf("Expected restored cultivator %+v, got %+v", saved, view.Cultivator)
	}
}

func TestCultivateSpirit(t *testing.T) {
	ctx := context.Background()
	notifier := &MockNotifier{}
	svc := newTestService(t, storage.NewMemoryStore(), service.WithNotifier(notifier))

	result, err := svc.CultivateSpirit(ctx, 0)
	if err != nil {
		t.Fatalf("CultivateSpirit failed: %v", err)
	}
	if result.Times != 1 {
		t.Errorf("Expected times to default to 1, got %d", result.Times)
	}
	if result.StatusView.SpiritualQiDisplay != "0.01" {
		t.Errorf("Expected 0.01, got %s", result.StatusView.SpiritualQiDisplay)
	}

	result, err = svc.CultivateSpirit(ctx, 99)
	if err != nil {
		t.Fatalf("CultivateSpirit failed: %v", err)
	}
	if result.StatusView.SpiritualQiDisplay != "1.00" {
		t.Errorf("Expected 1.00 after 100 increments, got %s", result.StatusView.SpiritualQiDisplay)
	}
	if result.Status != engine.StatusApplied || !result.Changed {
		t.Errorf("Expected applied change, got %+v", result)
	}
	if !strings.Contains(result.Message, "0.99") {
		t.Errorf("Expected gained qi in message, got %q", result.Message)
	}
	if notifier.Count() != 2 {
		t.Errorf("Expected 2 broadcasts, got %d", notifier.Count())
	}
}

func TestCultivateVessel(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryStore())

	result, err := svc.CultivateVessel(context.Background(), 5)
	if err != nil {
		t.Fatalf("CultivateVessel failed: %v", err)
	}
	if result.StatusView.Cultivator.VesselQi != 5 {
		t.Errorf("Expected vessel qi 5, got %v", result.StatusView.Cultivator.VesselQi)
	}
	if result.QiGained != 5 {
		t.Errorf("Expected 5 qi gained, got %v", result.QiGained)
	}
	if result.StatusView.Cultivator.SpiritualQi != 0 {
		t.Error("Vessel cultivation must not touch spiritual qi")
	}
}

func TestCultivate_InvalidTimes(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()

	for _, times := range []int{-1, service.MaxIncrementsPerCall + 1} {
		if _, err := svc.CultivateSpirit(ctx, times); !errors.Is(err, service.ErrInvalidTimes) {
			t.Errorf("times=%d: expected ErrInvalidTimes, got %v", times, err)
		}
	}

	view, _ := svc.State(ctx)
	if view.Cultivator != engine.NewCultivator() {
		t.Error("Rejected request must not change state")
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := newTestService(t, store)

	svc.CultivateVessel(ctx, 3)
	if _, err := svc.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Get(codec.StorageKey); err != nil {
		t.Fatalf("Expected save under %s: %v", codec.StorageKey, err)
	}

	svc.CultivateVessel(ctx, 10)
	result, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if result.Status != engine.StatusApplied {
		t.Errorf("Expected applied load, got %s", result.Status)
	}
	if result.StatusView.Cultivator.VesselQi != 3 {
		t.Errorf("Expected saved vessel qi 3, got %v", result.StatusView.Cultivator.VesselQi)
	}
}

func TestSave_Failure(t *testing.T) {
	svc := newTestService(t, failingStore{storage.NewMemoryStore()})

	_, err := svc.Save(context.Background())
	if !errors.Is(err, service.ErrSaveFailed) {
		t.Errorf("Expected ErrSaveFailed, got %v", err)
	}
}

func TestLoad_CorruptSave(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := newTestService(t, store)
	svc.CultivateVessel(ctx, 4)

	// Decodable but not a cultivator envelope
	store.Set(codec.StorageKey, "eyJjdWx0aXZhdG9yIjo")

	result, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load must not fail: %v", err)
	}
	if result.StatusView.Cultivator != engine.NewCultivator() {
		t.Errorf("Expected fresh cultivator, got %+v", result.StatusView.Cultivator)
	}
}

func TestHeartbeat(t *testing.T) {
	notifier := &MockNotifier{}
	svc := newTestService(t, storage.NewMemoryStore(), service.WithNotifier(notifier))

	result, err := svc.Heartbeat(context.Background())
	if err != nil {
		t.Fatalf("Heartbeat failed: %v", err)
	}
	if result.Status != engine.StatusUnspecified || result.Changed {
		t.Errorf("Expected unspecified unchanged result, got %+v", result)
	}
	if notifier.Count() != 0 {
		t.Error("Heartbeat must not broadcast")
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	svc := newTestService(t, store)
	svc.CultivateVessel(ctx, 2)
	svc.Save(ctx)

	result, _ := svc.Reset(ctx)
	if result.StatusView.Cultivator != engine.NewCultivator() {
		t.Errorf("Expected fresh cultivator, got %+v", result.StatusView.Cultivator)
	}

	loaded, _ := svc.Load(ctx)
	if loaded.StatusView.Cultivator.VesselQi != 2 {
		t.Error("Reset must not touch the saved game")
	}
}

func TestTiers(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryStore())
	info, err := svc.Tiers(context.Background())
	if err != nil {
		t.Fatalf("Tiers failed: %v", err)
	}
	if len(info.Spiritual) != 11 || len(info.Physical) != 3 || len(info.Quality) != 11 {
		t.Fatalf("Unexpected table sizes: %d/%d/%d", len(info.Spiritual), len(info.Physical), len(info.Quality))
	}
	if info.Physical[0].Multiplier != nil {
		t.Error("Vessel tiers carry no multiplier")
	}
	if *info.Spiritual[10].Multiplier != 100 {
		t.Errorf("Expected Sovereign Empyrean multiplier 100, got %v", *info.Spiritual[10].Multiplier)
	}
}

func TestConcurrentCultivation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.CultivateVessel(ctx, 5)
		}()
	}
	wg.Wait()

	view, _ := svc.State(ctx)
	if view.Cultivator.VesselQi != 100 {
		t.Errorf("Expected 100 vessel qi, got %v", view.Cultivator.VesselQi)
	}
}
