package engine

import (
	"errors"
	"math"
	"testing"
)

// fakePersistence keeps one snapshot in memory and can be told to fail.
type fakePersistence struct {
	saved       *Cultivator
	storeErr    error
	retrieveErr error
	stores      int
}

func (f *fakePersistence) Store(c Cultivator) error {
	f.stores++
	if f.storeErr != nil {
		return f.storeErr
	}
	f.saved = &c
	return nil
}

func (f *fakePersistence) Retrieve() (Cultivator, error) {
	if f.retrieveErr != nil {
		return NewCultivator(), f.retrieveErr
	}
	if f.saved == nil {
		return NewCultivator(), nil
	}
	return *f.saved, nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine(&fakePersistence{})
	if engine == nil {
		t.Fatal("Expected engine to be non-nil")
	}

	if engine.State() != NewCultivator() {
		t.Errorf("Expected default state, got %+v", engine.State())
	}
}

func TestEngine_IncrementSpiritual(t *testing.T) {
	for _, tier := range SpiritualTiers() {
		t.Run(tier.Tag(), func(t *testing.T) {
			engine := NewEngine(nil)
			start := NewCultivator()
			start.SpiritualTier = tier
			start.SpiritualQi = 3.5
			if err := engine.SetState(start); err != nil {
				t.Fatalf("Failed to set state: %v", err)
			}

			const n = 25
			for i := 0; i < n; i++ {
				outcome := engine.IncrementSpiritual()
				if !outcome.Changed || outcome.Status != StatusApplied {
					t.Fatalf("Expected applied outcome, got %+v", outcome)
				}
			}

			expected := 3.5 + n*tier.Multiplier()
			if !approxEqual(engine.State().SpiritualQi, expected) {
				t.Errorf("Expected spiritual qi %v, got %v", expected, engine.State().SpiritualQi)
			}
			if engine.State().SpiritualTier != tier {
				t.Errorf("Tier should not advance, got %s", engine.State().SpiritualTier)
			}
		})
	}
}

func TestEngine_HigherTierYieldsMore(t *testing.T) {
	tiers := SpiritualTiers()
	var previous float64
	for i, tier := range tiers {
		engine := NewEngine(nil)
		state := NewCultivator()
		state.SpiritualTier = tier
		engine.SetState(state)
		engine.IncrementSpiritual()

		gained := engine.State().SpiritualQi
		if i > 0 && gained <= previous {
			t.Errorf("%s yielded %v, not more than %v", tier, gained, previous)
		}
		previous = gained
	}
}

func TestEngine_IncrementVessel(t *testing.T) {
	engine := NewEngine(nil)
	state := NewCultivator()
	state.VesselQi = 7
	state.VesselTier = MeridianReforging
	engine.SetState(state)

	for i := 0; i < 10; i++ {
		outcome := engine.IncrementVessel()
		if !outcome.Changed {
			t.Fatal("Expected vessel increment to change state")
		}
	}

	if engine.State().VesselQi != 17 {
		t.Errorf("Expected vessel qi 17, got %v", engine.State().VesselQi)
	}
	if engine.State().VesselCycles != 0 {
		t.Errorf("Vessel cycles should stay untouched, got %d", engine.State().VesselCycles)
	}
	if engine.State().SpiritualQi != 0 {
		t.Errorf("Spiritual qi should stay untouched, got %v", engine.State().SpiritualQi)
	}
}

func TestEngine_FreshInstallScenario(t *testing.T) {
	store := &fakePersistence{}
	engine := NewEngine(store)

	outcome := engine.Load()
	if outcome.Status != StatusApplied || outcome.Err != nil {
		t.Fatalf("Expected clean load on fresh install, got %+v", outcome)
	}
	if engine.State() != NewCultivator() {
		t.Fatalf("Expected default state, got %+v", engine.State())
	}

	engine.IncrementSpiritual()
	if !approxEqual(engine.State().SpiritualQi, 0.01) {
		t.Errorf("Expected 0.01 after one increment, got %v", engine.State().SpiritualQi)
	}

	for i := 0; i < 99; i++ {
		engine.IncrementSpiritual()
	}
	if FormatQi(engine.State().SpiritualQi) != "1.00" {
		t.Errorf("Expected 1.00 after 100 increments, got %v", engine.State().SpiritualQi)
	}

	if _, err := engine.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	engine.Reset()
	outcome = engine.Load()
	if outcome.Status != StatusApplied {
		t.Fatalf("Expected applied load, got %+v", outcome)
	}
	if FormatQi(engine.State().SpiritualQi) != "1.00" {
		t.Errorf("Expected 1.00 after reload, got %v", engine.State().SpiritualQi)
	}
}

func TestEngine_SaveFailure(t *testing.T) {
	writeErr := errors.New("quota exceeded")
	engine := NewEngine(&fakePersistence{storeErr: writeErr})
	engine.IncrementVessel()

	outcome, err := engine.Save()
	if !errors.Is(err, writeErr) {
		t.Fatalf("Expected write error, got %v", err)
	}
	if outcome.Status != StatusFailed || outcome.Changed {
		t.Errorf("Expected failed unchanged outcome, got %+v", outcome)
	}
	if engine.State().VesselQi != 1 {
		t.Errorf("Failed save must not alter state, got %+v", engine.State())
	}
}

func TestEngine_SaveWithoutPersistence(t *testing.T) {
	engine := NewEngine(nil)
	_, err := engine.Save()
	if !errors.Is(err, ErrNoPersistence) {
		t.Errorf("Expected ErrNoPersistence, got %v", err)
	}
}

func TestEngine_LoadFailureFallsBackToDefault(t *testing.T) {
	store := &fakePersistence{retrieveErr: errors.New("malformed")}
	engine := NewEngine(store)
	for i := 0; i < 5; i++ {
		engine.IncrementVessel()
	}

	outcome := engine.Load()
	if outcome.Status != StatusRecovered {
		t.Errorf("Expected recovered status, got %s", outcome.Status)
	}
	if outcome.Err == nil {
		t.Error("Expected recovered outcome to carry the error")
	}
	if engine.State() != NewCultivator() {
		t.Errorf("Expected default state after failed load, got %+v", engine.State())
	}
}

func TestEngine_LoadRejectsInvalidSnapshot(t *testing.T) {
	bad := NewCultivator()
	bad.SpiritualTier = SpiritualTier(77)
	engine := NewEngine(&fakePersistence{saved: &bad})

	outcome := engine.Load()
	if outcome.Status != StatusRecovered || !errors.Is(outcome.Err, ErrInvalidState) {
		t.Errorf("Expected recovery from invalid snapshot, got %+v", outcome)
	}
	if engine.State() != NewCultivator() {
		t.Errorf("Expected default state, got %+v", engine.State())
	}
}

func TestEngine_LoadReplacesTiers(t *testing.T) {
	saved := NewCultivator()
	saved.SpiritualTier = NascentSoul
	saved.VesselTier = OrganRefinement
	saved.Meridians = Great
	engine := NewEngine(&fakePersistence{saved: &saved})

	engine.Load()
	if engine.State() != saved {
		t.Errorf("Expected %+v, got %+v", saved, engine.State())
	}

	engine.IncrementSpiritual()
	if !approxEqual(engine.State().SpiritualQi, 1.0) {
		t.Errorf("Expected Nascent Soul rate 1.0, got %v", engine.State().SpiritualQi)
	}
}

func TestEngine_Heartbeat(t *testing.T) {
	engine := NewEngine(nil)
	engine.IncrementSpiritual()
	before := engine.State()

	outcome := engine.Heartbeat()
	if outcome.Status != StatusUnspecified {
		t.Errorf("Expected unspecified status, got %s", outcome.Status)
	}
	if outcome.Changed {
		t.Error("Heartbeat must not report a change")
	}
	if engine.State() != before {
		t.Error("Heartbeat must not mutate state")
	}
}

func TestEngine_Dispatch(t *testing.T) {
	store := &fakePersistence{}
	engine := NewEngine(store)

	tests := []struct {
		kind    CommandKind
		status  Status
		changed bool
	}{
		{CommandSpirit, StatusApplied, true},
		{CommandVessel, StatusApplied, true},
		{CommandSave, StatusApplied, true},
		{CommandLoad, StatusApplied, true},
		{CommandHeartbeat, StatusUnspecified, false},
		{CommandKind("ascend"), StatusRejected, false},
	}

	for _, test := range tests {
		t.Run(string(test.kind), func(t *testing.T) {
			outcome := engine.Dispatch(Command{Kind: test.kind})
			if outcome.Status != test.status {
				t.Errorf("Expected status %s, got %s", test.status, outcome.Status)
			}
			if outcome.Changed != test.changed {
				t.Errorf("Expected changed=%v, got %v", test.changed, outcome.Changed)
			}
		})
	}

	if store.stores != 1 {
		t.Errorf("Expected exactly one store call, got %d", store.stores)
	}
	if engine.State().VesselQi != 1 || !approxEqual(engine.State().SpiritualQi, 0.01) {
		t.Errorf("Unexpected state after dispatch sequence: %+v", engine.State())
	}
}

func TestEngine_SetStateRejectsInvalid(t *testing.T) {
	engine := NewEngine(nil)
	bad := NewCultivator()
	bad.VesselQi = -3

	if err := engine.SetState(bad); err == nil {
		t.Error("Expected error for negative vessel qi")
	}
	if engine.State() != NewCultivator() {
		t.Error("Rejected state must not be applied")
	}
}
