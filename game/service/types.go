package service

import (
	"github.com/wricardo/immortal-reincarnation/game/engine"
)

// MaxIncrementsPerCall bounds the times parameter of the cultivate operations
const MaxIncrementsPerCall = 1000

// StatusView is the cultivator plus everything a client needs to display it
type StatusView struct {
	Cultivator            engine.Cultivator `json:"cultivator"`
	SpiritualTierLabel    string            `json:"spiritual_tier_label"`
	SpiritualHarmonyLabel string            `json:"spiritual_harmony_label"`
	VesselTierLabel       string            `json:"vessel_tier_label"`
	MeridiansLabel        string            `json:"meridians_label"`
	SpiritualQiDisplay    string            `json:"spiritual_qi_display"`
	VesselQiDisplay       string            `json:"vessel_qi_display"`
	SpiritualRate         float64           `json:"spiritual_rate"`
	NextSpiritualTier     string            `json:"next_spiritual_tier,omitempty"`
	Lines                 []string          `json:"lines"`
}

// ActionResult contains the result of one player action
type ActionResult struct {
	Command    engine.CommandKind `json:"command"`
	Status     engine.Status      `json:"status"`
	Changed    bool               `json:"changed"`
	Times      int                `json:"times,omitempty"`
	QiGained   float64            `json:"qi_gained,omitempty"`
	Message    string             `json:"message"`
	Error      string             `json:"error,omitempty"`
	StatusView *StatusView        `json:"state"`
}

// TierInfo describes one row of a tier table
type TierInfo struct {
	Ordinal    int      `json:"ordinal"`
	Tag        string   `json:"tag"`
	Label      string   `json:"label"`
	Multiplier *float64 `json:"multiplier,omitempty"` // Absent for vessel tiers
}

// TierTableInfo lists every tier table in ascending order
type TierTableInfo struct {
	Spiritual []TierInfo `json:"spiritual"`
	Physical  []TierInfo `json:"physical"`
	Quality   []TierInfo `json:"quality"`
}

// NewStatusView builds the display view of c
func NewStatusView(c engine.Cultivator) *StatusView {
	view := &StatusView{
		Cultivator:            c,
		SpiritualTierLabel:    c.SpiritualTier.Label(),
		SpiritualHarmonyLabel: c.SpiritualHarmony.Label(),
		VesselTierLabel:       c.VesselTier.Label(),
		MeridiansLabel:        c.Meridians.Label(),
		SpiritualQiDisplay:    engine.FormatQi(c.SpiritualQi),
		VesselQiDisplay:       engine.FormatQi(c.VesselQi),
		SpiritualRate:         c.SpiritualRate(),
		Lines:                 engine.StatusLines(c),
	}
	if next, ok := c.SpiritualTier.Next(); ok {
		view.NextSpiritualTier = next.Label()
	}
	return view
}

// NewTierTableInfo lists the static tier tables
func NewTierTableInfo() *TierTableInfo {
	info := &TierTableInfo{}
	for _, tier := range engine.SpiritualTiers() {
		m := tier.Multiplier()
		info.Spiritual = append(info.Spiritual, TierInfo{Ordinal: int(tier), Tag: tier.Tag(), Label: tier.Label(), Multiplier: &m})
	}
	for _, tier := range engine.PhysicalTiers() {
		info.Physical = append(info.Physical, TierInfo{Ordinal: int(tier), Tag: tier.Tag(), Label: tier.Label()})
	}
	for _, q := range engine.Qualities() {
		m := q.Multiplier()
		info.Quality = append(info.Quality, TierInfo{Ordinal: int(q), Tag: q.Tag(), Label: q.Label(), Multiplier: &m})
	}
	return info
}
