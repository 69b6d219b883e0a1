package engine

import "fmt"

// tierRecord is one row of a tier table. The ordinal of the enumeration value is
// the row index.
type tierRecord struct {
	tag        string
	label      string
	multiplier float64
}

// SpiritualTier is the cultivator's stage on the spiritual track.
type SpiritualTier int

const (
	Mortal SpiritualTier = iota
	QiCondensation
	FoundationEstablishment
	CoreFormation
	SpiritualSea
	NascentSoul
	SpiritualLord
	SpiritualEmpyrean
	DaoLord
	DaoEmpyrean
	SovereignEmpyrean
)

var spiritualTable = []tierRecord{
	Mortal:                  {"Mortal", "Mortal", 0.01},
	QiCondensation:          {"QiCondensation", "Qi Condensation", 0.05},
	FoundationEstablishment: {"FoundationEstablishment", "Foundation Establishment", 0.095},
	CoreFormation:           {"CoreFormation", "Core Formation", 0.2},
	SpiritualSea:            {"SpiritualSea", "Spiritual Sea", 0.5},
	NascentSoul:             {"NascentSoul", "Nascent Soul", 1.0},
	SpiritualLord:           {"SpiritualLord", "Spiritual Lord", 1.5},
	SpiritualEmpyrean:       {"SpiritualEmpyrean", "Spiritual Empyrean", 5.0},
	DaoLord:                 {"DaoLord", "Dao Lord", 10.0},
	DaoEmpyrean:             {"DaoEmpyrean", "Dao Empyrean", 20.0},
	SovereignEmpyrean:       {"SovereignEmpyrean", "Sovereign Empyrean", 100.0},
}

// PhysicalTier is the cultivator's stage on the vessel track. It carries a label
// only; no rate is attached to vessel stages.
type PhysicalTier int

const (
	QiGathering PhysicalTier = iota
	OrganRefinement
	MeridianReforging
)

var physicalTable = []tierRecord{
	QiGathering:       {tag: "QiGathering", label: "Qi Gathering"},
	OrganRefinement:   {tag: "OrganRefinement", label: "Organ Refinement"},
	MeridianReforging: {tag: "MeridianReforging", label: "Meridian Reforging"},
}

// Quality rates spiritual harmony and meridians. Its multiplier is descriptive and
// is not read by any progression command yet.
type Quality int

const (
	Worst Quality = iota
	VeryHorrible
	Horrible
	VeryPoor
	Poor
	Average
	Good
	VeryGood
	Great
	VeryGreat
	Best
)

var qualityTable = []tierRecord{
	Worst:        {"Worst", "Worst", 0.1},
	VeryHorrible: {"VeryHorrible", "Very Horrible", 0.3},
	Horrible:     {"Horrible", "Horrible", 0.4},
	VeryPoor:     {"VeryPoor", "Very Poor", 0.5},
	Poor:         {"Poor", "Poor", 0.8},
	Average:      {"Average", "Average", 1.0},
	Good:         {"Good", "Good", 1.2},
	VeryGood:     {"VeryGood", "Very Good", 1.5},
	Great:        {"Great", "Great", 3.0},
	VeryGreat:    {"VeryGreat", "Very Great", 4.0},
	Best:         {"Best", "Best", 10.0},
}

func lookupTag(table []tierRecord, tag string) (int, bool) {
	for i, rec := range table {
		if rec.tag == tag {
			return i, true
		}
	}
	return 0, false
}

// SpiritualTier

// SpiritualTiers returns every spiritual tier in ascending order.
func SpiritualTiers() []SpiritualTier {
	tiers := make([]SpiritualTier, len(spiritualTable))
	for i := range spiritualTable {
		tiers[i] = SpiritualTier(i)
	}
	return tiers
}

// Valid reports whether t is one of the declared spiritual tiers.
func (t SpiritualTier) Valid() bool {
	return t >= 0 && int(t) < len(spiritualTable)
}

// Multiplier returns the qi gained per spiritual increment at this tier.
func (t SpiritualTier) Multiplier() float64 {
	if !t.Valid() {
		return 0
	}
	return spiritualTable[t].multiplier
}

// Label returns the display name of the tier.
func (t SpiritualTier) Label() string {
	if !t.Valid() {
		return fmt.Sprintf("SpiritualTier(%d)", int(t))
	}
	return spiritualTable[t].label
}

// Tag returns the identifier used in persisted state.
func (t SpiritualTier) Tag() string {
	if !t.Valid() {
		return ""
	}
	return spiritualTable[t].tag
}

// Next returns the tier after t. The second value is false at the last tier.
func (t SpiritualTier) Next() (SpiritualTier, bool) {
	if !t.Valid() || int(t)+1 >= len(spiritualTable) {
		return t, false
	}
	return t + 1, true
}

func (t SpiritualTier) String() string {
	return t.Label()
}

// MarshalText encodes the tier as its tag.
func (t SpiritualTier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid spiritual tier %d", int(t))
	}
	return []byte(spiritualTable[t].tag), nil
}

// UnmarshalText decodes a tier tag. Unknown tags are rejected.
func (t *SpiritualTier) UnmarshalText(text []byte) error {
	idx, ok := lookupTag(spiritualTable, string(text))
	if !ok {
		return fmt.Errorf("unknown spiritual tier %q", string(text))
	}
	*t = SpiritualTier(idx)
	return nil
}

// PhysicalTier

// PhysicalTiers returns every vessel tier in ascending order.
func PhysicalTiers() []PhysicalTier {
	tiers := make([]PhysicalTier, len(physicalTable))
	for i := range physicalTable {
		tiers[i] = PhysicalTier(i)
	}
	return tiers
}

// Valid reports whether t is a declared physical tier
func (t PhysicalTier) Valid() bool {
	return t >= 0 && int(t) < len(physicalTable)
}

// Label returns the display name, e.g. "Organ Refinement"
func (t PhysicalTier) Label() string {
	if !t.Valid() {
		return fmt.Sprintf("PhysicalTier(%d)", int(t))
	}
	return physicalTable[t].label
}

// Tag returns the save-file identifier, or "" for an undeclared tier
func (t PhysicalTier) Tag() string {
	if !t.Valid() {
		return ""
	}
	return physicalTable[t].tag
}

// Next returns the following tier. It reports false at the top tier.
func (t PhysicalTier) Next() (PhysicalTier, bool) {
	if !t.Valid() || int(t)+1 >= len(physicalTable) {
		return t, false
	}
	return t + 1, true
}

func (t PhysicalTier) String() string {
	return t.Label()
}

// MarshalText encodes t as its tag
func (t PhysicalTier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid physical tier %d", int(t))
	}
	return []byte(physicalTable[t].tag), nil
}

// UnmarshalText accepts a tag; labels and unknown names are rejected
func (t *PhysicalTier) UnmarshalText(text []byte) error {
	idx, ok := lookupTag(physicalTable, string(text))
	if !ok {
		return fmt.Errorf("unknown physical tier %q", string(text))
	}
	*t = PhysicalTier(idx)
	return nil
}

// Quality

// Qualities returns every quality grade from worst to best.
func Qualities() []Quality {
	qs := make([]Quality, len(qualityTable))
	for i := range qualityTable {
		qs[i] = Quality(i)
	}
	return qs
}

// Valid reports whether q is a declared quality grade
func (q Quality) Valid() bool {
	return q >= 0 && int(q) < len(qualityTable)
}

// Multiplier returns the grade's multiplier, or 0 for an undeclared grade
func (q Quality) Multiplier() float64 {
	if !q.Valid() {
		return 0
	}
	return qualityTable[q].multiplier
}

// Label returns the display name, e.g. "Very Good"
func (q Quality) Label() string {
	if !q.Valid() {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return qualityTable[q].label
}

// Tag returns the save-file identifier, or "" for an undeclared grade
func (q Quality) Tag() string {
	if !q.Valid() {
		return ""
	}
	return qualityTable[q].tag
}

// Next returns the following grade. It reports false at Best.
func (q Quality) Next() (Quality, bool) {
	if !q.Valid() || int(q)+1 >= len(qualityTable) {
		return q, false
	}
	return q + 1, true
}

func (q Quality) String() string {
	return q.Label()
}

// MarshalText encodes q as its tag
func (q Quality) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("invalid quality %d", int(q))
	}
	return []byte(qualityTable[q].tag), nil
}

// UnmarshalText accepts a tag; labels and unknown names are rejected
func (q *Quality) UnmarshalText(text []byte) error {
	idx, ok := lookupTag(qualityTable, string(text))
	if !ok {
		return fmt.Errorf("unknown quality %q", string(text))
	}
	*q = Quality(idx)
	return nil
}
