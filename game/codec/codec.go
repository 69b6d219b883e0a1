package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/wricardo/immortal-reincarnation/game/engine"
	"github.com/wricardo/immortal-reincarnation/game/storage"
)

// StorageKey is the single key the saved game lives under
const StorageKey = "myimmortalreincarnation"

var (
	ErrDecodeFailed   = errors.New("stored save is not valid base64")
	ErrMalformedState = errors.New("malformed cultivator state")
	ErrStoreFailed    = errors.New("failed to store cultivator")
)

// payloadEncoding is standard base64 without padding. Strict mode rejects
// non-zero trailing bits.
var payloadEncoding = base64.RawStdEncoding.Strict()

// SaveData is the JSON envelope written to storage
type SaveData struct {
	Cultivator *engine.Cultivator `json:"cultivator"`
}

// Codec round-trips a cultivator through a storage.Store. It implements
// engine.Persistence.
type Codec struct {
	store  storage.Store
	logger *log.Logger
	debug  bool
}

var _ engine.Persistence = (*Codec)(nil)

// Option configures a Codec
type Option func(*Codec)

// WithLogger sets the logger used for warnings and debug output
func WithLogger(logger *log.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug logs the raw and encoded payload on every store
func WithDebug(debug bool) Option {
	return func(c *Codec) {
		c.debug = debug
	}
}

// New creates a codec over store
func New(store storage.Store, opts ...Option) *Codec {
	c := &Codec{
		store:  store,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Serialize renders a cultivator as its JSON save envelope
func Serialize(state engine.Cultivator) ([]byte, error) {
	data, err := json.Marshal(SaveData{Cultivator: &state})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cultivator: %w", err)
	}
	return data, nil
}

// savedCultivator mirrors engine.Cultivator with every field required
type savedCultivator struct {
	VesselQi         *float64              `json:"vessel_qi"`
	VesselCycles     *uint32               `json:"vessel_cycles"`
	VesselTier       *engine.PhysicalTier  `json:"vessel_tier"`
	SpiritualQi      *float64              `json:"spiritual_qi"`
	SpiritualHarmony *engine.Quality       `json:"spiritual_harmony"`
	SpiritualTier    *engine.SpiritualTier `json:"spiritual_tier"`
	Meridians        *engine.Quality       `json:"meridians"`
}

type savedEnvelope struct {
	Cultivator *savedCultivator `json:"cultivator"`
}

func (s *savedCultivator) cultivator() (engine.Cultivator, error) {
	switch {
	case s.VesselQi == nil:
		return engine.Cultivator{}, errors.New("missing field vessel_qi")
	case s.VesselCycles == nil:
		return engine.Cultivator{}, errors.New("missing field vessel_cycles")
	case s.VesselTier == nil:
		return engine.Cultivator{}, errors.New("missing field vessel_tier")
	case s.SpiritualQi == nil:
		return engine.Cultivator{}, errors.New("missing field spiritual_qi")
	case s.SpiritualHarmony == nil:
		return engine.Cultivator{}, errors.New("missing field spiritual_harmony")
	case s.SpiritualTier == nil:
		return engine.Cultivator{}, errors.New("missing field spiritual_tier")
	case s.Meridians == nil:
		return engine.Cultivator{}, errors.New("missing field meridians")
	}
	return engine.Cultivator{
		VesselQi:         *s.VesselQi,
		VesselCycles:     *s.VesselCycles,
		VesselTier:       *s.VesselTier,
		SpiritualQi:      *s.SpiritualQi,
		SpiritualHarmony: *s.SpiritualHarmony,
		SpiritualTier:    *s.SpiritualTier,
		Meridians:        *s.Meridians,
	}, nil
}

// Deserialize parses a JSON save envelope. Structural errors, missing or
// unknown fields, unknown tier tags and out-of-range values all report
// ErrMalformedState.
func Deserialize(data []byte) (engine.Cultivator, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var envelope savedEnvelope
	if err := dec.Decode(&envelope); err != nil {
		return engine.Cultivator{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if dec.More() {
		return engine.Cultivator{}, fmt.Errorf("%w: trailing data after envelope", ErrMalformedState)
	}
	if envelope.Cultivator == nil {
		return engine.Cultivator{}, fmt.Errorf("%w: missing cultivator", ErrMalformedState)
	}

	state, err := envelope.Cultivator.cultivator()
	if err != nil {
		return engine.Cultivator{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if err := state.Validate(); err != nil {
		return engine.Cultivator{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return state, nil
}

// Encode wraps serialized bytes in printable text
func Encode(data []byte) string {
	return payloadEncoding.EncodeToString(data)
}

// Decode reverses Encode. Line breaks are rejected rather than skipped.
func Decode(text string) ([]byte, error) {
	if strings.ContainsAny(text, "\r\n") {
		return nil, fmt.Errorf("%w: payload contains a line break", ErrDecodeFailed)
	}
	data, err := payloadEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return data, nil
}

// Store serializes, encodes and writes state under StorageKey, replacing any
// previous save.
func (c *Codec) Store(state engine.Cultivator) error {
	raw, err := Serialize(state)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	encoded := Encode(raw)

	if c.debug {
		c.logger.Printf("Save payload: %s", raw)
		c.logger.Printf("Save encoded: %s", encoded)
	}

	if err := c.store.Set(StorageKey, encoded); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	return nil
}

// Retrieve reads the saved cultivator.
//
// A missing key or a failed read yields the default cultivator without error.
// A value that is not valid base64 is replaced by the serialized default before
// parsing, so it also yields the default without error. A value that decodes
// but does not parse returns the default together with ErrMalformedState.
func (c *Codec) Retrieve() (engine.Cultivator, error) {
	raw, err := c.store.Get(StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Printf("Warning: Failed to read saved game, starting fresh: %v", err)
		}
		return engine.NewCultivator(), nil
	}

	decoded, err := Decode(raw)
	if err != nil {
		c.logger.Printf("Warning: %v, substituting a fresh cultivator", err)
		decoded, err = Serialize(engine.NewCultivator())
		if err != nil {
			return engine.NewCultivator(), err
		}
	}

	state, err := Deserialize(decoded)
	if err != nil {
		return engine.NewCultivator(), err
	}
	return state, nil
}

// Peek decodes and parses an encoded payload without any fallback. A rejected
// payload returns an error wrapping ErrDecodeFailed or ErrMalformedState.
func Peek(text string) (engine.Cultivator, error) {
	decoded, err := Decode(text)
	if err != nil {
		return engine.Cultivator{}, err
	}
	return Deserialize(decoded)
}
