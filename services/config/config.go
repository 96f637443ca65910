package config

import (
	"context"
	"encoding/json"
	"sync"

	"arcadeio/bus"
	"arcadeio/errcode"
	"arcadeio/types"
	"arcadeio/x/mathx"
)

// -----------------------------------------------------------------------------
// Limits
// -----------------------------------------------------------------------------

const (
	MinLEDsPerSlot = 1
	MaxLEDsPerSlot = 16
	MaxInputDelay  = 16 // ticks
)

// EmbeddedConfigLookup allows overriding how default configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Config is the tunable state the I/O core reads every tick. It is owned by
// the Store; readers only ever see copies.
type Config struct {
	Level          uint8         `json:"level"`
	PerButton      uint8         `json:"per_button"`
	PerAux         uint8         `json:"per_aux"`
	MainActiveHigh bool          `json:"main_button_active_high"`
	AuxActiveHigh  bool          `json:"aux_button_active_high"`
	Gamma          bool          `json:"gamma"`
	InputDelay     uint8         `json:"input_delay"`
	Buttons        []PinOverride `json:"buttons"`
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	c.Buttons = append([]PinOverride(nil), c.Buttons...)
	return c
}

// Lighting is the part of Config read on every lighting frame.
type Lighting struct {
	Level     uint8
	PerButton uint8
	PerAux    uint8
	Gamma     bool
}

// Lighting returns the lighting fields of c.
func (c Config) Lighting() Lighting {
	return Lighting{Level: c.Level, PerButton: c.PerButton, PerAux: c.PerAux, Gamma: c.Gamma}
}

// Override returns the pin override for channel i; out of range is unset.
func (c Config) Override(i int) PinOverride {
	if i < 0 || i >= len(c.Buttons) {
		return Unset()
	}
	return c.Buttons[i]
}

// Provider gives read access to the current configuration.
type Provider interface {
	Snapshot() Config
}

// -----------------------------------------------------------------------------
// Store
// -----------------------------------------------------------------------------

// Store is the in-memory configuration. Mutators are called from the
// command layer; validation failures leave the store untouched.
type Store struct {
	mu       sync.RWMutex
	cfg      Config
	defaults []int
	conn     *bus.Connection
}

// Load decodes the embedded defaults for board. defaultPins are the board's
// default GPIOs, one per button channel.
func Load(board string, defaultPins []int) (*Store, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "config.load", Msg: "no embedded config for board: " + board}
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "config.load", Err: err}
	}
	return New(cfg, defaultPins), nil
}

// New wraps cfg. The button override list is sized to defaultPins.
func New(cfg Config, defaultPins []int) *Store {
	cfg = cfg.Clone()
	btn := make([]PinOverride, len(defaultPins))
	copy(btn, cfg.Buttons)
	cfg.Buttons = btn
	cfg.PerButton = mathx.Clamp(cfg.PerButton, MinLEDsPerSlot, MaxLEDsPerSlot)
	cfg.PerAux = mathx.Clamp(cfg.PerAux, MinLEDsPerSlot, MaxLEDsPerSlot)
	cfg.InputDelay = mathx.Min(cfg.InputDelay, MaxInputDelay)
	return &Store{
		cfg:      cfg,
		defaults: append([]int(nil), defaultPins...),
	}
}

func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// ActiveHigh returns the pressed levels without copying the whole config.
func (s *Store) ActiveHigh() (main, aux bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.MainActiveHigh, s.cfg.AuxActiveHigh
}

// Lighting returns the per-frame lighting fields without cloning the pin
// table.
func (s *Store) Lighting() Lighting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Lighting()
}

// Start publishes the configuration retained on config/io and republishes
// after every change until ctx is done.
func (s *Store) Start(ctx context.Context, conn *bus.Connection) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.publish()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
	}()
}

func (s *Store) publish() {
	s.mu.RLock()
	conn := s.conn
	cfg := s.cfg.Clone()
	s.mu.RUnlock()
	if conn == nil {
		return
	}
	conn.Publish(conn.NewMessage(bus.T(types.TokConfig, types.TokIO), cfg, true))
}

func (s *Store) update(fn func(c *Config)) {
	s.mu.Lock()
	fn(&s.cfg)
	s.mu.Unlock()
	s.publish()
}

// SetLevel sets the global LED brightness (0..255).
func (s *Store) SetLevel(level uint8) {
	s.update(func(c *Config) { c.Level = level })
}

// SetLEDCounts sets how many physical LEDs each flat-strip slot drives.
func (s *Store) SetLEDCounts(perButton, perAux int) error {
	if !mathx.Between(perButton, MinLEDsPerSlot, MaxLEDsPerSlot) ||
		!mathx.Between(perAux, MinLEDsPerSlot, MaxLEDsPerSlot) {
		return errcode.InvalidParams
	}
	s.update(func(c *Config) {
		c.PerButton = uint8(perButton)
		c.PerAux = uint8(perAux)
	})
	return nil
}

// SetActiveHigh sets the electrical level that means "pressed" for the
// main and auxiliary button groups.
func (s *Store) SetActiveHigh(main, aux bool) {
	s.update(func(c *Config) {
		c.MainActiveHigh = main
		c.AuxActiveHigh = aux
	})
}

func (s *Store) SetGamma(on bool) {
	s.update(func(c *Config) { c.Gamma = on })
}

// SetInputDelay sets the button delay line length in input ticks.
func (s *Store) SetInputDelay(ticks int) error {
	if !mathx.Between(ticks, 0, MaxInputDelay) {
		return errcode.InvalidParams
	}
	s.update(func(c *Config) { c.InputDelay = uint8(ticks) })
	return nil
}

// SetButtonPin assigns gpio to channel i. Assigning the board default
// stores "unset" so a later board change keeps its own default.
func (s *Store) SetButtonPin(i, gpio int) error {
	if i < 0 || i >= len(s.defaults) {
		return errcode.InvalidIndex
	}
	if !mathx.Between(gpio, 0, MaxGPIO) {
		return errcode.UnknownPin
	}
	o := Pin(uint8(gpio))
	if gpio == s.defaults[i] {
		o = Unset()
	}
	s.update(func(c *Config) { c.Buttons[i] = o })
	return nil
}

// ResetPins clears every pin override.
func (s *Store) ResetPins() {
	s.update(func(c *Config) {
		for i := range c.Buttons {
			c.Buttons[i] = Unset()
		}
	})
}
