// Package debounce turns raw button levels into a stable bitmask.
//
// Each channel holds its debounced state and a freeze deadline. A reading
// that disagrees with the stable state flips it only once the deadline has
// passed, and every flip re-arms the deadline. The engine is driven from a
// fixed 1 kHz tick and owns its channels; callers on other goroutines go
// through the service lock.
package debounce

import (
	"time"

	"arcadeio/errcode"
	"arcadeio/services/config"
	"arcadeio/services/io/internal/platform"
	"arcadeio/services/io/internal/topology"
	"arcadeio/x/timex"
)

// FreezeWindow is the minimum hold time after a transition.
const FreezeWindow = 3 * time.Millisecond

// Polarity gives the electrical level that means "pressed" per group.
type Polarity struct {
	MainHigh bool
	AuxHigh  bool
}

// PolarityOf extracts the active levels from cfg.
func PolarityOf(cfg config.Config) Polarity {
	return Polarity{MainHigh: cfg.MainActiveHigh, AuxHigh: cfg.AuxActiveHigh}
}

type channel struct {
	def         int
	gpio        int
	pin         platform.Pin
	stable      bool
	freezeUntil time.Duration
}

type Engine struct {
	board topology.Board
	pins  platform.PinFactory
	clock timex.Clock

	ch []channel

	// delay line; empty means pass-through
	hist []uint16
	head int

	reading uint16
}

func New(board topology.Board, pins platform.PinFactory, clock timex.Clock) *Engine {
	ch := make([]channel, len(board.ButtonPins))
	for i, def := range board.ButtonPins {
		ch[i] = channel{def: def, gpio: def}
	}
	return &Engine{board: board, pins: pins, clock: clock, ch: ch}
}

// Channels returns the channel count.
func (e *Engine) Channels() int { return len(e.ch) }

// Init configures every channel from cfg and clears all filter state.
// Failing to obtain a default pin is a hardware init error.
func (e *Engine) Init(cfg config.Config) error {
	for i := range e.ch {
		if err := e.setup(i, cfg.Override(i)); err != nil {
			return err
		}
	}
	e.hist = make([]uint16, cfg.InputDelay)
	e.head = 0
	e.reading = 0
	return nil
}

// Reconfigure rebinds channel ch and resets its filter. An override above
// GPIOMax, or one the platform cannot provide, falls back to the default.
func (e *Engine) Reconfigure(ch int, o config.PinOverride) error {
	if ch < 0 || ch >= len(e.ch) {
		return errcode.InvalidIndex
	}
	return e.setup(ch, o)
}

func (e *Engine) setup(i int, o config.PinOverride) error {
	c := &e.ch[i]
	gpio := o.Resolve(c.def, topology.GPIOMax)
	p, ok := e.pins.ByNumber(gpio)
	if !ok && gpio != c.def {
		println("[debounce] gpio", gpio, "unavailable, channel", i, "using default", c.def)
		gpio = c.def
		p, ok = e.pins.ByNumber(gpio)
	}
	if !ok {
		return &errcode.E{C: errcode.HardwareInit, Op: "debounce.init", Msg: "no pin for channel"}
	}
	if err := p.ConfigureInput(platform.PullUp); err != nil {
		return &errcode.E{C: errcode.HardwareInit, Op: "debounce.init", Err: err}
	}
	c.gpio = gpio
	c.pin = p
	c.stable = false
	c.freezeUntil = 0
	return nil
}

func (e *Engine) pressed(i int, pol Polarity) bool {
	c := &e.ch[i]
	if c.pin == nil {
		return false
	}
	active := pol.AuxHigh
	if e.board.Main(i) {
		active = pol.MainHigh
	}
	return c.pin.Get() == active
}

// SampleAll reads every channel once, runs the filter and returns the value
// readers observe (after the delay line). Bit i is channel i.
func (e *Engine) SampleAll(pol Polarity) uint16 {
	now := e.clock.Now()
	var buttons uint16

	for i := len(e.ch) - 1; i >= 0; i-- {
		p := e.pressed(i, pol)
		c := &e.ch[i]
		if now >= c.freezeUntil && p != c.stable {
			c.stable = p
			c.freezeUntil = now + FreezeWindow
		}
		buttons <<= 1
		if c.stable {
			buttons |= 1
		}
	}

	if len(e.hist) == 0 {
		e.reading = buttons
	} else {
		e.reading = e.hist[e.head]
		e.hist[e.head] = buttons
		e.head = (e.head + 1) % len(e.hist)
	}
	return e.reading
}

// Read returns the last value produced by SampleAll.
func (e *Engine) Read() uint16 { return e.reading }

// Stuck reports whether any channel reads pressed before filtering. Only
// boards with the stuck check enabled report; others always return false.
func (e *Engine) Stuck(pol Polarity) bool {
	if !e.board.StuckCheck {
		return false
	}
	for i := range e.ch {
		if e.pressed(i, pol) {
			return true
		}
	}
	return false
}

// RealPin returns the GPIO channel ch is bound to.
func (e *Engine) RealPin(ch int) (int, bool) {
	if ch < 0 || ch >= len(e.ch) {
		return 0, false
	}
	return e.ch[ch].gpio, true
}

// DefaultPin returns the board default GPIO for channel ch.
func (e *Engine) DefaultPin(ch int) (int, bool) {
	if ch < 0 || ch >= len(e.ch) {
		return 0, false
	}
	return e.ch[ch].def, true
}
