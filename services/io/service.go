// Package io runs the controller's real-time loop: button sampling on one
// context and lighting on another, sharing a single hardware lock.
package io

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"arcadeio/bus"
	"arcadeio/errcode"
	"arcadeio/services/config"
	"arcadeio/services/heartbeat"
	"arcadeio/services/io/internal/color"
	"arcadeio/services/io/internal/debounce"
	"arcadeio/services/io/internal/fade"
	"arcadeio/services/io/internal/ledout"
	"arcadeio/services/io/internal/platform"
	"arcadeio/services/io/internal/topology"
	"arcadeio/types"
	"arcadeio/x/timex"
)

// Hardware-facing types for callers outside this package.
type (
	Board      = topology.Board
	Pull       = platform.Pull
	Pin        = platform.Pin
	PinFactory = platform.PinFactory
	Sink       = ledout.Sink
)

// SelectedBoard returns the board compiled into this image.
func SelectedBoard() Board { return topology.Selected() }

// Reader is the card reader as seen by the lighting context.
type Reader interface {
	LEDColor() uint32 // logical 0xRRGGBB
	Active() bool
}

const rainbowButtons = 8

var (
	inputPeriod    = timex.PeriodFromHz(1000)
	lightingPeriod = timex.PeriodFromHz(1000)
)

var (
	topicButtons    = bus.T(types.TokInput, types.TokButtons)
	topicStuck      = bus.T(types.TokInput, types.TokStuck)
	topicHostActive = bus.T(types.TokHost, types.TokActive)
)

type Options struct {
	Board  Board
	Config *config.Store
	Pins   PinFactory      // nil: platform default
	Sink   Sink            // nil: platform LED sink on the board chains
	Clock  timex.Clock     // nil: monotonic
	Conn   *bus.Connection // optional
	Reader Reader          // optional
	Loops  *heartbeat.Counter
}

type Service struct {
	board  Board
	cfg    *config.Store
	pins   PinFactory
	sink   Sink
	clock  timex.Clock
	conn   *bus.Connection
	reader Reader
	loops  *heartbeat.Counter

	// hw serialises lighting update+push and hardware-adjacent config writes.
	hw sync.Mutex

	in  *debounce.Engine
	fx  *fade.Engine
	out *ledout.Driver

	mask       atomic.Uint32
	remap      atomic.Bool
	hostActive atomic.Bool
	stuck      bool

	// input context
	published bool
	lastMask  uint16

	// lighting context
	wasRainbow bool
	loop       uint16
	colors     []uint32
}

func New(o Options) *Service {
	if o.Clock == nil {
		o.Clock = timex.Monotonic()
	}
	if o.Pins == nil {
		o.Pins = platform.DefaultPinFactory()
	}
	s := &Service{
		board:      o.Board,
		cfg:        o.Config,
		pins:       o.Pins,
		sink:       o.Sink,
		clock:      o.Clock,
		conn:       o.Conn,
		reader:     o.Reader,
		loops:      o.Loops,
		wasRainbow: true,
	}
	slots := o.Board.Slots()
	s.in = debounce.New(o.Board, o.Pins, o.Clock)
	s.fx = fade.New(slots, o.Clock)
	s.colors = make([]uint32, 0, len(slots))
	return s
}

// Init brings up buttons and LEDs and runs the power-on stuck check.
// Any error is fatal.
func (s *Service) Init() error {
	if s.sink == nil {
		sink, err := platform.NewLEDSink(s.board.Chains())
		if err != nil {
			return err
		}
		s.sink = sink
	}
	s.out = ledout.New(s.board, s.sink, s.clock)

	cfg := s.cfg.Snapshot()
	if err := s.in.Init(cfg); err != nil {
		return err
	}
	s.stuck = s.in.Stuck(debounce.PolarityOf(cfg))
	if s.stuck {
		println("[io] button held at power-on")
	}
	s.publish(topicStuck, types.StuckValue{Stuck: s.stuck})
	return nil
}

func (s *Service) publish(t bus.Topic, payload any) {
	if s.conn == nil {
		return
	}
	s.conn.Publish(s.conn.NewMessage(t, payload, true))
}

// Stuck is the power-on self-test result.
func (s *Service) Stuck() bool { return s.stuck }

// Buttons returns the latest debounced mask; bit i is channel i.
func (s *Service) Buttons() uint16 { return uint16(s.mask.Load()) }

// SetHostActive switches off the idle animation while a host drives the
// lights.
func (s *Service) SetHostActive(on bool) { s.hostActive.Store(on) }

// -----------------------------------------------------------------------------
// Input context
// -----------------------------------------------------------------------------

// InputTick runs one input iteration: pending remaps, sampling and
// publication of the mask when it changes.
func (s *Service) InputTick() uint16 {
	if s.remap.Load() && s.hw.TryLock() {
		s.applyRemaps()
		s.remap.Store(false)
		s.hw.Unlock()
	}

	main, aux := s.cfg.ActiveHigh()
	m := s.in.SampleAll(debounce.Polarity{MainHigh: main, AuxHigh: aux})
	s.mask.Store(uint32(m))
	if !s.published || m != s.lastMask {
		s.published = true
		s.lastMask = m
		s.publish(topicButtons, types.ButtonsValue{Mask: m})
	}
	s.loops.Count(heartbeat.Input)
	return m
}

// applyRemaps rebinds every channel from the current config. A channel
// that cannot be rebound keeps its previous pin; the rest still rebind.
func (s *Service) applyRemaps() {
	cfg := s.cfg.Snapshot()
	for ch := 0; ch < s.in.Channels(); ch++ {
		if err := s.in.Reconfigure(ch, cfg.Override(ch)); err != nil {
			println("[io] remap channel", ch, "kept old pin:", err.Error())
		}
	}
}

// -----------------------------------------------------------------------------
// Lighting context
// -----------------------------------------------------------------------------

// LightingTick runs one lighting iteration. It returns false, doing
// nothing, when the hardware lock is held elsewhere.
func (s *Service) LightingTick() bool {
	defer s.loops.Count(heartbeat.Lighting)
	if !s.hw.TryLock() {
		return false
	}
	defer s.hw.Unlock()

	cfg := s.cfg.Lighting()
	s.fx.SetLevel(cfg.Level)
	s.runLights()
	if s.reader != nil && s.board.Reader != nil {
		_ = s.fx.Set(*s.board.Reader, s.reader.LEDColor(), 0)
	}

	s.fx.Tick()
	s.colors = s.fx.Colors(s.colors[:0])
	if _, err := s.out.Flush(s.colors, cfg); err != nil {
		println("[io] led push:", err.Error())
	}
	return true
}

func (s *Service) runLights() {
	rainbow := !s.hostActive.Load() && (s.reader == nil || !s.reader.Active())
	if rainbow {
		s.rainbow()
	} else if s.wasRainbow {
		for i := 0; i < rainbowButtons; i++ {
			s.setButton(i, 0, 0)
		}
	}
	s.wasRainbow = rainbow
}

func (s *Service) rainbow() {
	s.loop++
	buttons := s.Buttons()
	for i := 0; i < rainbowButtons; i++ {
		phase := uint8((i*256 + int(s.loop)) / 8)
		c := color.FromHSV(phase, 240, 20)
		if buttons&(1<<i) != 0 {
			c = color.FromHSV(phase, 64, 255)
		}
		s.setButton(i, c, 0)
	}
}

// setButton is best effort: an unmapped button is ignored.
func (s *Service) setButton(n int, c uint32, speed uint8) {
	if ref, ok := s.board.Button(n); ok {
		_ = s.fx.Set(ref, c, speed)
	}
}

// -----------------------------------------------------------------------------
// Command side (any goroutine)
// -----------------------------------------------------------------------------

// Remap moves channel ch to gpio. The input context rebinds pins on its
// next tick.
func (s *Service) Remap(ch, gpio int) error {
	s.hw.Lock()
	defer s.hw.Unlock()
	if err := s.cfg.SetButtonPin(ch, gpio); err != nil {
		return err
	}
	s.remap.Store(true)
	return nil
}

// ResetPins returns every channel to its board default.
func (s *Service) ResetPins() {
	s.hw.Lock()
	defer s.hw.Unlock()
	s.cfg.ResetPins()
	s.remap.Store(true)
}

// RealPin returns the GPIO channel ch is currently bound to.
func (s *Service) RealPin(ch int) (int, bool) {
	s.hw.Lock()
	defer s.hw.Unlock()
	return s.in.RealPin(ch)
}

// DefaultPin returns the board default GPIO for channel ch.
func (s *Service) DefaultPin(ch int) (int, bool) { return s.in.DefaultPin(ch) }

// SetButtonLight sets the light of logical button n.
func (s *Service) SetButtonLight(n int, c uint32, speed uint8) error {
	ref, ok := s.board.Button(n)
	if !ok {
		return errcode.InvalidIndex
	}
	s.hw.Lock()
	defer s.hw.Unlock()
	return s.fx.Set(ref, c, speed)
}

// SetCabLight sets cabinet light k immediately.
func (s *Service) SetCabLight(k int, c uint32) error {
	ref, ok := s.board.Cab(k)
	if !ok {
		return errcode.InvalidIndex
	}
	s.hw.Lock()
	defer s.hw.Unlock()
	return s.fx.Set(ref, c, 0)
}

// SetReaderLight sets the card reader light on boards that have one.
func (s *Service) SetReaderLight(c uint32) error {
	if s.board.Reader == nil {
		return errcode.UnknownMember
	}
	s.hw.Lock()
	defer s.hw.Unlock()
	return s.fx.Set(*s.board.Reader, c, 0)
}

// -----------------------------------------------------------------------------
// Run
// -----------------------------------------------------------------------------

// Run drives both contexts until ctx is done. Init must have succeeded.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.every(ctx, inputPeriod, func() { s.InputTick() })
	}()
	go func() {
		defer wg.Done()
		s.every(ctx, lightingPeriod, func() { s.LightingTick() })
	}()
	if s.conn != nil {
		go s.watchHost(ctx)
	}
	wg.Wait()
}

func (s *Service) every(ctx context.Context, period time.Duration, fn func()) {
	tick := time.NewTicker(period)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			fn()
		}
	}
}

func (s *Service) watchHost(ctx context.Context) {
	sub := s.conn.Subscribe(topicHostActive)
	defer s.conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			if v, ok := msg.Payload.(types.HostActive); ok {
				s.SetHostActive(v.Active)
			}
		}
	}
}
