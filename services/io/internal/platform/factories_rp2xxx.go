//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"runtime/interrupt"

	"arcadeio/errcode"

	"tinygo.org/x/drivers/ws2812"
)

type rp2PinFactory struct{}
type rp2Pin struct {
	p machine.Pin
	n int
}

func (rp2PinFactory) ByNumber(n int) (Pin, bool) {
	if n < 0 || n > GPIOMax {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

func (r *rp2Pin) ConfigureInput(p Pull) error {
	var mode machine.PinMode
	switch p {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) Get() bool   { return r.p.Get() }
func (r *rp2Pin) Number() int { return r.n }

func DefaultPinFactory() PinFactory { return rp2PinFactory{} }

// ----------------------------- LEDs ------------------------------------------

// WS2812Sink bit-bangs one ws2812 chain per data pin.
type WS2812Sink struct {
	devs []ws2812.Device
}

// NewLEDSink configures each chain pin as an output and binds a driver.
func NewLEDSink(pins []int) (*WS2812Sink, error) {
	s := &WS2812Sink{devs: make([]ws2812.Device, len(pins))}
	for i, n := range pins {
		if n < 0 || n > GPIOMax {
			return nil, &errcode.E{C: errcode.HardwareInit, Op: "platform.led", Msg: "bad led pin"}
		}
		p := machine.Pin(n)
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		s.devs[i] = ws2812.New(p)
	}
	return s, nil
}

// WriteChain sends words high byte first. Interrupts are held off for the
// whole chain so the latch gap is not hit mid-frame.
func (s *WS2812Sink) WriteChain(chain int, words []uint32) error {
	if chain < 0 || chain >= len(s.devs) {
		return errcode.InvalidIndex
	}
	d := &s.devs[chain]
	state := interrupt.Disable()
	for _, w := range words {
		d.WriteByte(byte(w >> 16))
		d.WriteByte(byte(w >> 8))
		d.WriteByte(byte(w))
	}
	interrupt.Restore(state)
	return nil
}
