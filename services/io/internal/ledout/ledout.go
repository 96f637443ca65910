// Package ledout expands slot colours to physical LEDs and pushes them to
// the chain sink at no more than 250 Hz.
package ledout

import (
	"time"

	"arcadeio/services/config"
	"arcadeio/services/io/internal/color"
	"arcadeio/services/io/internal/topology"
	"arcadeio/x/timex"
)

// Throttle is the minimum spacing between pushes.
const Throttle = 4 * time.Millisecond

// Sink transmits one chain of wire-ordered words. Blocking.
type Sink interface {
	WriteChain(chain int, words []uint32) error
}

type Driver struct {
	board topology.Board
	slots []topology.Slot
	sink  Sink
	clock timex.Clock
	last  time.Duration
	buf   [][]uint32 // per chain, reused
}

func New(board topology.Board, sink Sink, clock timex.Clock) *Driver {
	return &Driver{
		board: board,
		slots: board.Slots(),
		sink:  sink,
		clock: clock,
		buf:   make([][]uint32, len(board.Chains())),
	}
}

// repeat returns how many physical LEDs slot s drives.
func repeat(s topology.Slot, cfg config.Lighting) int {
	if s.LEDs > 0 {
		return s.LEDs
	}
	if s.Aux {
		return int(cfg.PerAux)
	}
	return int(cfg.PerButton)
}

// Push transmits colors (one logical colour per slot, in slot order).
// It returns false without writing when called within Throttle of the last
// push. The first sink error aborts the frame.
func (d *Driver) Push(now time.Duration, colors []uint32, cfg config.Lighting) (bool, error) {
	if now-d.last < Throttle {
		return false, nil
	}
	d.last = now

	for i := range d.buf {
		d.buf[i] = d.buf[i][:0]
	}
	for i, s := range d.slots {
		if i >= len(colors) {
			break
		}
		r, g, b := color.Split(colors[i])
		w := color.FromRGB(d.board.Order, r, g, b, cfg.Gamma)
		for n := repeat(s, cfg); n > 0; n-- {
			d.buf[s.Chain] = append(d.buf[s.Chain], w)
		}
	}
	for chain, words := range d.buf {
		if err := d.sink.WriteChain(chain, words); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Flush pushes using the driver clock.
func (d *Driver) Flush(colors []uint32, cfg config.Lighting) (bool, error) {
	return d.Push(d.clock.Now(), colors, cfg)
}
