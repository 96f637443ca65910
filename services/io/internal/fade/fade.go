// Package fade owns the per-slot colour state and runs linear fades.
package fade

import (
	"time"

	"arcadeio/errcode"
	"arcadeio/services/io/internal/color"
	"arcadeio/services/io/internal/topology"
	"arcadeio/x/timex"
)

// Throttle is the minimum spacing between effective Advance runs.
const Throttle = 4 * time.Millisecond

// Duration returns the fade length in ms for speed (> 0).
func Duration(speed uint8) uint32 {
	if speed == 0 {
		return 0
	}
	return 4095 / uint32(speed) * 8
}

type slot struct {
	shown    uint32 // pre-level colour on display
	current  uint32 // post-level, ready to transmit
	base     uint32
	target   uint32
	duration uint32 // ms, 0 when steady
	elapsed  uint32 // ms
}

type Engine struct {
	slots []slot
	index map[topology.Ref]int
	level uint8
	clock timex.Clock
	last  time.Duration
}

// New creates one steady black slot per entry, in transmission order.
func New(slots []topology.Slot, clock timex.Clock) *Engine {
	e := &Engine{
		slots: make([]slot, len(slots)),
		index: make(map[topology.Ref]int, len(slots)),
		level: 255,
		clock: clock,
	}
	for i, s := range slots {
		e.index[s.Ref] = i
	}
	return e
}

// SetLevel sets the brightness used by later sets and fade steps.
func (e *Engine) SetLevel(level uint8) { e.level = level }

// Set requests c on ref. speed 0 applies immediately; otherwise a fade
// starts from the colour currently shown.
func (e *Engine) Set(ref topology.Ref, c uint32, speed uint8) error {
	i, ok := e.index[ref]
	if !ok {
		if ref.Tree {
			return errcode.UnknownMember
		}
		return errcode.UnknownSlot
	}
	s := &e.slots[i]
	c &= 0xFFFFFF
	if speed > 0 {
		s.base = s.shown
		s.target = c
		s.duration = Duration(speed)
		s.elapsed = 0
		return nil
	}
	s.shown = c
	s.duration = 0
	s.current = color.ApplyLevel(c, e.level)
	return nil
}

// SetIndex addresses a flat strip slot.
func (e *Engine) SetIndex(i int, c uint32, speed uint8) error {
	return e.Set(topology.Index(i), c, speed)
}

// SetMember addresses a named member of a tree pin group.
func (e *Engine) SetMember(group int, name uint8, c uint32, speed uint8) error {
	return e.Set(topology.MemberRef(group, name), c, speed)
}

// Advance steps every fading slot by the ms elapsed since the last
// effective run. Calls closer than Throttle are no-ops and return false.
func (e *Engine) Advance(now time.Duration) bool {
	if now-e.last < Throttle {
		return false
	}
	delta := uint32((now - e.last) / time.Millisecond)
	e.last = now

	for i := range e.slots {
		s := &e.slots[i]
		if s.duration == 0 {
			continue
		}
		s.elapsed += delta
		if s.elapsed >= s.duration {
			s.duration = 0
			// Completion snaps to the raw target; level is not applied.
			s.shown = s.target
			s.current = s.target
			continue
		}
		progress := uint8(uint64(s.elapsed) * 255 / uint64(s.duration))
		s.shown = color.Lerp(s.base, s.target, progress)
		s.current = color.ApplyLevel(s.shown, e.level)
	}
	return true
}

// Tick advances using the engine clock.
func (e *Engine) Tick() bool { return e.Advance(e.clock.Now()) }

// Current returns the transmit-ready colour of slot i.
func (e *Engine) Current(i int) uint32 {
	if i < 0 || i >= len(e.slots) {
		return 0
	}
	return e.slots[i].current
}

// Fading reports whether slot i is mid-fade.
func (e *Engine) Fading(i int) bool {
	return i >= 0 && i < len(e.slots) && e.slots[i].duration != 0
}

// Colors appends every slot's current colour to dst in slot order.
func (e *Engine) Colors(dst []uint32) []uint32 {
	for i := range e.slots {
		dst = append(dst, e.slots[i].current)
	}
	return dst
}
