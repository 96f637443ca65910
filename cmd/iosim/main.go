// cmd/iosim runs the I/O core against simulated buttons and prints the
// button mask and LED frames as they change. Time is stepped, not waited.
package main

import (
	"context"
	"sync"
	"time"

	"arcadeio/bus"
	"arcadeio/services/config"
	ioservice "arcadeio/services/io"
	"arcadeio/types"
	"arcadeio/x/conv"
	"arcadeio/x/timex"
)

// ---------- Script ----------

const runFor = 400 * time.Millisecond

type step struct {
	at      time.Duration
	channel int
	down    bool
	bounce  bool
}

var script = []step{
	{at: 20 * time.Millisecond, channel: 3, down: true, bounce: true},
	{at: 120 * time.Millisecond, channel: 3, down: false},
	{at: 150 * time.Millisecond, channel: 0, down: true},
	{at: 200 * time.Millisecond, channel: 8, down: true},
	{at: 260 * time.Millisecond, channel: 0, down: false},
	{at: 280 * time.Millisecond, channel: 8, down: false},
}

// host takes over the lights at this point and fades button 0 to red.
const hostAt = 300 * time.Millisecond

// ---------- Simulated hardware ----------

type simPin struct {
	mu    sync.Mutex
	n     int
	level bool
}

func (p *simPin) ConfigureInput(pull ioservice.Pull) error {
	p.mu.Lock()
	p.level = true // pulled up, released
	p.mu.Unlock()
	return nil
}

func (p *simPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *simPin) Number() int { return p.n }

func (p *simPin) set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

type simPins struct{ pins map[int]*simPin }

func (f *simPins) ByNumber(n int) (ioservice.Pin, bool) {
	p, ok := f.pins[n]
	if !ok {
		p = &simPin{n: n}
		f.pins[n] = p
	}
	return p, true
}

type printSink struct {
	clock timex.Clock
	last  map[int][]uint32
}

func (s *printSink) WriteChain(chain int, words []uint32) error {
	prev := s.last[chain]
	if equal(prev, words) {
		return nil
	}
	s.last[chain] = append(prev[:0], words...)

	var ts [20]byte
	var hx [8]byte
	print("[led] t=", string(conv.Utoa(ts[:], uint64(s.clock.Now()/time.Millisecond))), "ms chain ", chain, ":")
	for _, w := range words {
		print(" ", string(conv.U32Hex(hx[:], w)[2:]))
	}
	println()
	return nil
}

func equal(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := bus.NewBus(16)
	board := ioservice.SelectedBoard()
	clk := &timex.Manual{}

	store, err := config.Load(board.Name, board.ButtonPins)
	if err != nil {
		println("[sim] config:", err.Error())
		return
	}
	store.SetLevel(255)

	pins := &simPins{pins: map[int]*simPin{}}
	svc := ioservice.New(ioservice.Options{
		Board:  board,
		Config: store,
		Pins:   pins,
		Sink:   &printSink{clock: clk, last: map[int][]uint32{}},
		Clock:  clk,
		Conn:   b.NewConnection("io"),
	})
	if err := svc.Init(); err != nil {
		println("[sim] init:", err.Error())
		return
	}

	mon := b.NewConnection("sim").Subscribe(bus.T(types.TokInput, "#"))
	go func() {
		var hx [8]byte
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-mon.Channel():
				switch v := m.Payload.(type) {
				case types.ButtonsValue:
					println("[input] mask", string(conv.U32Hex(hx[:], uint32(v.Mask))[4:]))
				case types.StuckValue:
					println("[input] stuck", v.Stuck)
				}
			}
		}
	}()

	println("[sim] board", board.Name, "channels", len(board.ButtonPins))
	next := 0
	for clk.Now() < runFor {
		now := clk.Advance(time.Millisecond)

		for next < len(script) && script[next].at <= now {
			st := script[next]
			if p, ok := pins.pins[board.ButtonPins[st.channel]]; ok {
				p.set(!st.down)
			}
			next++
		}
		// Contact chatter for the first few ms of a bouncy press.
		if next > 0 && script[next-1].bounce {
			st := script[next-1]
			off := now - st.at
			if p, ok := pins.pins[board.ButtonPins[st.channel]]; ok && off <= 3*time.Millisecond {
				odd := off < 3*time.Millisecond && (off/time.Millisecond)%2 == 1
				p.set(!st.down != odd)
			}
		}

		if now == hostAt {
			svc.SetHostActive(true)
		}
		if now == hostAt+10*time.Millisecond {
			_ = svc.SetButtonLight(0, 0xFF0000, 200)
		}

		svc.InputTick()
		svc.LightingTick()
	}
	// Let the monitor drain before exit.
	time.Sleep(50 * time.Millisecond)
	println("[sim] done")
}
