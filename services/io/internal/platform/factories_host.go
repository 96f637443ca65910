//go:build !rp2040 && !rp2350

package platform

import (
	"sync"
)

// ----------------------------- GPIO (host) -----------------------------------

// FakePin is a host-side input. An undriven pin follows its pull-up; Set
// drives it externally and overrides the pull.
type FakePin struct {
	mu         sync.RWMutex
	number     int
	level      bool
	driven     bool
	pull       Pull
	configured int
}

func (p *FakePin) ConfigureInput(pull Pull) error {
	p.mu.Lock()
	p.pull = pull
	p.configured++
	if !p.driven {
		p.level = pull == PullUp
	}
	p.mu.Unlock()
	return nil
}

// Set drives the electrical level seen by Get.
func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.driven = true
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Number() int { return p.number }

// Pull returns the last configured bias.
func (p *FakePin) Pull() Pull {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pull
}

// Configured counts ConfigureInput calls.
func (p *FakePin) Configured() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.configured
}

// HostPinFactory returns stable *FakePin instances per number. Numbers in
// Missing are refused, to exercise init failures.
type HostPinFactory struct {
	mu      sync.Mutex
	pins    map[int]*FakePin
	Missing map[int]bool
}

func (f *HostPinFactory) ByNumber(n int) (Pin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 0 || n > GPIOMax || f.Missing[n] {
		return nil, false
	}
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *FakePin for tests.
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}

// DefaultPinFactory provides a host GPIO factory.
func DefaultPinFactory() PinFactory {
	return &HostPinFactory{pins: make(map[int]*FakePin)}
}

// ----------------------------- LEDs (host) -----------------------------------

// RecordingSink keeps the last frame written to each chain.
type RecordingSink struct {
	mu     sync.Mutex
	frames map[int][]uint32
	writes int
	Err    error
}

func (s *RecordingSink) WriteChain(chain int, words []uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.frames == nil {
		s.frames = make(map[int][]uint32)
	}
	s.frames[chain] = append(s.frames[chain][:0], words...)
	s.writes++
	return nil
}

// Frame returns a copy of the last words written to chain.
func (s *RecordingSink) Frame(chain int) []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint32(nil), s.frames[chain]...)
}

// Writes counts WriteChain calls.
func (s *RecordingSink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// NewLEDSink returns a recording sink; chain pins are ignored on host.
func NewLEDSink(_ []int) (*RecordingSink, error) { return &RecordingSink{}, nil }
