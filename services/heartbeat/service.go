// Package heartbeat reports how fast each execution context is looping.
package heartbeat

import (
	"context"
	"sync/atomic"
	"time"

	"arcadeio/bus"
	"arcadeio/types"
	"arcadeio/x/mathx"
	"arcadeio/x/timex"
)

var (
	topicConfigHeartbeat = bus.T(types.TokConfig, types.TokHeartbeat)
	topicRates           = bus.T(types.TokHeartbeat, types.TokRates)
)

// Loop identifiers passed to Counter.Count.
const (
	Input = iota
	Lighting
	numLoops
)

const defaultInterval = time.Second

// Counter accumulates loop iterations. A nil *Counter ignores counts.
type Counter struct {
	n [numLoops]atomic.Uint32
}

// Count records one iteration of loop.
func (c *Counter) Count(loop int) {
	if c == nil || loop < 0 || loop >= numLoops {
		return
	}
	c.n[loop].Add(1)
}

func (c *Counter) take() (in, light uint32) {
	return c.n[Input].Swap(0), c.n[Lighting].Swap(0)
}

type Service struct {
	Counter *Counter
	Clock   timex.Clock

	last time.Duration
}

// Rates converts the counts gathered since the previous call to Hz.
func (s *Service) Rates(now time.Duration) types.LoopRates {
	in, light := s.Counter.take()
	ms := uint64((now - s.last) / time.Millisecond)
	s.last = now
	if ms == 0 {
		return types.LoopRates{}
	}
	return types.LoopRates{
		InputHz:    uint32(mathx.RoundDiv(uint64(in)*1000, ms)),
		LightingHz: uint32(mathx.RoundDiv(uint64(light)*1000, ms)),
	}
}

func intervalOf(payload any) (time.Duration, bool) {
	switch v := payload.(type) {
	case types.HeartbeatConfig:
		if v.IntervalMs > 0 {
			return time.Duration(v.IntervalMs) * time.Millisecond, true
		}
	case map[string]any:
		if f, ok := v["interval_ms"].(float64); ok && f > 0 {
			return time.Duration(f) * time.Millisecond, true
		}
	}
	return 0, false
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(defaultInterval)
	defer tick.Stop()
	s.last = s.Clock.Now()

	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case <-tick.C:
			r := s.Rates(s.Clock.Now())
			println("Info: loop rates input", r.InputHz, "Hz lighting", r.LightingHz, "Hz")
			conn.Publish(conn.NewMessage(topicRates, r, false))
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if iv, ok := intervalOf(msg.Payload); ok {
				tick.Reset(iv)
				println("Info: heartbeat interval set to", iv.Milliseconds(), "ms")
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.Counter == nil {
		s.Counter = &Counter{}
	}
	if s.Clock == nil {
		s.Clock = timex.Monotonic()
	}
	go s.serviceLoop(ctx, conn)
	return nil
}
